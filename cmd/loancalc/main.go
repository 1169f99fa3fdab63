// Command loancalc runs the loan engine offline against a TOML loan file or
// command line terms.
package main

func main() {
	Execute()
}
