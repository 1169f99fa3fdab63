package main

import (
	"fmt"
	"os"
	"time"

	"github.com/finboard/finboard-backend/internal/cli"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/spf13/cobra"
)

var (
	flagFile   string
	flagAmount float64
	flagRate   float64
	flagMonths int
	flagYears  int
	flagEMI    float64
	flagStart  string
)

var rootCmd = &cobra.Command{
	Use:   "loancalc",
	Short: "Loan amortization calculator",
	Long:  "Compute amortization schedules, prepayment savings and pre-closure payoffs for a loan.",
	RunE:  runSchedule,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagFile, "file", "f", "", "TOML loan file")
	rootCmd.PersistentFlags().Float64VarP(&flagAmount, "amount", "a", 0, "Loan amount")
	rootCmd.PersistentFlags().Float64VarP(&flagRate, "rate", "r", 0, "Annual interest rate in percent")
	rootCmd.PersistentFlags().IntVarP(&flagMonths, "months", "m", 0, "Tenure in months")
	rootCmd.PersistentFlags().IntVarP(&flagYears, "years", "y", 0, "Tenure in years")
	rootCmd.PersistentFlags().Float64Var(&flagEMI, "emi", 0, "Monthly installment, derived when omitted")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Start date (YYYY-MM-DD)")
}

// loadLoan builds the loan from the file and flags. Flags override file values.
func loadLoan(cmd *cobra.Command) (*domain.Loan, []*domain.Transaction, error) {
	file := &cli.LoanFile{}
	if flagFile != "" {
		var err error
		if file, err = cli.LoadLoanFile(flagFile); err != nil {
			return nil, nil, err
		}
	}

	overrides, err := flagOverrides(cmd)
	if err != nil {
		return nil, nil, err
	}
	file.Apply(overrides)

	loan, err := file.BuildLoan()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid loan: %w", err)
	}
	return loan, file.Transactions(loan), nil
}

func flagOverrides(cmd *cobra.Command) (cli.Overrides, error) {
	var o cli.Overrides
	flags := cmd.Flags()
	if flags.Changed("amount") {
		o.Amount = &flagAmount
	}
	if flags.Changed("rate") {
		o.Rate = &flagRate
	}
	if flags.Changed("months") {
		o.Months = &flagMonths
	}
	if flags.Changed("years") {
		o.Years = &flagYears
	}
	if flags.Changed("emi") {
		o.EMI = &flagEMI
	}
	if flags.Changed("start") {
		start, err := time.Parse(time.DateOnly, flagStart)
		if err != nil {
			return o, fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", flagStart)
		}
		o.Start = &start
	}
	return o, nil
}

func printHeader(title string, loan *domain.Loan) {
	fmt.Println()
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()
	fmt.Print(cli.RenderLoanTerms(loan))
	fmt.Println()
}
