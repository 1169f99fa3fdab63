package main

import (
	"errors"
	"fmt"

	"github.com/finboard/finboard-backend/internal/cli"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/spf13/cobra"
)

var flagTargetMonth int

var precloseCmd = &cobra.Command{
	Use:   "preclose",
	Short: "Payoff amount and savings for closing the loan at a month",
	RunE:  runPreclose,
}

func init() {
	precloseCmd.Flags().IntVar(&flagTargetMonth, "month", 0, "Month in which the loan is closed")
	_ = precloseCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(precloseCmd)
}

func runPreclose(cmd *cobra.Command, _ []string) error {
	if flagTargetMonth < 1 {
		return errors.New("--month must be at least 1")
	}
	loan, txs, err := loadLoan(cmd)
	if err != nil {
		return err
	}

	payoff := loancalc.CalculatePreClosure(loan, txs, flagTargetMonth)

	printHeader("PRE-CLOSURE", loan)
	fmt.Print(cli.RenderPreClosure(flagTargetMonth, payoff))
	return nil
}
