package main

import (
	"errors"
	"fmt"

	"github.com/finboard/finboard-backend/internal/cli"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagExtraEMI  bool
	flagIncrease  float64
	flagLumpSum   float64
	flagLumpMonth int
)

var prepayCmd = &cobra.Command{
	Use:   "prepay",
	Short: "Simulate a prepayment strategy against the baseline",
	RunE:  runPrepay,
}

func init() {
	prepayCmd.Flags().BoolVar(&flagExtraEMI, "extra-emi", false, "Pay one extra EMI every 12th month")
	prepayCmd.Flags().Float64Var(&flagIncrease, "increase", 0, "Raise the EMI by this percent every year")
	prepayCmd.Flags().Float64Var(&flagLumpSum, "lump-sum", 0, "One-time prepayment amount")
	prepayCmd.Flags().IntVar(&flagLumpMonth, "lump-month", loancalc.DefaultLumpSumTiming, "Month the lump sum is paid")
	rootCmd.AddCommand(prepayCmd)
}

func runPrepay(cmd *cobra.Command, _ []string) error {
	if flagLumpSum < 0 || flagLumpMonth < 0 || flagIncrease < -100 {
		return errors.New("invalid prepayment strategy")
	}
	loan, _, err := loadLoan(cmd)
	if err != nil {
		return err
	}

	strategy := loancalc.NewPrepaymentStrategy(flagExtraEMI, decimal.NewFromFloat(flagIncrease))
	strategy.LumpSumAmount = decimal.NewFromFloat(flagLumpSum)
	strategy.LumpSumTiming = flagLumpMonth
	comparison := loancalc.CompareStrategy(loan, strategy)

	printHeader("PREPAYMENT", loan)
	fmt.Print(cli.RenderComparison(comparison))
	return nil
}
