package main

import (
	"fmt"
	"os"

	"github.com/finboard/finboard-backend/internal/cli"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/spf13/cobra"
)

var flagCSV bool

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Baseline amortization schedule",
	RunE:  runSchedule,
}

func init() {
	scheduleCmd.Flags().BoolVar(&flagCSV, "csv", false, "Write the schedule as CSV to stdout")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	loan, _, err := loadLoan(cmd)
	if err != nil {
		return err
	}
	summary := loancalc.CalculateLoanSummary(loan)

	if flagCSV {
		return loancalc.WriteScheduleCSV(os.Stdout, loan, summary.AmortizationSchedule)
	}

	printHeader("LOAN SCHEDULE", loan)
	fmt.Print(cli.RenderSchedule(loan, summary.AmortizationSchedule, false))
	fmt.Println()
	fmt.Print(cli.RenderSummary(summary))
	return nil
}
