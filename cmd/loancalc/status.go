package main

import (
	"fmt"

	"github.com/finboard/finboard-backend/internal/cli"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/spf13/cobra"
)

var flagFullSchedule bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Balance and progress from the payments in the loan file",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().BoolVar(&flagFullSchedule, "schedule", false, "Also print the reconciled schedule")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	loan, txs, err := loadLoan(cmd)
	if err != nil {
		return err
	}
	status := loancalc.CalculateCurrentBalance(loan, txs)

	printHeader("LOAN STATUS", loan)
	fmt.Print(cli.RenderStatus(status))
	if flagFullSchedule {
		fmt.Println()
		fmt.Print(cli.RenderSchedule(loan, status.Schedule, true))
	}
	return nil
}
