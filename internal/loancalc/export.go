package loancalc

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/finboard/finboard-backend/internal/domain"
)

var scheduleCSVHeader = []string{
	"month", "due_date", "principal", "interest", "total_payment", "ending_balance", "paid", "payment_date",
}

// WriteScheduleCSV writes schedule as CSV with amounts rounded to cents.
// Due dates are derived from the loan's start date.
func WriteScheduleCSV(w io.Writer, loan *domain.Loan, schedule []AmortizationEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(scheduleCSVHeader); err != nil {
		return err
	}

	for _, entry := range schedule {
		paidOn := ""
		if entry.PaymentDate != nil {
			paidOn = entry.PaymentDate.Format(time.DateOnly)
		}
		record := []string{
			strconv.Itoa(entry.Month),
			loan.PaymentDueDate(entry.Month).Format(time.DateOnly),
			entry.Principal.StringFixed(2),
			entry.Interest.StringFixed(2),
			entry.TotalPayment.StringFixed(2),
			entry.EndingBalance.StringFixed(2),
			strconv.FormatBool(entry.IsPaid),
			paidOn,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
