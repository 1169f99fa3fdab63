package cache

import (
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/finboard/finboard-backend/internal/domain"
)

// SummaryKey fingerprints the fields a loan schedule depends on. Editing the
// name or notes keeps the key; any change to the terms produces a new one.
func SummaryKey(loan *domain.Loan) string {
	var b strings.Builder
	b.WriteString(strconv.FormatInt(int64(loan.ID), 10))
	b.WriteByte('|')
	b.WriteString(loan.LoanAmount.String())
	b.WriteByte('|')
	b.WriteString(loan.InterestRate.String())
	b.WriteByte('|')
	b.WriteString(strconv.Itoa(loan.TotalMonths()))
	b.WriteByte('|')
	b.WriteString(loan.EMI.String())
	b.WriteByte('|')
	b.WriteString(loan.StartDate.UTC().Format(time.DateOnly))

	return "summary:" + strconv.FormatUint(xxhash.Sum64String(b.String()), 16)
}
