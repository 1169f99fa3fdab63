package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/shopspring/decimal"
)

// fileLoanID identifies the single loan described by a loan file
const fileLoanID int32 = 1

// LoanFile is the TOML description of a loan and its recorded payments:
//
//	[loan]
//	name = "Car loan"
//	amount = 100000
//	rate = 10
//	months = 12
//	emi = 8792
//	start = 2023-01-01
//
//	[[payments]]
//	date = 2023-01-03
type LoanFile struct {
	Loan     LoanSpec      `toml:"loan"`
	Payments []PaymentSpec `toml:"payments"`
}

// LoanSpec holds the loan terms. Either Months or Years defines the term;
// Months wins when positive. A zero EMI is derived from the annuity formula.
type LoanSpec struct {
	Name   string    `toml:"name"`
	Amount float64   `toml:"amount"`
	Rate   float64   `toml:"rate"`
	Months int       `toml:"months"`
	Years  int       `toml:"years"`
	EMI    float64   `toml:"emi"`
	Start  time.Time `toml:"start"`
}

// PaymentSpec is one recorded EMI payment. Amount defaults to the EMI.
type PaymentSpec struct {
	Date   time.Time `toml:"date"`
	Amount float64   `toml:"amount"`
}

// Overrides are command line values that replace file values when set
type Overrides struct {
	Amount *float64
	Rate   *float64
	Months *int
	Years  *int
	EMI    *float64
	Start  *time.Time
}

// LoadLoanFile reads and parses a loan file
func LoadLoanFile(path string) (*LoanFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading loan file: %w", err)
	}
	return ParseLoanFile(string(data))
}

// ParseLoanFile parses loan file contents
func ParseLoanFile(data string) (*LoanFile, error) {
	var f LoanFile
	meta, err := toml.Decode(data, &f)
	if err != nil {
		return nil, fmt.Errorf("parsing loan file: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parsing loan file: unknown key %q", undecoded[0].String())
	}
	return &f, nil
}

// Apply replaces loan terms with the overrides that are set
func (f *LoanFile) Apply(o Overrides) {
	if o.Amount != nil {
		f.Loan.Amount = *o.Amount
	}
	if o.Rate != nil {
		f.Loan.Rate = *o.Rate
	}
	if o.Years != nil {
		f.Loan.Years = *o.Years
		f.Loan.Months = 0
	}
	if o.Months != nil {
		f.Loan.Months = *o.Months
	}
	if o.EMI != nil {
		f.Loan.EMI = *o.EMI
	}
	if o.Start != nil {
		f.Loan.Start = *o.Start
	}
}

// BuildLoan builds the domain loan, deriving the EMI when none is given
func (f *LoanFile) BuildLoan() (*domain.Loan, error) {
	name := f.Loan.Name
	if name == "" {
		name = "Loan"
	}
	loan := &domain.Loan{
		ID:             fileLoanID,
		Name:           name,
		LoanAmount:     decimal.NewFromFloat(f.Loan.Amount),
		InterestRate:   decimal.NewFromFloat(f.Loan.Rate),
		Tenure:         int32(f.Loan.Years),
		TenureInMonths: int32(f.Loan.Months),
		EMI:            decimal.NewFromFloat(f.Loan.EMI),
		StartDate:      calendarDate(f.Loan.Start),
	}
	if loan.StartDate.IsZero() {
		now := time.Now()
		loan.StartDate = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}
	if loan.EMI.IsZero() {
		loan.EMI = loancalc.CalculateEMI(loan.LoanAmount, loan.InterestRate, loan.TotalMonths())
	}

	if err := loan.Validate(); err != nil {
		return nil, err
	}
	return loan, nil
}

// Transactions converts the recorded payments into EMI payment transactions
func (f *LoanFile) Transactions(loan *domain.Loan) []*domain.Transaction {
	loanID := loan.ID
	txs := make([]*domain.Transaction, 0, len(f.Payments))
	for i, p := range f.Payments {
		amount := loan.EMI
		if p.Amount > 0 {
			amount = decimal.NewFromFloat(p.Amount)
		}
		txs = append(txs, &domain.Transaction{
			ID:              int32(i + 1),
			LoanID:          &loanID,
			Name:            fmt.Sprintf("Payment %d", i+1),
			Amount:          amount,
			Type:            domain.TransactionTypeExpense,
			TransactionDate: calendarDate(p.Date),
		})
	}
	return txs
}

// calendarDate drops the clock and zone TOML attaches to local dates
func calendarDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
