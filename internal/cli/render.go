package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/finboard/finboard-backend/internal/domain"
	"github.com/finboard/finboard-backend/internal/loancalc"
	"github.com/shopspring/decimal"
)

var (
	ColorBorder    = lipgloss.Color("#282726")
	ColorTextDim   = lipgloss.Color("#575653")
	ColorTextMuted = lipgloss.Color("#6F6E69")
	ColorText      = lipgloss.Color("#FFFCF0")
	ColorAccent    = lipgloss.Color("#3AA99F")
	ColorGreen     = lipgloss.Color("#879A39")
	ColorOrange    = lipgloss.Color("#DA702C")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Align(lipgloss.Center)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent)

	valueStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	mutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	savedStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	warnStyle = lipgloss.NewStyle().
			Foreground(ColorOrange)

	dimStyle = lipgloss.NewStyle().
			Foreground(ColorTextDim)
)

// separatorRow inside Table.Rows draws a horizontal rule
const separatorRow = "---"

// Table is a bordered text table. The first column is left aligned and the
// rest are right aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Widths  []int // optional, computed from content when nil
}

// RenderTitle renders a centered title in a rounded box
func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable renders t with box drawing borders
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	if t.Widths != nil {
		copy(widths, t.Widths)
	} else {
		for i, h := range t.Headers {
			widths[i] = max(widths[i], lipgloss.Width(h))
		}
		for _, row := range t.Rows {
			for i, cell := range row {
				if i < numCols {
					widths[i] = max(widths[i], lipgloss.Width(cell))
				}
			}
		}
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	writeRule(&b, widths, "╭", "┬", "╮")
	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		writeRule(&b, widths, "├", "┼", "┤")
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == separatorRow {
			writeRule(&b, widths, "├", "┼", "┤")
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			fill := strings.Repeat(" ", max(widths[i]-lipgloss.Width(cell), 0))
			if i == 0 {
				b.WriteString(" " + valueStyle.Render(cell) + fill + " ")
			} else {
				b.WriteString(" " + fill + valueStyle.Render(cell) + " ")
			}
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}
	writeRule(&b, widths, "╰", "┴", "╯")

	return b.String()
}

func writeRule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(dimStyle.Render(left))
	for i, w := range widths {
		b.WriteString(dimStyle.Render(strings.Repeat("─", w+2)))
		if i < len(widths)-1 {
			b.WriteString(dimStyle.Render(mid))
		}
	}
	b.WriteString(dimStyle.Render(right))
	b.WriteString("\n")
}

// RenderLoanTerms renders the loan's terms as a two column table
func RenderLoanTerms(loan *domain.Loan) string {
	return RenderTable(Table{
		Title:   loan.Name,
		Headers: []string{"Term", "Value"},
		Rows: [][]string{
			{"Amount", FormatMoney(loan.LoanAmount)},
			{"Interest Rate", FormatPercent(loan.InterestRate)},
			{"Tenure", FormatMonths(loan.TotalMonths())},
			{"EMI", FormatMoney(loan.EMI)},
			{"Start Date", FormatDate(loan.StartDate)},
		},
	})
}

// RenderSchedule renders a schedule with due dates and totals. Paid columns
// appear when the schedule was reconciled against payments.
func RenderSchedule(loan *domain.Loan, schedule []loancalc.AmortizationEntry, reconciled bool) string {
	headers := []string{"Month", "Due", "Principal", "Interest", "Payment", "Balance"}
	if reconciled {
		headers = append(headers, "Paid")
	}

	rows := make([][]string, 0, len(schedule)+2)
	principal, interest, paid := decimal.Zero, decimal.Zero, decimal.Zero
	for _, e := range schedule {
		row := []string{
			strconv.Itoa(e.Month),
			FormatDate(loan.PaymentDueDate(e.Month)),
			FormatMoney(e.Principal),
			FormatMoney(e.Interest),
			FormatMoney(e.TotalPayment),
			FormatMoney(e.EndingBalance),
		}
		if reconciled {
			row = append(row, paidLabel(e))
		}
		rows = append(rows, row)
		principal = principal.Add(e.Principal)
		interest = interest.Add(e.Interest)
		paid = paid.Add(e.TotalPayment)
	}

	rows = append(rows, []string{separatorRow})
	rows = append(rows, []string{"Total", "", FormatMoney(principal), FormatMoney(interest), FormatMoney(paid), ""})

	return RenderTable(Table{Title: "Amortization Schedule", Headers: headers, Rows: rows})
}

func paidLabel(e loancalc.AmortizationEntry) string {
	if !e.IsPaid {
		return ""
	}
	if e.PaymentDate != nil {
		return FormatDate(*e.PaymentDate)
	}
	return "yes"
}

// RenderSummary renders the aggregates of a computed schedule
func RenderSummary(summary *loancalc.LoanSummary) string {
	var b strings.Builder
	b.WriteString(RenderTable(Table{
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Months", strconv.Itoa(len(summary.AmortizationSchedule))},
			{"Total Interest", FormatMoney(summary.TotalInterestPaid)},
			{"Loan End Date", FormatDate(summary.LoanEndDate)},
		},
	}))
	if !summary.IsFullyAmortized() {
		b.WriteString(warnStyle.Render("  EMI does not cover the monthly interest; the loan never amortizes"))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderStatus renders the reconciliation of a loan against its payments
func RenderStatus(status *loancalc.LoanStatus) string {
	next := mutedStyle.Render("none")
	if status.NextPaymentDue != nil {
		next = strconv.Itoa(*status.NextPaymentDue)
	}
	state := "active"
	if status.IsFullyPaid {
		state = savedStyle.Render("fully paid")
	}

	return RenderTable(Table{
		Title:   "Loan Status",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Current Balance", FormatMoney(status.CurrentBalance)},
			{"Paid", FormatPercent(status.PercentagePaid)},
			{"Payments", fmt.Sprintf("%d / %d", status.PaymentsMade, status.TotalPayments)},
			{"Next Payment", next},
			{"State", state},
		},
	})
}

// RenderComparison renders a strategy simulation next to the baseline
func RenderComparison(c *loancalc.StrategyComparison) string {
	baseline, simulated := c.Baseline, c.Simulated
	rows := [][]string{
		{"Months", strconv.Itoa(len(baseline.AmortizationSchedule)), strconv.Itoa(len(simulated.AmortizationSchedule))},
		{"Total Interest", FormatMoney(baseline.TotalInterestPaid), FormatMoney(simulated.TotalInterestPaid)},
		{"Loan End Date", FormatDate(baseline.LoanEndDate), FormatDate(simulated.LoanEndDate)},
		{separatorRow},
		{"Interest Saved", "", savedStyle.Render(FormatMoney(c.InterestSaved))},
		{"Time Saved", "", savedStyle.Render(FormatMonths(c.MonthsSaved))},
	}
	return RenderTable(Table{
		Title:   "Prepayment Simulation",
		Headers: []string{"Metric", "Baseline", "With Strategy"},
		Rows:    rows,
	})
}

// RenderPreClosure renders the payoff for closing the loan at targetMonth
func RenderPreClosure(targetMonth int, p *loancalc.PreClosureCalculation) string {
	if p.PayoffAmount.IsZero() {
		return mutedStyle.Render(fmt.Sprintf("  Month %d is not an open month of this loan", targetMonth)) + "\n"
	}
	return RenderTable(Table{
		Title:   fmt.Sprintf("Pre-closure at Month %d", targetMonth),
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Payoff Amount", FormatMoney(p.PayoffAmount)},
			{"Interest Saved", FormatMoney(p.InterestSaved)},
			{"Months Early", strconv.Itoa(p.MonthsEarly)},
		},
	})
}
