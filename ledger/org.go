package ledger

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/slicingpie/pie"
)

// FormatFounderOrg renders a founder's calculations as an Org-mode block.
// Structured figures go in a PROPERTIES drawer; the per-multiplier
// breakdown follows as a table.
func FormatFounderOrg(f pie.Founder, c pie.FounderCalculations, percent float64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "** Founder: %s (%s)\n", f.Name, shortID(f.ID))
	b.WriteString(":PROPERTIES:\n")
	fmt.Fprintf(&b, ":FOUNDER_ID: %s\n", f.ID)
	fmt.Fprintf(&b, ":TOTAL_SLICES: %.2f\n", c.Slices.Total)
	fmt.Fprintf(&b, ":SHARE_PERCENT: %.2f\n", percent)
	fmt.Fprintf(&b, ":HOURS_WORKED: %.2f\n", c.HoursWorked)
	fmt.Fprintf(&b, ":WORKING_MONTHS: %.2f\n", c.WorkingMonths)
	fmt.Fprintf(&b, ":NON_WORKING_MONTHS: %.2f\n", c.NonWorkingMonths)
	fmt.Fprintf(&b, ":HOURLY_GAP: %.2f\n", c.HourlyGap)
	fmt.Fprintf(&b, ":SALARY_GAP_VALUE: %.2f\n", c.SalaryGapValue)
	fmt.Fprintf(&b, ":CASH_INVESTED: %.2f\n", c.CashInvested)
	fmt.Fprintf(&b, ":REVENUE_TOTAL: %.2f\n", c.RevenueTotal)
	fmt.Fprintf(&b, ":EXPENSES_TOTAL: %.2f\n", c.ExpensesTotal)
	fmt.Fprintf(&b, ":EXPENSE_RECEIVED_TOTAL: %.2f\n", c.ExpenseReceivedTotal)
	b.WriteString(":END:\n\n")

	b.WriteString("| Category | Multiplier | Entries | Amount | Slices |\n")
	b.WriteString("|-\n")
	for _, id := range pie.AllCategories {
		bd := c.CategoryBreakdowns[id]
		if len(bd.Entries) == 0 {
			continue
		}
		for _, g := range bd.Entries {
			fmt.Fprintf(&b, "| %s | %g | %d | %.2f | %.2f |\n", id, g.Multiplier, g.EntryCount, g.TotalAmount, g.TotalSlices)
		}
	}
	fmt.Fprintf(&b, "| total | | | | %.2f |\n", c.Slices.Total)
	return b.String()
}

// FormatPieOrg renders every founder in the pie, separated by blank lines.
func FormatPieOrg(p pie.Pie) string {
	var b strings.Builder
	fmt.Fprintf(&b, "* Slicing Pie (%.2f slices)\n\n", p.TotalSlices)
	for i, s := range p.Shares {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(FormatFounderOrg(s.Founder, s.Calculations, s.Percent))
	}
	return b.String()
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
