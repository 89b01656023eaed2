package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rustyeddy/slicingpie/pie"
)

func newTab(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
}

// WriteSummary writes one row per founder with slices per category,
// the total and the founder's share of the pie.
func WriteSummary(w io.Writer, p pie.Pie, categories []pie.Category) error {
	tw := newTab(w)

	header := []string{"Founder"}
	for _, c := range categories {
		header = append(header, c.Name)
	}
	header = append(header, "Total", "Share", "")
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, s := range p.Shares {
		row := []string{s.Founder.Name}
		for _, c := range categories {
			v := sliceFor(s.Calculations.Slices, c.ID)
			if c.ID == pie.ExpenseReceived && v != 0 {
				row = append(row, "-"+FormatSlices(v))
				continue
			}
			row = append(row, FormatSlices(v))
		}
		row = append(row, FormatSlices(s.Calculations.Slices.Total), FormatNumber(s.Percent, 2)+"%", "")
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}

	fmt.Fprintf(tw, "Total%s\t%s\t100.00%%\t\n", strings.Repeat("\t", len(categories)), FormatSlices(p.TotalSlices))
	return tw.Flush()
}

func sliceFor(s pie.Slices, id pie.CategoryID) float64 {
	switch id {
	case pie.Cash:
		return s.Cash
	case pie.Time:
		return s.Time
	case pie.Revenue:
		return s.Revenue
	case pie.Expenses:
		return s.Expenses
	case pie.ExpenseReceived:
		return s.ExpenseReceived
	case pie.IntellectualProperty:
		return s.IntellectualProperty
	}
	return 0
}

// WriteFounder writes a founder's display metrics followed by the
// per-category multiplier breakdown.
func WriteFounder(w io.Writer, f pie.Founder, c pie.FounderCalculations, categories []pie.Category) error {
	fmt.Fprintf(w, "%s (%s)\n", f.Name, f.ID)
	fmt.Fprintf(w, "  Hours worked:       %s (%s working, %s non-working months)\n",
		FormatNumber(c.HoursWorked, 1), FormatNumber(c.WorkingMonths, 1), FormatNumber(c.NonWorkingMonths, 1))
	fmt.Fprintf(w, "  Hourly rate:        %s market, %s paid, %s gap\n",
		FormatCurrency(c.HourlyMarketRate), FormatCurrency(c.HourlyPaidRate), FormatCurrency(c.HourlyGap))
	fmt.Fprintf(w, "  Salary gap value:   %s\n", FormatCurrency(c.SalaryGapValue))
	fmt.Fprintf(w, "  Total slices:       %s\n\n", FormatSlices(c.Slices.Total))

	tw := newTab(w)
	fmt.Fprintln(tw, "Category\tMultiplier\tEntries\tAmount\tSlices\t")
	for _, cat := range categories {
		bd, ok := c.CategoryBreakdowns[cat.ID]
		if !ok {
			continue
		}
		count := 0
		for _, g := range bd.Entries {
			count += g.EntryCount
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t\n",
			cat.Name, MultiplierLabel(bd, cat), count, FormatCurrency(bd.TotalAmount), FormatSlices(bd.TotalSlices))
		if len(bd.Entries) < 2 || cat.IsPercentageBased {
			continue
		}
		for _, g := range bd.Entries {
			fmt.Fprintf(tw, "  %s\t\t%d %s\t%s\t%s\t\n",
				FormatMultiplier(g.Multiplier), g.EntryCount, EntryNoun(g.EntryCount),
				FormatCurrency(g.TotalAmount), FormatSlices(g.TotalSlices))
		}
	}
	return tw.Flush()
}

// WriteEntries writes the ledger as a table, newest last.
func WriteEntries(w io.Writer, entries []pie.LedgerEntry, founders []pie.Founder, categories []pie.Category) error {
	tw := newTab(w)
	fmt.Fprintln(tw, "ID\tDate\tFounder\tCategory\tAmount\tMultiplier\tDescription\t")
	for _, e := range entries {
		name := e.FounderID
		if f, ok := pie.FindFounder(founders, e.FounderID); ok {
			name = f.Name
		}
		cat, ok := pie.FindCategory(categories, e.CategoryID)
		catName := string(e.CategoryID)
		amount := FormatCurrency(e.Amount)
		if ok {
			catName = cat.Name
			if cat.InputType == pie.InputHours {
				amount = FormatNumber(e.Amount, 1) + " h"
			}
			if cat.IsPercentageBased {
				amount = FormatNumber(e.Amount, 2) + "%"
			}
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			e.ID, e.Date.Format("02 Jan 2006"), name, catName, amount,
			FormatMultiplier(e.CategorySnapshot.Multiplier), e.Description)
	}
	return tw.Flush()
}
