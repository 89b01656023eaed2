package ledger

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/slicingpie/pie"
)

func TestFormatFounderOrg(t *testing.T) {
	t.Parallel()

	f := pie.Founder{ID: "01HZXABCDEFGH", Name: "Asha"}
	entries := []pie.LedgerEntry{
		sampleEntry("E1", f.ID, pie.Cash),
		sampleEntry("E2", f.ID, pie.Cash),
	}
	entries[1].CategorySnapshot.Multiplier = 4

	c := pie.CalculateFounderSlices(f, entries, pie.DefaultCategories())
	result := FormatFounderOrg(f, c, 62.5)

	assert.Contains(t, result, "** Founder: Asha (01HZXABC)")
	assert.Contains(t, result, ":PROPERTIES:")
	assert.Contains(t, result, ":FOUNDER_ID: 01HZXABCDEFGH")
	assert.Contains(t, result, ":TOTAL_SLICES: 8024.25")
	assert.Contains(t, result, ":SHARE_PERCENT: 62.50")
	assert.Contains(t, result, ":CASH_INVESTED: 2469.00")
	assert.Contains(t, result, ":END:")
	assert.Contains(t, result, "| cash | 4 | 1 | 1234.50 | 4938.00 |")
	assert.Contains(t, result, "| cash | 2.5 | 1 | 1234.50 | 3086.25 |")
	assert.Less(t, strings.Index(result, "| cash | 4 |"), strings.Index(result, "| cash | 2.5 |"))
	assert.NotContains(t, result, "| time |")
}

func TestFormatPieOrg(t *testing.T) {
	t.Parallel()

	founders := []pie.Founder{{ID: "a", Name: "Asha"}, {ID: "b", Name: "Ravi"}}
	p := pie.CalculatePie(founders, []pie.LedgerEntry{sampleEntry("E1", "a", pie.Expenses)}, pie.DefaultCategories())

	result := FormatPieOrg(p)
	assert.True(t, strings.HasPrefix(result, "* Slicing Pie (3086.25 slices)"))
	assert.Contains(t, result, "** Founder: Asha (a)")
	assert.Contains(t, result, "** Founder: Ravi (b)")
	assert.Contains(t, result, ":SHARE_PERCENT: 100.00")
}
