package pie

import (
	"math"
	"sort"
)

const (
	// HoursPerMonth is the number of hours that make a full-time month.
	HoursPerMonth = 160.0
	// TotalPeriodMonths is the evaluation period the working months are clamped to.
	TotalPeriodMonths = 48.0
)

// Params are the engine constants. The zero value means DefaultParams.
type Params struct {
	HoursPerMonth     float64 `json:"hoursPerMonth" yaml:"hours_per_month"`
	TotalPeriodMonths float64 `json:"totalPeriodMonths" yaml:"total_period_months"`
}

// DefaultParams returns the standard engine constants.
func DefaultParams() Params {
	return Params{HoursPerMonth: HoursPerMonth, TotalPeriodMonths: TotalPeriodMonths}
}

func (p Params) normalized() Params {
	d := DefaultParams()
	if p.HoursPerMonth <= 0 {
		p.HoursPerMonth = d.HoursPerMonth
	}
	if p.TotalPeriodMonths <= 0 {
		p.TotalPeriodMonths = d.TotalPeriodMonths
	}
	return p
}

// CategoryBreakdownEntry aggregates the entries of one category that
// were recorded with the same snapshot multiplier.
type CategoryBreakdownEntry struct {
	Multiplier  float64 `json:"multiplier"`
	TotalAmount float64 `json:"totalAmount"`
	TotalSlices float64 `json:"totalSlices"`
	EntryCount  int     `json:"entryCount"`
}

// CategoryBreakdown groups one founder's entries in a category by
// snapshot multiplier, highest multiplier first.
type CategoryBreakdown struct {
	CategoryID        CategoryID               `json:"categoryId"`
	Entries           []CategoryBreakdownEntry `json:"entries"`
	AverageMultiplier float64                  `json:"averageMultiplier"`
	TotalAmount       float64                  `json:"totalAmount"`
	TotalSlices       float64                  `json:"totalSlices"`
}

// Slices is a founder's slice count per category. ExpenseReceived is
// stored as a positive number and subtracted in Total.
type Slices struct {
	Cash                 float64 `json:"cash"`
	Time                 float64 `json:"time"`
	Revenue              float64 `json:"revenue"`
	Expenses             float64 `json:"expenses"`
	ExpenseReceived      float64 `json:"expenseReceived"`
	IntellectualProperty float64 `json:"intellectualProperty"`
	Total                float64 `json:"total"`
}

// FounderCalculations is the engine output for one founder.
type FounderCalculations struct {
	FounderID                 string                           `json:"founderId"`
	HoursWorked               float64                          `json:"hoursWorked"`
	WorkingMonths             float64                          `json:"workingMonths"`
	NonWorkingMonths          float64                          `json:"nonWorkingMonths"`
	HourlyMarketRate          float64                          `json:"hourlyMarketRate"`
	HourlyPaidRate            float64                          `json:"hourlyPaidRate"`
	HourlyGap                 float64                          `json:"hourlyGap"`
	CashInvested              float64                          `json:"cashInvested"`
	SalaryGapValue            float64                          `json:"salaryGapValue"`
	RevenueTotal              float64                          `json:"revenueTotal"`
	ExpensesTotal             float64                          `json:"expensesTotal"`
	ExpenseReceivedTotal      float64                          `json:"expenseReceivedTotal"`
	IntellectualPropertyTotal float64                          `json:"intellectualPropertyTotal"`
	Slices                    Slices                           `json:"slices"`
	CategoryBreakdowns        map[CategoryID]CategoryBreakdown `json:"categoryBreakdowns"`
}

// EntryFunc maps a ledger entry to a number.
type EntryFunc func(LedgerEntry) float64

// RawAmount is the default amount function for Breakdown.
func RawAmount(e LedgerEntry) float64 { return e.Amount }

// Calculator converts ledger entries into slices. It holds no state
// besides its constants and is safe for concurrent use.
type Calculator struct {
	Params Params
}

// NewCalculator returns a Calculator using p, with zero fields replaced by defaults.
func NewCalculator(p Params) Calculator {
	return Calculator{Params: p.normalized()}
}

var defaultCalculator = NewCalculator(DefaultParams())

// CalculateFounderSlices runs the engine with DefaultParams.
func CalculateFounderSlices(founder Founder, entries []LedgerEntry, categories []Category) FounderCalculations {
	return defaultCalculator.FounderSlices(founder, entries, categories)
}

// EntrySlices returns the unsigned number of slices a single entry is
// worth, using only the values frozen in its snapshots. Entries in an
// unknown category are worth nothing.
func (c Calculator) EntrySlices(e LedgerEntry) float64 {
	p := c.Params.normalized()
	m := e.CategorySnapshot.Multiplier

	switch e.CategoryID {
	case Cash, Expenses, ExpenseReceived:
		return e.Amount * m
	case Time:
		return e.FounderSnapshot.HourlyGap(p.HoursPerMonth) * e.Amount * m
	case Revenue:
		return e.Amount * e.CategorySnapshot.Commission() * m
	case IntellectualProperty:
		return e.CategorySnapshot.FrozenSlices()
	}
	return 0
}

// EntryValue is the amount shown next to an entry's slices in a
// breakdown: the salary gap for time, the post-commission amount for
// revenue and the raw amount otherwise.
func (c Calculator) EntryValue(e LedgerEntry) float64 {
	p := c.Params.normalized()

	switch e.CategoryID {
	case Time:
		return e.FounderSnapshot.HourlyGap(p.HoursPerMonth) * e.Amount
	case Revenue:
		return e.Amount * e.CategorySnapshot.Commission()
	}
	return e.Amount
}

type multiplierGroup struct {
	amount float64
	slices float64
	count  int
}

// Breakdown groups the entries in category by the multiplier recorded in
// each entry's snapshot. amount may be nil, meaning RawAmount.
func (c Calculator) Breakdown(entries []LedgerEntry, category CategoryID, slices, amount EntryFunc) CategoryBreakdown {
	if amount == nil {
		amount = RawAmount
	}

	groups := make(map[float64]*multiplierGroup)
	for _, e := range entries {
		if e.CategoryID != category {
			continue
		}
		m := e.CategorySnapshot.Multiplier
		g, ok := groups[m]
		if !ok {
			g = &multiplierGroup{}
			groups[m] = g
		}
		g.amount += amount(e)
		g.slices += slices(e)
		g.count++
	}

	out := CategoryBreakdown{
		CategoryID: category,
		Entries:    make([]CategoryBreakdownEntry, 0, len(groups)),
	}
	for m, g := range groups {
		out.Entries = append(out.Entries, CategoryBreakdownEntry{
			Multiplier:  m,
			TotalAmount: g.amount,
			TotalSlices: g.slices,
			EntryCount:  g.count,
		})
	}
	sort.Slice(out.Entries, func(i, j int) bool {
		return out.Entries[i].Multiplier > out.Entries[j].Multiplier
	})

	for _, be := range out.Entries {
		out.TotalAmount += be.TotalAmount
		out.TotalSlices += be.TotalSlices
	}
	if out.TotalAmount > 0 {
		out.AverageMultiplier = out.TotalSlices / out.TotalAmount
	}
	return out
}

// FounderSlices computes the full calculation set for founder. Entries
// belonging to other founders are ignored. categories is accepted for
// parity with callers that hold the live list; slice arithmetic never
// reads it.
func (c Calculator) FounderSlices(founder Founder, entries []LedgerEntry, categories []Category) FounderCalculations {
	p := c.Params.normalized()
	calc := Calculator{Params: p}
	own := EntriesForFounder(entries, founder.ID)

	out := FounderCalculations{FounderID: founder.ID}

	for _, e := range own {
		s := calc.EntrySlices(e)
		switch e.CategoryID {
		case Cash:
			out.CashInvested += e.Amount
			out.Slices.Cash += s
		case Time:
			out.HoursWorked += e.Amount
			out.Slices.Time += s
		case Revenue:
			out.RevenueTotal += e.Amount
			out.Slices.Revenue += s
		case Expenses:
			out.ExpensesTotal += e.Amount
			out.Slices.Expenses += s
		case ExpenseReceived:
			out.ExpenseReceivedTotal += e.Amount
			out.Slices.ExpenseReceived += s
		case IntellectualProperty:
			out.IntellectualPropertyTotal += e.Amount
			out.Slices.IntellectualProperty += s
		}
	}

	out.Slices.Total = out.Slices.Cash + out.Slices.Time + out.Slices.Revenue + out.Slices.Expenses -
		out.Slices.ExpenseReceived + out.Slices.IntellectualProperty

	out.WorkingMonths = math.Min(out.HoursWorked/p.HoursPerMonth, p.TotalPeriodMonths)
	out.NonWorkingMonths = math.Max(p.TotalPeriodMonths-out.WorkingMonths, 0)

	// Current rates are display-only; time slices above use the snapshots.
	out.HourlyMarketRate = founder.MarketSalary / p.HoursPerMonth
	out.HourlyPaidRate = founder.PaidSalary / p.HoursPerMonth
	out.HourlyGap = out.HourlyMarketRate - out.HourlyPaidRate
	out.SalaryGapValue = out.HourlyGap * out.HoursWorked

	out.CategoryBreakdowns = make(map[CategoryID]CategoryBreakdown, len(AllCategories))
	for _, id := range AllCategories {
		out.CategoryBreakdowns[id] = calc.Breakdown(own, id, calc.EntrySlices, calc.EntryValue)
	}
	return out
}
