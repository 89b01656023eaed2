package pie

import "time"

// Founder is the live configuration for a founder. Salaries are monthly.
type Founder struct {
	ID           string  `json:"id" yaml:"id"`
	Name         string  `json:"name" yaml:"name"`
	MarketSalary float64 `json:"marketSalary" yaml:"market_salary"`
	PaidSalary   float64 `json:"paidSalary" yaml:"paid_salary"`
}

// Snapshot captures the founder's salaries as they are right now.
func (f Founder) Snapshot() FounderSnapshot {
	return FounderSnapshot{MarketSalary: f.MarketSalary, PaidSalary: f.PaidSalary}
}

// FindFounder returns the founder with the given id.
func FindFounder(founders []Founder, id string) (Founder, bool) {
	for _, f := range founders {
		if f.ID == id {
			return f, true
		}
	}
	return Founder{}, false
}

// FounderSnapshot is the founder's compensation at entry creation.
type FounderSnapshot struct {
	MarketSalary float64 `json:"marketSalary"`
	PaidSalary   float64 `json:"paidSalary"`
}

// HourlyGap is the foregone hourly income recorded in the snapshot.
func (s FounderSnapshot) HourlyGap(hoursPerMonth float64) float64 {
	return (s.MarketSalary - s.PaidSalary) / hoursPerMonth
}

// CategorySnapshot is the category configuration at entry creation.
// CommissionPercent and CalculatedSlices are optional; read them
// through Commission and FrozenSlices so defaults stay in one place.
type CategorySnapshot struct {
	Multiplier        float64  `json:"multiplier"`
	CommissionPercent *float64 `json:"commissionPercent,omitempty"`
	CalculatedSlices  *float64 `json:"calculatedSlices,omitempty"`
}

// Commission returns the commission as a fraction, defaulting to 10%.
func (s CategorySnapshot) Commission() float64 {
	if s.CommissionPercent == nil {
		return DefaultCommissionPercent / 100
	}
	return *s.CommissionPercent / 100
}

// FrozenSlices returns the precomputed slices of an intellectual
// property entry, or 0 when none were recorded.
func (s CategorySnapshot) FrozenSlices() float64 {
	if s.CalculatedSlices == nil {
		return 0
	}
	return *s.CalculatedSlices
}

// Snapshot captures the category's multiplier and commission as they are right now.
func (c Category) Snapshot() CategorySnapshot {
	snap := CategorySnapshot{Multiplier: c.Multiplier}
	if c.CommissionPercent != nil {
		v := *c.CommissionPercent
		snap.CommissionPercent = &v
	}
	return snap
}

// LedgerEntry is a single, immutable contribution record.
type LedgerEntry struct {
	ID          string     `json:"id"`
	FounderID   string     `json:"founderId"`
	CategoryID  CategoryID `json:"categoryId"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	CreatedAt   time.Time  `json:"createdAt"`
	CreatedBy   *string    `json:"createdBy"`

	FounderSnapshot  FounderSnapshot  `json:"founderSnapshot"`
	CategorySnapshot CategorySnapshot `json:"categorySnapshot"`
}

// EntriesForFounder returns the entries owned by founderID, preserving order.
func EntriesForFounder(entries []LedgerEntry, founderID string) []LedgerEntry {
	var out []LedgerEntry
	for _, e := range entries {
		if e.FounderID == founderID {
			out = append(out, e)
		}
	}
	return out
}

// VisibleEntries drops entries in admin-only categories unless isAdmin is set.
func VisibleEntries(entries []LedgerEntry, categories []Category, isAdmin bool) []LedgerEntry {
	if isAdmin {
		return append([]LedgerEntry(nil), entries...)
	}
	hidden := make(map[CategoryID]bool)
	for _, c := range categories {
		if c.AdminOnly {
			hidden[c.ID] = true
		}
	}
	out := make([]LedgerEntry, 0, len(entries))
	for _, e := range entries {
		if !hidden[e.CategoryID] {
			out = append(out, e)
		}
	}
	return out
}
