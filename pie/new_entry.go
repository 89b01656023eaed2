package pie

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a user-supplied amount. Only finite values greater
// than zero are accepted.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidAmount, d.String())
	}
	v := d.InexactFloat64()
	if err := checkAmount(v); err != nil {
		return 0, err
	}
	return v, nil
}

func checkAmount(v float64) error {
	if !finite(v) || v <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Validate checks an entry that arrives already snapshotted, such as a
// row read back from a CSV export. The founder is not resolved here.
func (e LedgerEntry) Validate() error {
	if e.FounderID == "" {
		return ErrFounderRequired
	}
	if !e.CategoryID.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, e.CategoryID)
	}
	if err := checkAmount(e.Amount); err != nil {
		return err
	}

	fs, cs := e.FounderSnapshot, e.CategorySnapshot
	if !finite(fs.MarketSalary) || fs.MarketSalary < 0 || !finite(fs.PaidSalary) || fs.PaidSalary < 0 {
		return fmt.Errorf("%w: salaries must be finite and non-negative", ErrInvalidSnapshot)
	}
	if !finite(cs.Multiplier) || cs.Multiplier <= 0 {
		return fmt.Errorf("%w: multiplier %v", ErrInvalidSnapshot, cs.Multiplier)
	}
	if p := cs.CommissionPercent; p != nil && (!finite(*p) || *p < 0 || *p > 100) {
		return fmt.Errorf("%w: commission %v", ErrInvalidSnapshot, *p)
	}
	if v := cs.CalculatedSlices; v != nil && (!finite(*v) || *v < 0) {
		return fmt.Errorf("%w: calculated slices %v", ErrInvalidSnapshot, *v)
	}
	return nil
}

// EntryRequest is what a user submits to record a contribution.
type EntryRequest struct {
	FounderID   string     `json:"founderId"`
	CategoryID  CategoryID `json:"categoryId"`
	Amount      float64    `json:"amount"`
	Description string     `json:"description"`
	Date        time.Time  `json:"date"`
	CreatedBy   *string    `json:"createdBy,omitempty"`
}

// NewEntry validates req against the live founders and categories and
// builds an entry with their current values frozen into its snapshots.
// On error no entry is produced.
func NewEntry(req EntryRequest, founders []Founder, categories []Category, now time.Time, id string) (LedgerEntry, error) {
	founder, category, err := resolve(req, founders, categories)
	if err != nil {
		return LedgerEntry{}, err
	}
	if category.IsAutoCalculated {
		return LedgerEntry{}, fmt.Errorf("%w: %s", ErrAutoCalculated, category.ID)
	}
	if err := checkAmount(req.Amount); err != nil {
		return LedgerEntry{}, err
	}
	return build(req, founder, category, now, id), nil
}

// NewIntellectualPropertyEntry records an intellectual property grant of
// percent of the current pie. The resulting slices are computed once
// here and frozen in the snapshot; the engine never recomputes them.
func NewIntellectualPropertyEntry(req EntryRequest, founders []Founder, categories []Category, pieTotal float64, now time.Time, id string) (LedgerEntry, error) {
	req.CategoryID = IntellectualProperty
	founder, category, err := resolve(req, founders, categories)
	if err != nil {
		return LedgerEntry{}, err
	}
	slices, err := IntellectualPropertySlices(req.Amount, pieTotal)
	if err != nil {
		return LedgerEntry{}, err
	}
	e := build(req, founder, category, now, id)
	e.CategorySnapshot.CalculatedSlices = &slices
	return e, nil
}

// IntellectualPropertySlices converts a percentage of the pie into slices.
func IntellectualPropertySlices(percent, pieTotal float64) (float64, error) {
	if math.IsNaN(percent) || percent <= 0 || percent >= 100 {
		return 0, ErrInvalidPercent
	}
	if math.IsNaN(pieTotal) || math.IsInf(pieTotal, 0) || pieTotal < 0 {
		return 0, fmt.Errorf("pie total must be a finite, non-negative number")
	}
	return pieTotal * percent / 100, nil
}

func resolve(req EntryRequest, founders []Founder, categories []Category) (Founder, Category, error) {
	if req.FounderID == "" {
		return Founder{}, Category{}, ErrFounderRequired
	}
	if req.CategoryID == "" {
		return Founder{}, Category{}, ErrCategoryRequired
	}
	founder, ok := FindFounder(founders, req.FounderID)
	if !ok {
		return Founder{}, Category{}, fmt.Errorf("%w: %q", ErrUnknownFounder, req.FounderID)
	}
	category, ok := FindCategory(categories, req.CategoryID)
	if !ok {
		return Founder{}, Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, req.CategoryID)
	}
	return founder, category, nil
}

func build(req EntryRequest, founder Founder, category Category, now time.Time, id string) LedgerEntry {
	date := req.Date
	if date.IsZero() {
		date = now
	}
	var createdBy *string
	if req.CreatedBy != nil {
		v := *req.CreatedBy
		createdBy = &v
	}
	return LedgerEntry{
		ID:               id,
		FounderID:        founder.ID,
		CategoryID:       category.ID,
		Amount:           req.Amount,
		Description:      req.Description,
		Date:             date,
		CreatedAt:        now,
		CreatedBy:        createdBy,
		FounderSnapshot:  founder.Snapshot(),
		CategorySnapshot: category.Snapshot(),
	}
}
