package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rustyeddy/slicingpie/pie"
	"github.com/rustyeddy/slicingpie/pkg/id"
)

// Book is the entry point for recording contributions. It owns the
// write path so every new entry is validated and snapshotted against
// the live founder and category configuration, and it reruns the
// engine over the stored ledger on every read.
type Book struct {
	store Store
	calc  pie.Calculator
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
	seed  []pie.Category

	// serializes writes so intellectual property grants see a stable pie total
	mu sync.Mutex
}

// Option configures a Book.
type Option func(*Book)

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithIDs overrides the entry id generator.
func WithIDs(newID func() string) Option {
	return func(b *Book) { b.newID = newID }
}

// WithLogger sets the logger used for ledger events.
func WithLogger(l zerolog.Logger) Option {
	return func(b *Book) { b.log = l }
}

// WithCategories sets the categories written to an empty store in
// place of the defaults.
func WithCategories(cats []pie.Category) Option {
	return func(b *Book) { b.seed = cats }
}

// Open returns a Book over store. When the store holds no categories
// the seed set (the defaults unless WithCategories was given) is
// written first.
func Open(ctx context.Context, store Store, params pie.Params, opts ...Option) (*Book, error) {
	b := &Book{
		store: store,
		calc:  pie.NewCalculator(params),
		now:   time.Now,
		newID: id.New,
		log:   log.Logger,
		seed:  pie.DefaultCategories(),
	}
	for _, opt := range opts {
		opt(b)
	}

	cats, err := store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(cats) == 0 {
		for _, c := range b.seed {
			if err := store.SaveCategory(ctx, c); err != nil {
				return nil, fmt.Errorf("seed category %s: %w", c.ID, err)
			}
		}
		b.log.Debug().Int("count", len(b.seed)).Msg("seeded categories")
	}
	return b, nil
}

// Params returns the engine constants in use.
func (b *Book) Params() pie.Params { return b.calc.Params }

// Store returns the underlying store.
func (b *Book) Store() Store { return b.store }

func (b *Book) Founders(ctx context.Context) ([]pie.Founder, error) {
	return b.store.ListFounders(ctx)
}

func (b *Book) Categories(ctx context.Context) ([]pie.Category, error) {
	return b.store.ListCategories(ctx)
}

// Entries lists the ledger, optionally limited to one founder.
func (b *Book) Entries(ctx context.Context, founderID string) ([]pie.LedgerEntry, error) {
	if founderID == "" {
		return b.store.ListEntries(ctx)
	}
	return b.store.ListEntriesByFounder(ctx, founderID)
}

// SaveFounder adds a founder or replaces their name and current
// salaries. Existing entries keep the salaries they were created with.
func (b *Book) SaveFounder(ctx context.Context, f pie.Founder) (pie.Founder, error) {
	if f.Name == "" {
		return pie.Founder{}, errors.New("founder name is required")
	}
	if err := checkSalary(f.MarketSalary, f.PaidSalary); err != nil {
		return pie.Founder{}, err
	}
	if f.ID == "" {
		f.ID = b.newID()
	}
	if err := b.store.SaveFounder(ctx, f); err != nil {
		return pie.Founder{}, fmt.Errorf("save founder: %w", err)
	}
	b.log.Info().Str("founder", f.ID).Str("name", f.Name).Msg("founder saved")
	return f, nil
}

// EnsureFounder saves f unless a founder with its id already exists.
// It reports whether f was written.
func (b *Book) EnsureFounder(ctx context.Context, f pie.Founder) (bool, error) {
	_, err := b.store.GetFounder(ctx, f.ID)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, ErrFounderNotFound):
		return false, err
	}
	if _, err := b.SaveFounder(ctx, f); err != nil {
		return false, err
	}
	return true, nil
}

// SetFounderSalary changes a founder's current monthly salaries.
func (b *Book) SetFounderSalary(ctx context.Context, founderID string, market, paid float64) error {
	if err := checkSalary(market, paid); err != nil {
		return err
	}
	f, err := b.store.GetFounder(ctx, founderID)
	if err != nil {
		return err
	}
	f.MarketSalary = market
	f.PaidSalary = paid
	if err := b.store.SaveFounder(ctx, f); err != nil {
		return fmt.Errorf("save founder: %w", err)
	}
	b.log.Info().Str("founder", founderID).Float64("market_salary", market).Float64("paid_salary", paid).Msg("salary updated")
	return nil
}

func checkSalary(market, paid float64) error {
	for _, v := range []float64{market, paid} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return errors.New("salaries must be finite and non-negative")
		}
	}
	return nil
}

// SetCategoryMultiplier changes the live multiplier of a category.
// Only entries created afterwards pick up the new value.
func (b *Book) SetCategoryMultiplier(ctx context.Context, categoryID pie.CategoryID, multiplier float64) error {
	if math.IsNaN(multiplier) || math.IsInf(multiplier, 0) || multiplier <= 0 {
		return errors.New("multiplier must be a finite number greater than zero")
	}
	c, err := b.category(ctx, categoryID)
	if err != nil {
		return err
	}
	c.Multiplier = multiplier
	if err := b.store.SaveCategory(ctx, c); err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	b.log.Info().Str("category", string(categoryID)).Float64("multiplier", multiplier).Msg("multiplier updated")
	return nil
}

// SetCategoryCommission changes the live commission percent of a category.
func (b *Book) SetCategoryCommission(ctx context.Context, categoryID pie.CategoryID, percent float64) error {
	if math.IsNaN(percent) || percent < 0 || percent > 100 {
		return errors.New("commission must be between 0 and 100")
	}
	c, err := b.category(ctx, categoryID)
	if err != nil {
		return err
	}
	c.CommissionPercent = &percent
	return b.store.SaveCategory(ctx, c)
}

func (b *Book) category(ctx context.Context, categoryID pie.CategoryID) (pie.Category, error) {
	cats, err := b.store.ListCategories(ctx)
	if err != nil {
		return pie.Category{}, err
	}
	c, ok := pie.FindCategory(cats, categoryID)
	if !ok {
		return pie.Category{}, fmt.Errorf("%w: %q", pie.ErrUnknownCategory, categoryID)
	}
	return c, nil
}

// AddEntry validates req, snapshots the live configuration and appends
// the entry. Nothing is written when validation fails.
func (b *Book) AddEntry(ctx context.Context, req pie.EntryRequest) (pie.LedgerEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	founders, cats, err := b.config(ctx)
	if err != nil {
		return pie.LedgerEntry{}, err
	}

	e, err := pie.NewEntry(req, founders, cats, b.now(), b.newID())
	if err != nil {
		b.log.Warn().Err(err).Str("founder", req.FounderID).Str("category", string(req.CategoryID)).Msg("entry rejected")
		return pie.LedgerEntry{}, err
	}
	return e, b.save(ctx, e)
}

// AddIntellectualProperty grants req.Amount percent of the current pie
// to a founder. The slice value is fixed at this moment.
func (b *Book) AddIntellectualProperty(ctx context.Context, req pie.EntryRequest) (pie.LedgerEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	founders, cats, err := b.config(ctx)
	if err != nil {
		return pie.LedgerEntry{}, err
	}
	entries, err := b.store.ListEntries(ctx)
	if err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("list entries: %w", err)
	}
	total := b.calc.Pie(founders, entries, cats).TotalSlices

	e, err := pie.NewIntellectualPropertyEntry(req, founders, cats, total, b.now(), b.newID())
	if err != nil {
		b.log.Warn().Err(err).Str("founder", req.FounderID).Msg("intellectual property entry rejected")
		return pie.LedgerEntry{}, err
	}
	return e, b.save(ctx, e)
}

func (b *Book) save(ctx context.Context, e pie.LedgerEntry) error {
	if err := b.store.SaveEntry(ctx, e); err != nil {
		return fmt.Errorf("save entry: %w", err)
	}
	b.log.Info().
		Str("entry", e.ID).
		Str("founder", e.FounderID).
		Str("category", string(e.CategoryID)).
		Float64("amount", e.Amount).
		Float64("slices", b.calc.EntrySlices(e)).
		Msg("entry added")
	return nil
}

// RemoveEntry deletes an entry from the ledger.
func (b *Book) RemoveEntry(ctx context.Context, entryID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.store.DeleteEntry(ctx, entryID); err != nil {
		return err
	}
	b.log.Info().Str("entry", entryID).Msg("entry removed")
	return nil
}

// ImportEntries appends already-snapshotted entries, such as those read
// back from a CSV export. Snapshots are stored as given. The whole batch
// is checked before anything is written, and a failure stores nothing.
//
// Entries without an id get a new one. A zero CreatedAt is taken from
// the entry's ULID when it has one, otherwise from the clock.
func (b *Book) ImportEntries(ctx context.Context, entries []pie.LedgerEntry) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	founders, err := b.store.ListFounders(ctx)
	if err != nil {
		return 0, fmt.Errorf("list founders: %w", err)
	}

	batch := make([]pie.LedgerEntry, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		if err := e.Validate(); err != nil {
			return 0, fmt.Errorf("import entry %d: %w", i+1, err)
		}
		if _, ok := pie.FindFounder(founders, e.FounderID); !ok {
			return 0, fmt.Errorf("import entry %d: %w: %q", i+1, pie.ErrUnknownFounder, e.FounderID)
		}
		if e.ID == "" {
			e.ID = b.newID()
		}
		if seen[e.ID] {
			return 0, fmt.Errorf("import entry %d: duplicate id %q", i+1, e.ID)
		}
		seen[e.ID] = true
		if _, err := b.store.GetEntry(ctx, e.ID); err == nil {
			return 0, fmt.Errorf("import entry %d: entry %q already exists", i+1, e.ID)
		} else if !errors.Is(err, ErrEntryNotFound) {
			return 0, err
		}
		if e.CreatedAt.IsZero() {
			if t, err := id.Time(e.ID); err == nil {
				e.CreatedAt = t.UTC()
			} else {
				e.CreatedAt = b.now()
			}
		}
		batch[i] = e
	}

	if err := b.store.SaveEntries(ctx, batch); err != nil {
		return 0, fmt.Errorf("import: %w", err)
	}
	b.log.Info().Int("count", len(batch)).Msg("entries imported")
	return len(batch), nil
}

// Calculations runs the engine for one founder.
func (b *Book) Calculations(ctx context.Context, founderID string) (pie.FounderCalculations, error) {
	f, err := b.store.GetFounder(ctx, founderID)
	if err != nil {
		return pie.FounderCalculations{}, err
	}
	entries, err := b.store.ListEntriesByFounder(ctx, founderID)
	if err != nil {
		return pie.FounderCalculations{}, fmt.Errorf("list entries: %w", err)
	}
	cats, err := b.store.ListCategories(ctx)
	if err != nil {
		return pie.FounderCalculations{}, fmt.Errorf("list categories: %w", err)
	}
	return b.calc.FounderSlices(f, entries, cats), nil
}

// Pie runs the engine for every founder.
func (b *Book) Pie(ctx context.Context) (pie.Pie, error) {
	founders, cats, err := b.config(ctx)
	if err != nil {
		return pie.Pie{}, err
	}
	entries, err := b.store.ListEntries(ctx)
	if err != nil {
		return pie.Pie{}, fmt.Errorf("list entries: %w", err)
	}
	return b.calc.Pie(founders, entries, cats), nil
}

func (b *Book) config(ctx context.Context) ([]pie.Founder, []pie.Category, error) {
	founders, err := b.store.ListFounders(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list founders: %w", err)
	}
	cats, err := b.store.ListCategories(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("list categories: %w", err)
	}
	return founders, cats, nil
}

// Close closes the underlying store.
func (b *Book) Close() error {
	return b.store.Close()
}
