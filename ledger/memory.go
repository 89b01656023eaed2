package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/rustyeddy/slicingpie/pie"
)

// Memory is an in-process Store. Reads return copies so callers cannot
// mutate stored records.
type Memory struct {
	mu         sync.RWMutex
	founders   []pie.Founder
	categories []pie.Category
	entries    []pie.LedgerEntry
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) SaveFounder(_ context.Context, f pie.Founder) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.founders {
		if m.founders[i].ID == f.ID {
			m.founders[i] = f
			return nil
		}
	}
	m.founders = append(m.founders, f)
	return nil
}

func (m *Memory) GetFounder(_ context.Context, id string) (pie.Founder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := pie.FindFounder(m.founders, id)
	if !ok {
		return pie.Founder{}, fmt.Errorf("%w: %q", ErrFounderNotFound, id)
	}
	return f, nil
}

func (m *Memory) ListFounders(_ context.Context) ([]pie.Founder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]pie.Founder(nil), m.founders...), nil
}

func (m *Memory) SaveCategory(_ context.Context, c pie.Category) error {
	c = copyCategory(c)

	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.categories {
		if m.categories[i].ID == c.ID {
			m.categories[i] = c
			return nil
		}
	}
	m.categories = append(m.categories, c)
	return nil
}

func (m *Memory) ListCategories(_ context.Context) ([]pie.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pie.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, copyCategory(c))
	}
	return out, nil
}

func (m *Memory) SaveEntry(_ context.Context, e pie.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.entries {
		if existing.ID == e.ID {
			return fmt.Errorf("entry %q already exists", e.ID)
		}
	}
	m.entries = append(m.entries, copyEntry(e))
	return nil
}

func (m *Memory) SaveEntries(_ context.Context, entries []pie.LedgerEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]bool, len(m.entries)+len(entries))
	for _, e := range m.entries {
		seen[e.ID] = true
	}
	for _, e := range entries {
		if seen[e.ID] {
			return fmt.Errorf("entry %q already exists", e.ID)
		}
		seen[e.ID] = true
	}
	for _, e := range entries {
		m.entries = append(m.entries, copyEntry(e))
	}
	return nil
}

func (m *Memory) GetEntry(_ context.Context, id string) (pie.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.ID == id {
			return copyEntry(e), nil
		}
	}
	return pie.LedgerEntry{}, fmt.Errorf("%w: %q", ErrEntryNotFound, id)
}

func (m *Memory) DeleteEntry(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrEntryNotFound, id)
}

func (m *Memory) ListEntries(_ context.Context) ([]pie.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]pie.LedgerEntry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, copyEntry(e))
	}
	return out, nil
}

func (m *Memory) ListEntriesByFounder(_ context.Context, founderID string) ([]pie.LedgerEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []pie.LedgerEntry
	for _, e := range m.entries {
		if e.FounderID == founderID {
			out = append(out, copyEntry(e))
		}
	}
	return out, nil
}

func (m *Memory) Close() error { return nil }

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func copyCategory(c pie.Category) pie.Category {
	c.CommissionPercent = copyFloat(c.CommissionPercent)
	return c
}

func copyEntry(e pie.LedgerEntry) pie.LedgerEntry {
	if e.CreatedBy != nil {
		v := *e.CreatedBy
		e.CreatedBy = &v
	}
	e.CategorySnapshot.CommissionPercent = copyFloat(e.CategorySnapshot.CommissionPercent)
	e.CategorySnapshot.CalculatedSlices = copyFloat(e.CategorySnapshot.CalculatedSlices)
	return e
}

var _ Store = (*Memory)(nil)
