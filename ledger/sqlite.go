package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/rustyeddy/slicingpie/pie"
)

// SQLite is a Store backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies Schema.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) SaveFounder(ctx context.Context, f pie.Founder) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO founders (id, name, market_salary, paid_salary)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			market_salary = excluded.market_salary,
			paid_salary = excluded.paid_salary`,
		f.ID, f.Name, f.MarketSalary, f.PaidSalary,
	)
	return err
}

func (s *SQLite) GetFounder(ctx context.Context, id string) (pie.Founder, error) {
	var f pie.Founder
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, market_salary, paid_salary
		FROM founders
		WHERE id = ?`, id).Scan(&f.ID, &f.Name, &f.MarketSalary, &f.PaidSalary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pie.Founder{}, fmt.Errorf("%w: %q", ErrFounderNotFound, id)
		}
		return pie.Founder{}, err
	}
	return f, nil
}

func (s *SQLite) ListFounders(ctx context.Context) ([]pie.Founder, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, market_salary, paid_salary
		FROM founders
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pie.Founder
	for rows.Next() {
		var f pie.Founder
		if err := rows.Scan(&f.ID, &f.Name, &f.MarketSalary, &f.PaidSalary); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) SaveCategory(ctx context.Context, c pie.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories
		(id, name, multiplier, input_type, auto_calculated, commission_percent, percentage_based, admin_only, color, emoji)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			multiplier = excluded.multiplier,
			input_type = excluded.input_type,
			auto_calculated = excluded.auto_calculated,
			commission_percent = excluded.commission_percent,
			percentage_based = excluded.percentage_based,
			admin_only = excluded.admin_only,
			color = excluded.color,
			emoji = excluded.emoji`,
		string(c.ID), c.Name, c.Multiplier, string(c.InputType), c.IsAutoCalculated,
		nullFloat(c.CommissionPercent), c.IsPercentageBased, c.AdminOnly, c.Color, c.Emoji,
	)
	return err
}

func (s *SQLite) ListCategories(ctx context.Context) ([]pie.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, multiplier, input_type, auto_calculated, commission_percent, percentage_based, admin_only, color, emoji
		FROM categories
		ORDER BY rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pie.Category
	for rows.Next() {
		var (
			c          pie.Category
			id, input  string
			commission sql.NullFloat64
		)
		if err := rows.Scan(&id, &c.Name, &c.Multiplier, &input, &c.IsAutoCalculated,
			&commission, &c.IsPercentageBased, &c.AdminOnly, &c.Color, &c.Emoji); err != nil {
			return nil, err
		}
		c.ID = pie.CategoryID(id)
		c.InputType = pie.InputType(input)
		c.CommissionPercent = floatPtr(commission)
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLite) SaveEntry(ctx context.Context, e pie.LedgerEntry) error {
	return insertEntry(ctx, s.db, e)
}

// SaveEntries inserts entries in one transaction.
func (s *SQLite) SaveEntries(ctx context.Context, entries []pie.LedgerEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, e := range entries {
		if err := insertEntry(ctx, tx, e); err != nil {
			return fmt.Errorf("entry %q: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func insertEntry(ctx context.Context, ex execer, e pie.LedgerEntry) error {
	var createdBy sql.NullString
	if e.CreatedBy != nil {
		createdBy = sql.NullString{String: *e.CreatedBy, Valid: true}
	}

	_, err := ex.ExecContext(ctx, `
		INSERT INTO entries
		(id, founder_id, category_id, amount, description, entry_date, created_at, created_by,
		 snap_market_salary, snap_paid_salary, snap_multiplier, snap_commission_percent, snap_calculated_slices)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.FounderID, string(e.CategoryID), e.Amount, e.Description, e.Date, e.CreatedAt, createdBy,
		e.FounderSnapshot.MarketSalary, e.FounderSnapshot.PaidSalary,
		e.CategorySnapshot.Multiplier,
		nullFloat(e.CategorySnapshot.CommissionPercent),
		nullFloat(e.CategorySnapshot.CalculatedSlices),
	)
	return err
}

const entryColumns = `id, founder_id, category_id, amount, description, entry_date, created_at, created_by,
	snap_market_salary, snap_paid_salary, snap_multiplier, snap_commission_percent, snap_calculated_slices`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (pie.LedgerEntry, error) {
	var (
		e          pie.LedgerEntry
		category   string
		createdBy  sql.NullString
		commission sql.NullFloat64
		slices     sql.NullFloat64
	)
	err := row.Scan(
		&e.ID,
		&e.FounderID,
		&category,
		&e.Amount,
		&e.Description,
		&e.Date,
		&e.CreatedAt,
		&createdBy,
		&e.FounderSnapshot.MarketSalary,
		&e.FounderSnapshot.PaidSalary,
		&e.CategorySnapshot.Multiplier,
		&commission,
		&slices,
	)
	if err != nil {
		return pie.LedgerEntry{}, err
	}
	e.CategoryID = pie.CategoryID(category)
	if createdBy.Valid {
		v := createdBy.String
		e.CreatedBy = &v
	}
	e.CategorySnapshot.CommissionPercent = floatPtr(commission)
	e.CategorySnapshot.CalculatedSlices = floatPtr(slices)
	return e, nil
}

func (s *SQLite) GetEntry(ctx context.Context, id string) (pie.LedgerEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pie.LedgerEntry{}, fmt.Errorf("%w: %q", ErrEntryNotFound, id)
		}
		return pie.LedgerEntry{}, err
	}
	return e, nil
}

func (s *SQLite) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", ErrEntryNotFound, id)
	}
	return nil
}

func (s *SQLite) ListEntries(ctx context.Context) ([]pie.LedgerEntry, error) {
	return s.queryEntries(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY rowid ASC`)
}

func (s *SQLite) ListEntriesByFounder(ctx context.Context, founderID string) ([]pie.LedgerEntry, error) {
	return s.queryEntries(ctx, `SELECT `+entryColumns+` FROM entries WHERE founder_id = ? ORDER BY rowid ASC`, founderID)
}

func (s *SQLite) queryEntries(ctx context.Context, query string, args ...any) ([]pie.LedgerEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []pie.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

var _ Store = (*SQLite)(nil)
