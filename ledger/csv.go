package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rustyeddy/slicingpie/pie"
)

// CSVHeader is the column layout of a ledger export.
var CSVHeader = []string{
	"id", "founder_id", "category_id", "amount", "description", "date", "created_at", "created_by",
	"market_salary", "paid_salary", "multiplier", "commission_percent", "calculated_slices",
}

// WriteCSV writes entries, snapshots included, to w.
func WriteCSV(w io.Writer, entries []pie.LedgerEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		createdBy := ""
		if e.CreatedBy != nil {
			createdBy = *e.CreatedBy
		}
		if err := cw.Write([]string{
			e.ID,
			e.FounderID,
			string(e.CategoryID),
			f(e.Amount),
			e.Description,
			e.Date.Format(time.RFC3339),
			e.CreatedAt.Format(time.RFC3339),
			createdBy,
			f(e.FounderSnapshot.MarketSalary),
			f(e.FounderSnapshot.PaidSalary),
			f(e.CategorySnapshot.Multiplier),
			optional(e.CategorySnapshot.CommissionPercent),
			optional(e.CategorySnapshot.CalculatedSlices),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a ledger export written by WriteCSV.
func ReadCSV(r io.Reader) ([]pie.LedgerEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVHeader)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, col := range CSVHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected column %d: got %q want %q", i+1, header[i], col)
		}
	}

	var out []pie.LedgerEntry
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		e, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func parseRecord(rec []string) (pie.LedgerEntry, error) {
	e := pie.LedgerEntry{
		ID:          rec[0],
		FounderID:   rec[1],
		CategoryID:  pie.CategoryID(rec[2]),
		Description: rec[4],
	}
	var err error
	if e.Amount, err = strconv.ParseFloat(rec[3], 64); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("amount: %w", err)
	}
	if e.Date, err = time.Parse(time.RFC3339, rec[5]); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("date: %w", err)
	}
	// A blank created_at is filled in on import.
	if rec[6] != "" {
		if e.CreatedAt, err = time.Parse(time.RFC3339, rec[6]); err != nil {
			return pie.LedgerEntry{}, fmt.Errorf("created_at: %w", err)
		}
	}
	if rec[7] != "" {
		v := rec[7]
		e.CreatedBy = &v
	}
	if e.FounderSnapshot.MarketSalary, err = strconv.ParseFloat(rec[8], 64); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("market_salary: %w", err)
	}
	if e.FounderSnapshot.PaidSalary, err = strconv.ParseFloat(rec[9], 64); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("paid_salary: %w", err)
	}
	if e.CategorySnapshot.Multiplier, err = strconv.ParseFloat(rec[10], 64); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("multiplier: %w", err)
	}
	if e.CategorySnapshot.CommissionPercent, err = parseOptional(rec[11]); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("commission_percent: %w", err)
	}
	if e.CategorySnapshot.CalculatedSlices, err = parseOptional(rec[12]); err != nil {
		return pie.LedgerEntry{}, fmt.Errorf("calculated_slices: %w", err)
	}
	if err := e.Validate(); err != nil {
		return pie.LedgerEntry{}, err
	}
	return e, nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}

func optional(v *float64) string {
	if v == nil {
		return ""
	}
	return f(*v)
}

func parseOptional(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
