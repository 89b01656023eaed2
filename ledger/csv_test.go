package ledger

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/slicingpie/pie"
)

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	e := sampleEntry("E1", "a", pie.Revenue)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []pie.LedgerEntry{e}))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, CSVHeader, rows[0])
	assert.Equal(t, []string{
		"E1", "a", "revenue", "1234.5", "note",
		"2024-01-02T00:00:00Z", "2024-01-03T04:05:06Z", "admin",
		"150000", "25000", "2.5", "15", "",
	}, rows[1])
}

func TestCSVRoundTripKeepsSnapshots(t *testing.T) {
	t.Parallel()

	e1 := sampleEntry("E1", "a", pie.Revenue)
	e2 := sampleEntry("E2", "b", pie.IntellectualProperty)
	e2.CreatedBy = nil
	e2.CategorySnapshot.CommissionPercent = nil
	e2.CategorySnapshot.CalculatedSlices = ptr(321.25)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []pie.LedgerEntry{e1, e2}))

	got, err := ReadCSV(&buf)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assertEntryEqual(t, e1, got[0])
	assertEntryEqual(t, e2, got[1])
}

func TestReadCSVErrors(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("id,founder\n"))
	assert.Error(t, err)

	header := strings.Join(CSVHeader, ",")
	_, err = ReadCSV(strings.NewReader(header + "\nE1,a,bonus,1,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,1,,\n"))
	assert.ErrorIs(t, err, pie.ErrUnknownCategory)

	_, err = ReadCSV(strings.NewReader(header + "\nE1,a,cash,lots,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,1,,\n"))
	assert.ErrorContains(t, err, "line 2: amount")
}

func TestReadCSVRejectsBadNumbers(t *testing.T) {
	t.Parallel()

	header := strings.Join(CSVHeader, ",")
	good := "E1,a,cash,500,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,4,,"

	tests := []struct {
		name string
		row  string
		want error
	}{
		{"nan_amount", "E2,a,cash,NaN,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,4,,", pie.ErrInvalidAmount},
		{"negative_amount", "E2,a,cash,-500,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,4,,", pie.ErrInvalidAmount},
		{"inf_amount", "E2,a,cash,+Inf,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,4,,", pie.ErrInvalidAmount},
		{"nan_multiplier", "E2,a,cash,500,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,NaN,,", pie.ErrInvalidSnapshot},
		{"negative_multiplier", "E2,a,cash,500,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,-4,,", pie.ErrInvalidSnapshot},
		{"negative_salary", "E2,a,cash,500,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,-1,1,4,,", pie.ErrInvalidSnapshot},
		{"nan_frozen_slices", "E2,a,intellectual_property,5,x,2024-01-02T00:00:00Z,2024-01-02T00:00:00Z,,1,1,1,,NaN", pie.ErrInvalidSnapshot},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ReadCSV(strings.NewReader(header + "\n" + good + "\n" + tt.row + "\n"))
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorContains(t, err, "line 3")
			assert.Nil(t, got)
		})
	}
}

func TestReadCSVBlankCreatedAt(t *testing.T) {
	t.Parallel()

	header := strings.Join(CSVHeader, ",")
	got, err := ReadCSV(strings.NewReader(header + "\nE1,a,cash,500,x,2024-01-02T00:00:00Z,,,1,1,4,,\n"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].CreatedAt.IsZero())
}
