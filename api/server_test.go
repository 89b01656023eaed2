package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/slicingpie/ledger"
	"github.com/rustyeddy/slicingpie/pie"
)

func newTestServer(t *testing.T) (*Server, *ledger.Book) {
	t.Helper()

	n := 0
	book, err := ledger.Open(context.Background(), ledger.NewMemory(), pie.DefaultParams(),
		ledger.WithClock(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }),
		ledger.WithIDs(func() string { n++; return fmt.Sprintf("E%d", n) }),
		ledger.WithLogger(zerolog.Nop()),
	)
	require.NoError(t, err)

	_, err = book.SaveFounder(context.Background(), pie.Founder{ID: "asha", Name: "Asha", MarketSalary: 160000, PaidSalary: 80000})
	require.NoError(t, err)
	_, err = book.SaveFounder(context.Background(), pie.Founder{ID: "ravi", Name: "Ravi", MarketSalary: 100000})
	require.NoError(t, err)

	return NewServer(book, DefaultServerConfig(), NewMetrics()), book
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()

	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestHealth(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rr := do(t, s, "GET", "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 2, resp.Founders)
	assert.Equal(t, 0, resp.Entries)
}

func TestAddEntryAndPie(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rr := do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"cash","amount":"1000","date":"2024-02-09"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var e pie.LedgerEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	assert.Equal(t, "E1", e.ID)
	assert.Equal(t, 4.0, e.CategorySnapshot.Multiplier)
	assert.Equal(t, 160000.0, e.FounderSnapshot.MarketSalary)
	assert.True(t, e.Date.Equal(time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)))

	rr = do(t, s, "POST", "/entries", `{"founderId":"ravi","categoryId":"cash","amount":1000}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, s, "GET", "/pie", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var p pie.Pie
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &p))
	assert.InDelta(t, 8000.0, p.TotalSlices, 1e-9)
	require.Len(t, p.Shares, 2)
	assert.InDelta(t, 50.0, p.Shares[0].Percent, 1e-9)

	assert.Equal(t, 2.0, counterValue(t, s.metrics.EntriesAdded.WithLabelValues("cash")))

	rr = do(t, s, "GET", "/metrics", "")
	assert.Contains(t, rr.Body.String(), `slicer_calculation_duration_seconds_count{scope="pie"} 1`)
}

func TestAddEntryRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		status int
		reason string
	}{
		{"zero amount", `{"founderId":"asha","categoryId":"cash","amount":0}`, http.StatusBadRequest, "amount"},
		{"negative amount", `{"founderId":"asha","categoryId":"cash","amount":"-5"}`, http.StatusBadRequest, "amount"},
		{"missing founder", `{"categoryId":"cash","amount":10}`, http.StatusBadRequest, "founder"},
		{"unknown founder", `{"founderId":"zoe","categoryId":"cash","amount":10}`, http.StatusBadRequest, "founder"},
		{"unknown category", `{"founderId":"asha","categoryId":"equity","amount":10}`, http.StatusBadRequest, "category"},
		{"ip percent too high", `{"founderId":"asha","categoryId":"intellectual_property","amount":100}`, http.StatusBadRequest, "percent"},
		{"bad date", `{"founderId":"asha","categoryId":"cash","amount":10,"date":"09/02/2024"}`, http.StatusBadRequest, "date"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, book := newTestServer(t)

			rr := do(t, s, "POST", "/entries", tt.body)
			assert.Equal(t, tt.status, rr.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, "invalid_entry", resp.Code)
			assert.Equal(t, 1.0, counterValue(t, s.metrics.RequestsRejected.WithLabelValues(tt.reason)))

			entries, err := book.Entries(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestAddEntryInvalidJSON(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rr := do(t, s, "POST", "/entries", `{"amount":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_json")
}

func TestIntellectualPropertyEntry(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rr := do(t, s, "POST", "/entries", `{"founderId":"ravi","categoryId":"cash","amount":1000}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"intellectual_property","amount":10}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var e pie.LedgerEntry
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &e))
	require.NotNil(t, e.CategorySnapshot.CalculatedSlices)
	assert.InDelta(t, 400.0, *e.CategorySnapshot.CalculatedSlices, 1e-9)
}

func TestListEntriesHidesAdminCategories(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"cash","amount":1000}`)
	do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"expense_received","amount":100}`)
	do(t, s, "POST", "/entries", `{"founderId":"ravi","categoryId":"time","amount":10}`)

	var entries []pie.LedgerEntry
	rr := do(t, s, "GET", "/entries", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)

	rr = do(t, s, "GET", "/entries?admin=true", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	assert.Len(t, entries, 3)

	rr = do(t, s, "GET", "/entries?founder=ravi", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "ravi", entries[0].FounderID)
}

func TestListCategories(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	var cats []pie.Category
	rr := do(t, s, "GET", "/categories", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cats))
	assert.Len(t, cats, 4)

	rr = do(t, s, "GET", "/categories?admin=1", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cats))
	assert.Len(t, cats, 6)

	rr = do(t, s, "GET", "/categories?admin=1&input=true", "")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cats))
	require.Len(t, cats, 5)
	for _, c := range cats {
		assert.NotEqual(t, pie.IntellectualProperty, c.ID)
	}
}

func TestRemoveEntry(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"cash","amount":1000}`)

	rr := do(t, s, "DELETE", "/entries/E1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, 1.0, counterValue(t, s.metrics.EntriesRemoved))

	rr = do(t, s, "DELETE", "/entries/E1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestFounderCalculations(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"time","amount":160}`)

	rr := do(t, s, "GET", "/founders/asha/calculations", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var c pie.FounderCalculations
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &c))
	// 160h at a 500/h gap with multiplier 2
	assert.InDelta(t, 160000.0, c.Slices.Time, 1e-9)
	assert.InDelta(t, 160.0, c.HoursWorked, 1e-9)
	assert.Contains(t, c.CategoryBreakdowns, pie.Time)

	rr = do(t, s, "GET", "/founders/nobody/calculations", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestNotFoundAndMetrics(t *testing.T) {
	t.Parallel()
	s, _ := newTestServer(t)

	rr := do(t, s, "GET", "/nope", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "endpoint_not_found")

	do(t, s, "POST", "/entries", `{"founderId":"asha","categoryId":"cash","amount":1}`)
	rr = do(t, s, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "slicer_entries_added_total")
}
