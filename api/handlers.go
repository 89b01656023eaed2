package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/rustyeddy/slicingpie/ledger"
	"github.com/rustyeddy/slicingpie/pie"
)

var errInvalidDate = errors.New("invalid date")

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	Code      string    `json:"code"`
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status   string `json:"status"`
	Founders int    `json:"founders"`
	Entries  int    `json:"entries"`
}

// EntryRequest is the body of POST /entries. Amount may be sent as a
// JSON number or a decimal string; Date is YYYY-MM-DD or RFC 3339.
type EntryRequest struct {
	FounderID   string         `json:"founderId"`
	CategoryID  pie.CategoryID `json:"categoryId"`
	Amount      json.Number    `json:"amount"`
	Description string         `json:"description"`
	Date        string         `json:"date"`
	CreatedBy   *string        `json:"createdBy,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, status, ErrorResponse{
		Error:     http.StatusText(status),
		Message:   message,
		Code:      code,
		RequestID: requestID(r),
		Timestamp: time.Now().UTC(),
	})
}

// writeFailure maps domain errors onto status codes.
func (s *Server) writeFailure(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ledger.ErrEntryNotFound), errors.Is(err, ledger.ErrFounderNotFound):
		s.writeError(w, r, http.StatusNotFound, "not_found", err.Error())
	case rejectReason(err) != "":
		s.writeError(w, r, http.StatusBadRequest, "invalid_entry", err.Error())
	default:
		s.log.Error().Err(err).Str("request_id", requestID(r)).Str("path", r.URL.Path).Msg("request failed")
		s.writeError(w, r, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, pie.ErrInvalidAmount):
		return "amount"
	case errors.Is(err, pie.ErrInvalidPercent):
		return "percent"
	case errors.Is(err, pie.ErrFounderRequired), errors.Is(err, pie.ErrUnknownFounder):
		return "founder"
	case errors.Is(err, pie.ErrCategoryRequired), errors.Is(err, pie.ErrUnknownCategory):
		return "category"
	case errors.Is(err, pie.ErrAutoCalculated):
		return "auto_calculated"
	case errors.Is(err, errInvalidDate):
		return "date"
	}
	return ""
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

func isAdmin(r *http.Request) bool {
	return queryBool(r, "admin")
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	s.writeError(w, r, http.StatusNotFound, "endpoint_not_found", "The requested endpoint does not exist")
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	founders, err := s.book.Founders(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	entries, err := s.book.Entries(r.Context(), "")
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Founders: len(founders), Entries: len(entries)})
}

func (s *Server) listFounders(w http.ResponseWriter, r *http.Request) {
	founders, err := s.book.Founders(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	if founders == nil {
		founders = []pie.Founder{}
	}
	s.writeJSON(w, http.StatusOK, founders)
}

func (s *Server) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.book.Categories(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	// ?input=true lists only what can be entered by hand
	if queryBool(r, "input") {
		cats = pie.InputCategories(cats)
	}
	s.writeJSON(w, http.StatusOK, pie.VisibleCategories(cats, isAdmin(r)))
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.book.Entries(r.Context(), r.URL.Query().Get("founder"))
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	cats, err := s.book.Categories(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	visible := pie.VisibleEntries(entries, cats, isAdmin(r))
	if visible == nil {
		visible = []pie.LedgerEntry{}
	}
	s.writeJSON(w, http.StatusOK, visible)
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var body EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	req, err := body.toEntryRequest()
	if err != nil {
		s.reject(w, r, err)
		return
	}

	var e pie.LedgerEntry
	if req.CategoryID == pie.IntellectualProperty {
		e, err = s.book.AddIntellectualProperty(r.Context(), req)
	} else {
		e, err = s.book.AddEntry(r.Context(), req)
	}
	if err != nil {
		s.reject(w, r, err)
		return
	}

	s.metrics.EntriesAdded.WithLabelValues(string(e.CategoryID)).Inc()
	s.writeJSON(w, http.StatusCreated, e)
}

func (s *Server) reject(w http.ResponseWriter, r *http.Request, err error) {
	if reason := rejectReason(err); reason != "" {
		s.metrics.RequestsRejected.WithLabelValues(reason).Inc()
	}
	s.writeFailure(w, r, err)
}

func (b EntryRequest) toEntryRequest() (pie.EntryRequest, error) {
	amount, err := pie.ParseAmount(b.Amount.String())
	if err != nil {
		return pie.EntryRequest{}, err
	}
	req := pie.EntryRequest{
		FounderID:   b.FounderID,
		CategoryID:  b.CategoryID,
		Amount:      amount,
		Description: b.Description,
		CreatedBy:   b.CreatedBy,
	}
	if b.Date != "" {
		req.Date, err = parseDate(b.Date)
		if err != nil {
			return pie.EntryRequest{}, err
		}
	}
	return req, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %v", errInvalidDate, s, err)
	}
	return t, nil
}

func (s *Server) removeEntry(w http.ResponseWriter, r *http.Request) {
	if err := s.book.RemoveEntry(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.metrics.EntriesRemoved.Inc()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) founderCalculations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	calc, err := s.book.Calculations(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.metrics.ObserveCalculation("founder", start)
	s.writeJSON(w, http.StatusOK, calc)
}

func (s *Server) getPie(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	p, err := s.book.Pie(r.Context())
	if err != nil {
		s.writeFailure(w, r, err)
		return
	}
	s.metrics.ObserveCalculation("pie", start)
	s.writeJSON(w, http.StatusOK, p)
}
