package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rustyeddy/sltp/aggregate"
	"github.com/rustyeddy/sltp/challenge"
	"github.com/rustyeddy/sltp/journal"
	"github.com/rustyeddy/sltp/ledger"
	"github.com/rustyeddy/sltp/risk"
	"github.com/rustyeddy/sltp/stats"
	"github.com/shopspring/decimal"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v before sending the status so an unencodable value
// becomes a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		status = http.StatusInternalServerError
		buf.Reset()
		buf.WriteString(`{"error":"response encoding failed"}` + "\n")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// storeError maps a journal failure onto a status code and counts it.
func (s *Server) storeError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
		return
	case errors.Is(err, ledger.ErrInvalidEntry):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, journal.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "journal unavailable")
	}
	s.metrics.StoreErrors.WithLabelValues(op).Inc()
	s.log.Error().Err(err).Str("op", op).Msg("journal failure")
}

func (s *Server) entries(w http.ResponseWriter, r *http.Request) ([]ledger.Entry, bool) {
	entries, err := s.store.ListEntries(r.Context())
	if err != nil {
		s.storeError(w, "list", err)
		return nil, false
	}
	return entries, true
}

func (s *Server) today() time.Time {
	return s.now()
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// listEntries returns the whole journal, or the inclusive from/to window when
// either query parameter is given.
func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" && to == "" {
		entries, ok := s.entries(w, r)
		if ok {
			writeJSON(w, http.StatusOK, entries)
		}
		return
	}

	if from == "" {
		from = "0000-01-01"
	}
	if _, err := ledger.ParseDate(from); err != nil {
		writeError(w, http.StatusBadRequest, "bad date "+strconv.Quote(from))
		return
	}
	// the store's window is half-open
	end := "9999-12-31"
	if to != "" {
		t, err := ledger.ParseDate(to)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad date "+strconv.Quote(to))
			return
		}
		end = ledger.FormatDate(t.AddDate(0, 0, 1))
	}

	entries, err := s.store.ListEntriesBetween(r.Context(), from, end)
	if err != nil {
		s.storeError(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetEntry(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.storeError(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// amount accepts either a JSON number or a string holding an amount
// expression such as "120-4.5".
type amount struct {
	decimal.Decimal
	set bool
}

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	expr := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &expr); err != nil {
			return err
		}
	}
	v, err := ledger.ParseAmount(expr)
	if err != nil {
		return err
	}
	a.Decimal, a.set = v, true
	return nil
}

type entryRequest struct {
	Pair      string           `json:"pair"`
	Direction ledger.Direction `json:"direction"`
	PnL       amount           `json:"pnl"`
	Fee       amount           `json:"fee"`
	Date      string           `json:"date"`
	Notes     string           `json:"notes"`
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func (s *Server) addEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.PnL.set {
		writeError(w, http.StatusBadRequest, "pnl is required")
		return
	}
	if req.Date == "" {
		req.Date = ledger.FormatDate(s.today())
	}
	if req.Pair == ledger.Withdrawal {
		writeError(w, http.StatusBadRequest, "use /api/withdrawals to record a withdrawal")
		return
	}

	e := ledger.Entry{
		Pair:      req.Pair,
		Direction: req.Direction,
		PnL:       req.PnL.Decimal,
		Fee:       req.Fee.Decimal,
		Date:      req.Date,
		Notes:     req.Notes,
	}
	s.add(w, r, e, "trade")
}

type withdrawalRequest struct {
	Amount amount `json:"amount"`
	Date   string `json:"date"`
	Notes  string `json:"notes"`
}

func (s *Server) addWithdrawal(w http.ResponseWriter, r *http.Request) {
	var req withdrawalRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !req.Amount.set || req.Amount.IsZero() {
		writeError(w, http.StatusBadRequest, "amount is required")
		return
	}
	if req.Date == "" {
		req.Date = ledger.FormatDate(s.today())
	}
	s.add(w, r, ledger.NewWithdrawal(req.Amount.Decimal, req.Date, req.Notes), "withdrawal")
}

func (s *Server) add(w http.ResponseWriter, r *http.Request, e ledger.Entry, kind string) {
	saved, err := s.store.AddEntry(r.Context(), e)
	if err != nil {
		s.storeError(w, "add", err)
		return
	}
	s.metrics.EntriesAdded.WithLabelValues(kind).Inc()
	s.log.Info().Str("id", saved.ID).Str("pair", saved.Pair).Str("date", saved.Date).Msg("entry added")
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.DeleteEntry(r.Context(), id); err != nil {
		s.storeError(w, "delete", err)
		return
	}
	s.log.Info().Str("id", id).Msg("entry deleted")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listWithdrawals(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	out := ledger.Withdrawals(entries)
	if out == nil {
		out = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, out)
}

// listDays returns every date with journal activity, oldest first.
func (s *Server) listDays(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	days := aggregate.Days(entries)
	if days == nil {
		days = []string{}
	}
	writeJSON(w, http.StatusOK, days)
}

type dayResponse struct {
	Day      risk.DayResult `json:"day"`
	Decision risk.Decision  `json:"decision"`
	Trades   []ledger.Entry `json:"trades"`
}

func (s *Server) day(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]
	if _, err := ledger.ParseDate(date); err != nil {
		writeError(w, http.StatusBadRequest, "bad date "+strconv.Quote(date))
		return
	}
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}

	res := s.settings.Policy().Day(entries, date)
	trades, _ := ledger.Partition(entries, date)
	if trades == nil {
		trades = []ledger.Entry{}
	}
	writeJSON(w, http.StatusOK, dayResponse{
		Day:      res,
		Decision: risk.Evaluate(res),
		Trades:   trades,
	})
}

func yearMonth(r *http.Request) (int, time.Month, bool) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		return 0, 0, false
	}
	month, err := strconv.Atoi(vars["month"])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, false
	}
	return year, time.Month(month), true
}

func (s *Server) month(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad month")
		return
	}
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Month(entries, year, month))
}

func (s *Server) calendar(w http.ResponseWriter, r *http.Request) {
	year, month, ok := yearMonth(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "bad month")
		return
	}
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, aggregate.Calendar(entries, year, month, s.today()))
}

type statsResponse struct {
	Stats      stats.Report        `json:"stats"`
	Cumulative []stats.EquityPoint `json:"cumulative"`
	Trades     []stats.TradePoint  `json:"trades"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	trades := ledger.ActualTrades(entries)

	resp := statsResponse{
		Stats:      stats.Compute(trades),
		Cumulative: slices.Collect(stats.Cumulative(trades)),
		Trades:     slices.Collect(stats.Trades(trades)),
	}
	if resp.Cumulative == nil {
		resp.Cumulative = []stats.EquityPoint{}
	}
	if resp.Trades == nil {
		resp.Trades = []stats.TradePoint{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// challenge answers with null when no challenge is running.
func (s *Server) challenge(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	balance := ledger.CurrentBalance(s.settings.BeginningBalance, entries)
	writeJSON(w, http.StatusOK, challenge.Compute(s.settings.Challenge, balance, s.today()))
}

type balanceResponse struct {
	Beginning decimal.Decimal `json:"beginning"`
	Current   decimal.Decimal `json:"current"`
	Withdrawn decimal.Decimal `json:"withdrawn"`
	Today     decimal.Decimal `json:"start_of_today"`
}

func (s *Server) balance(w http.ResponseWriter, r *http.Request) {
	entries, ok := s.entries(w, r)
	if !ok {
		return
	}
	begin := s.settings.BeginningBalance
	writeJSON(w, http.StatusOK, balanceResponse{
		Beginning: begin,
		Current:   ledger.CurrentBalance(begin, entries),
		Withdrawn: ledger.TotalWithdrawn(entries),
		Today:     ledger.ReferenceBalance(begin, entries, ledger.FormatDate(s.today())),
	})
}
