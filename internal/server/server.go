// Package server exposes the HTTP surface of the dealer service.
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"stock_go/internal/domain"
	"stock_go/internal/infra"
	"stock_go/internal/infra/mirror"
	"stock_go/internal/infra/storage"
	"stock_go/internal/infra/webhook"
	"stock_go/internal/ledger"
)

// Server wires the ledger store and the outbound adapters to the routes.
// Journal and Mirror may be nil; the corresponding features degrade.
type Server struct {
	cfg       *infra.Config
	store     *ledger.Store
	journal   *storage.Journal
	mirror    *mirror.Mirror
	forwarder *webhook.Forwarder
	hub       *Hub
	metrics   *infra.Metrics
}

// New creates a Server.
func New(cfg *infra.Config, store *ledger.Store, journal *storage.Journal, m *mirror.Mirror, forwarder *webhook.Forwarder, metrics *infra.Metrics) *Server {
	return &Server{
		cfg:       cfg,
		store:     store,
		journal:   journal,
		mirror:    m,
		forwarder: forwarder,
		hub:       NewHub(metrics),
		metrics:   metrics,
	}
}

// Routes returns the handler for the full HTTP surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /{$}", s.handleDeal)
	mux.HandleFunc("GET /stocks", s.handleStocks)
	mux.HandleFunc("GET /stocks/{name}/chart.png", s.handleChart)
	mux.HandleFunc("POST /report", s.handleReport)
	mux.HandleFunc("GET /trades", s.handleTrades)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.HandleFunc("GET /ws", s.hub.HandleWS)
	return mux
}

// handleDeal authenticates, parses the [action, name, amount] triple and
// applies the trade. Side effects (journal, mirror, live feed) run after
// the mutation is durable and never block the response.
func (s *Server) handleDeal(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRequest()

	if r.Header.Get("x-dealer-key") != s.cfg.Dealer.Key || s.cfg.Dealer.Key == "" {
		writeError(w, http.StatusForbidden, domain.ErrBadKey)
		return
	}

	var body []any
	_ = json.NewDecoder(r.Body).Decode(&body)

	name, ok := elem(body, 1).(string)
	if !ok || name == "" {
		writeError(w, http.StatusBadRequest, domain.ErrMissingName)
		return
	}

	verb, _ := elem(body, 0).(string)
	action, err := domain.ParseAction(verb)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	stock, err := s.store.ApplyTrade(name, action, elem(body, 2))
	if err != nil {
		s.metrics.RecordError()
		slog.Error("Ledger save failed", slog.String("stock", name), slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("Internal error"))
		return
	}

	if action != domain.ActionGet {
		s.metrics.RecordTrade()
		s.appendJournal(stock, action, elem(body, 2))
		s.hub.Broadcast(stock)
	}
	s.mirror.Trigger(r.Context())

	writeJSON(w, http.StatusOK, stock)
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRequest()
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRequest()

	var report domain.Report
	_ = json.NewDecoder(r.Body).Decode(&report)

	if err := s.forwarder.Forward(r.Context(), report); err != nil {
		status := http.StatusInternalServerError
		if domain.IsClientError(err) {
			status = http.StatusBadRequest
		} else {
			s.metrics.RecordError()
			slog.Warn("Report forwarding failed", slog.Any("error", err))
		}
		writeError(w, status, err)
		return
	}

	s.metrics.RecordReport()
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordRequest()

	if s.journal == nil {
		writeError(w, http.StatusServiceUnavailable, errors.New("journal unavailable"))
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := s.journal.Recent(r.URL.Query().Get("stock"), limit)
	if err != nil {
		s.metrics.RecordError()
		slog.Error("Journal query failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, errors.New("Internal error"))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.metrics.Snapshot())
}

func (s *Server) appendJournal(stock domain.Stock, action domain.Action, amount any) {
	if s.journal == nil {
		return
	}
	entry := &storage.TradeEntry{
		Stock:      stock.Name,
		Action:     string(action),
		Amount:     domain.ParseAmount(amount).String(),
		PriceAfter: stock.Price.String(),
		Weekday:    s.store.Today(),
	}
	go func() {
		if err := s.journal.Append(entry); err != nil {
			slog.Warn("Journal append failed", slog.String("stock", entry.Stock), slog.Any("error", err))
		}
	}()
}

func elem(arr []any, i int) any {
	if i >= len(arr) {
		return nil
	}
	return arr[i]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encoding failed", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
