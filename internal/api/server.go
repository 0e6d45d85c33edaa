// Package api serves the journal and its analytics as JSON over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rustyeddy/sltp/config"
	"github.com/rustyeddy/sltp/journal"
)

type Server struct {
	router   *mux.Router
	store    journal.Store
	settings config.Settings
	now      func() time.Time
	log      zerolog.Logger
	metrics  *Metrics
}

type Option func(*Server)

// WithClock replaces time.Now as the source of "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func New(store journal.Store, settings config.Settings, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		store:    store,
		settings: settings,
		now:      time.Now,
		log:      log.With().Str("component", "api").Logger(),
		metrics:  NewMetrics(),
	}
	for _, o := range opts {
		o(s)
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestLoggingMiddleware)
	s.router.Use(s.metrics.instrument)

	s.router.Handle("/metrics", s.metrics.Handler()).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(jsonContentTypeMiddleware)

	api.HandleFunc("/health", s.health).Methods("GET")
	api.HandleFunc("/entries", s.listEntries).Methods("GET")
	api.HandleFunc("/entries", s.addEntry).Methods("POST")
	api.HandleFunc("/entries/{id}", s.getEntry).Methods("GET")
	api.HandleFunc("/entries/{id}", s.deleteEntry).Methods("DELETE")
	api.HandleFunc("/withdrawals", s.listWithdrawals).Methods("GET")
	api.HandleFunc("/withdrawals", s.addWithdrawal).Methods("POST")
	api.HandleFunc("/days", s.listDays).Methods("GET")
	api.HandleFunc("/days/{date:[0-9]{4}-[0-9]{2}-[0-9]{2}}", s.day).Methods("GET")
	api.HandleFunc("/months/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.month).Methods("GET")
	api.HandleFunc("/calendar/{year:[0-9]{4}}/{month:[0-9]{1,2}}", s.calendar).Methods("GET")
	api.HandleFunc("/stats", s.stats).Methods("GET")
	api.HandleFunc("/challenge", s.challenge).Methods("GET")
	api.HandleFunc("/balance", s.balance).Methods("GET")

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "no such endpoint")
	})
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("took", time.Since(start)).
			Msg("request")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
