// Package server exposes the crawler over HTTP
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"divcalendar/dividend"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapio"
)

// MonthCrawler returns the normalized records of one calendar month
type MonthCrawler interface {
	CrawlMonth(ctx context.Context, year int, month time.Month) ([]dividend.Record, error)
}

// Server serves calendar months. Crawls share one browser tab and are
// run one at a time.
type Server struct {
	crawler MonthCrawler
	log     *zap.Logger
	mu      sync.Mutex
}

// RecordResponse is a record plus its parsed amount
type RecordResponse struct {
	dividend.Record
	AmountValue *float64 `json:"amountValue,omitempty"`
	Currency    string   `json:"currency,omitempty"`
}

// CalendarResponse is the body of GET /calendar/{year}/{month}
type CalendarResponse struct {
	Period  string           `json:"period"`
	Records []RecordResponse `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a server
func New(crawler MonthCrawler, log *zap.Logger) *Server {
	return &Server{
		crawler: crawler,
		log:     log,
	}
}

// Handler returns the routed handler wrapped with access logging and
// panic recovery
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/calendar/{year}/{month}", s.CalendarHandler).Methods("GET")
	router.HandleFunc("/healthz", HealthHandler).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	access := &zapio.Writer{Log: s.log.Named("access"), Level: zap.InfoLevel}
	return handlers.RecoveryHandler(
		handlers.RecoveryLogger(zap.NewStdLog(s.log)),
	)(handlers.CombinedLoggingHandler(access, router))
}

// ListenAndServe serves on addr until ctx is done
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server is running", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// HealthHandler reports liveness
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// CalendarHandler crawls one month. The month may be a number or an
// English month name.
func (s *Server) CalendarHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	year, err := strconv.Atoi(vars["year"])
	if err != nil || year < 1 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid year"})
		return
	}
	month, ok := dividend.ParseMonth(vars["month"])
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid month"})
		return
	}

	s.mu.Lock()
	records, err := s.crawler.CrawlMonth(r.Context(), year, month)
	s.mu.Unlock()
	if err != nil {
		s.log.Warn("crawl failed", zap.Int("year", year), zap.String("month", month.String()), zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "crawl failed"})
		return
	}

	resp := CalendarResponse{
		Period:  month.String(),
		Records: make([]RecordResponse, 0, len(records)),
	}
	for _, rec := range records {
		item := RecordResponse{Record: rec}
		if amount, ok := dividend.ParseAmount(rec.Amount); ok {
			v := amount.Value.InexactFloat64()
			item.AmountValue = &v
			item.Currency = amount.Currency
		}
		resp.Records = append(resp.Records, item)
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
