// Package httpops serves the operational endpoints next to the bot: health,
// prometheus metrics and a protected trigger for a forced refresh.
package httpops

import (
	"context"
	"crypto/subtle"
	"net/http"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vrml-tools/vrml-bot/internal/app/service"
	"github.com/vrml-tools/vrml-bot/internal/infra/logging"
)

const HeaderSecret = "X-Ops-Secret"

// Implemented by service.RefreshService
type Refresher interface {
	RunCycle(ctx context.Context, force bool) (service.CycleResult, error)
}

// Implemented by storage.PlayerCache
type IndexSize interface {
	Len() int
}

type Server struct {
	secret   string
	refresh  Refresher
	index    IndexSize
	gatherer prometheus.Gatherer
	log      *zap.Logger

	running atomic.Bool
	// done receives after each background refresh
	done chan struct{}
	mux  *chi.Mux
}

// New builds the router. An empty secret disables POST /admin/refresh.
func New(secret string, refresh Refresher, index IndexSize, gatherer prometheus.Gatherer, log *zap.Logger) *Server {
	log = logging.OrNop(log)
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	s := &Server{
		secret:   secret,
		refresh:  refresh,
		index:    index,
		gatherer: gatherer,
		log:      log.Named("httpops"),
		done:     make(chan struct{}, 1),
		mux:      chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Use(middleware.RequestID)
	s.mux.Use(middleware.Recoverer)

	s.mux.Get("/healthz", s.handleHealth)
	s.mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	s.mux.Post("/admin/refresh", s.handleRefresh)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := map[string]any{"status": "ok", "refreshing": s.running.Load()}
	if s.index != nil {
		resp["indexed_accounts"] = s.index.Len()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if s.secret == "" {
		http.NotFound(w, r)
		return
	}
	got := r.Header.Get(HeaderSecret)
	if subtle.ConstantTimeCompare([]byte(got), []byte(s.secret)) != 1 {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if !s.running.CompareAndSwap(false, true) {
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "already_running"})
		return
	}
	s.log.Info("forced refresh requested", zap.String("request_id", middleware.GetReqID(r.Context())))

	go func() {
		defer func() {
			s.running.Store(false)
			select {
			case s.done <- struct{}{}:
			default:
			}
		}()
		res, err := s.refresh.RunCycle(context.Background(), true)
		if err != nil {
			s.log.Error("forced refresh failed", zap.String("cycle_id", res.ID), zap.Error(err))
			return
		}
		s.log.Info("forced refresh done", zap.String("cycle_id", res.ID), zap.Int("indexed", res.Indexed))
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("ops http listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if crerr.Is(err, http.ErrServerClosed) {
			return nil
		}
		return crerr.Wrap(err, "ops http server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
