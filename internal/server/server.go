// Package server exposes a schema registry over HTTP.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reoring/shapeval"
	"github.com/reoring/shapeval/internal/logging"
	"github.com/reoring/shapeval/middleware"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Logger *slog.Logger
	// Validation is passed to middleware.Validate. Its OnResult hook is
	// chained after the server's own bookkeeping.
	Validation middleware.Options
}

type Server struct {
	reg     *Registry
	log     *slog.Logger
	opt     middleware.Options
	promReg *prometheus.Registry
	metrics *metrics
}

func New(reg *Registry, opts ...Options) *Server {
	var opt Options
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if opt.Logger == nil {
		opt.Logger = logging.NewNop()
	}
	promReg := prometheus.NewRegistry()
	return &Server{
		reg:     reg,
		log:     opt.Logger,
		opt:     opt.Validation,
		promReg: promReg,
		metrics: newMetrics(promReg),
	}
}

// Handler returns the HTTP routes:
//
//	GET  /healthz
//	GET  /schemas
//	GET  /schemas/{name}
//	POST /schemas/{name}/validate
//	GET  /metrics
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	r.Get("/schemas", s.listSchemas)
	r.Get("/schemas/{name}", s.getSchema)
	r.Post("/schemas/{name}/validate", s.validate)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.promReg, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe serves Handler on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr, "schemas", s.reg.Names())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			s.log.Error("graceful shutdown failed", "error", err)
			return srv.Close()
		}
		return nil
	}
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) listSchemas(w http.ResponseWriter, _ *http.Request) {
	middleware.WriteJSON(w, http.StatusOK, map[string]any{"schemas": s.reg.Names()})
}

func (s *Server) getSchema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	schema, ok := s.reg.Get(name)
	if !ok {
		notFound(w, name)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, shapeval.ToJSONSchema(schema))
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	schema, ok := s.reg.Get(name)
	if !ok {
		notFound(w, name)
		return
	}

	start := time.Now()
	opt := s.opt
	hook := opt.OnResult
	opt.OnResult = func(r *http.Request, err error) {
		s.record(r, name, start, err)
		if hook != nil {
			hook(r, err)
		}
	}
	accept := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]any{"valid": true})
	})
	middleware.Validate(schema, opt)(accept).ServeHTTP(w, r)
}

func (s *Server) record(r *http.Request, name string, start time.Time, err error) {
	result := resultValid
	if err != nil {
		result = resultMalformed
		if _, ok := shapeval.AsValidationError(err); ok {
			result = resultInvalid
		}
	}
	s.metrics.validations.WithLabelValues(name, result).Inc()
	s.metrics.duration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	s.log.Debug("validated",
		"schema", name,
		"result", result,
		"request_id", chimw.GetReqID(r.Context()),
		"error", err,
	)
}

func notFound(w http.ResponseWriter, name string) {
	middleware.WriteJSON(w, http.StatusNotFound, map[string]any{
		"error": map[string]any{"code": "not_found", "message": "unknown schema " + name},
	})
}
