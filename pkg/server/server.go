// Package server is the HTTP intake for magnet orders.
//
// The order form posts the customer's details and finished crops here as
// multipart/form-data. The server can render a preview sheet, submit a
// whole order (render, upload, notify), and serve stored sheets back to
// the print shop.
//
// # Routes
//
//	GET  /healthz           liveness and version
//	GET  /v1/geometry       page and grid constants
//	POST /v1/sheets         render and return a PNG
//	POST /v1/orders         validate, render, deliver and notify
//	GET  /v1/files/{name}   download a stored file
//
// # Form fields
//
// orderNumber, customerName, phone and totalMagnets carry the order. Each
// photo is a repeated "photo" field, either a file part or a data: URL
// value, paired by position with a repeated "quantity" field.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/magnetsheet/pkg/buildinfo"
	"github.com/matzehuels/magnetsheet/pkg/pipeline"
)

// DefaultMaxPhotoBytes limits a single uploaded crop.
const DefaultMaxPhotoBytes int64 = 64 << 20

// Config configures a Server.
type Config struct {
	// Runner renders and submits orders. Its Store also serves /v1/files.
	Runner *pipeline.Runner

	// Logger receives request logs. Defaults to discarding.
	Logger *log.Logger

	// MaxPhotoBytes limits each photo. Defaults to DefaultMaxPhotoBytes.
	MaxPhotoBytes int64

	// Attach mails files instead of uploading them.
	Attach bool

	// CutList adds the .xlsx placement report to submitted orders.
	CutList bool
}

// Server handles intake requests.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxPhoto int64
	attach   bool
	cutList  bool
	router   chi.Router
}

// New returns a server for cfg.
func New(cfg Config) *Server {
	s := &Server{
		runner:   cfg.Runner,
		logger:   cfg.Logger,
		maxPhoto: cfg.MaxPhotoBytes,
		attach:   cfg.Attach,
		cutList:  cfg.CutList,
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxPhoto <= 0 {
		s.maxPhoto = DefaultMaxPhotoBytes
	}
	if s.runner == nil {
		s.runner = pipeline.NewRunner(nil, nil, s.logger)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/geometry", s.handleGeometry)
		r.Post("/sheets", s.handleSheet)
		r.Post("/orders", s.handleOrder)
		r.Get("/files/{name}", s.handleFile)
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "version", buildinfo.Version)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

// logRequests logs one line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
