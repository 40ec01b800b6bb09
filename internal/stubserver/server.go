// Package stubserver is the fixture server the client is exercised
// against: two fixed routes and nothing else.
//
//	GET  /           200 "hello, world!"
//	POST /post-test  204, no body
package stubserver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/frankli0324/async-http-client/internal/ctxlog"
)

const (
	DefaultAddr = ":3000"
	Greeting    = "hello, world!"
)

type Options struct {
	Addr string
	// CloseConnection makes "GET /" answer with "Connection: close".
	CloseConnection bool
}

// Handler returns the routes of the stub server.
func Handler(closeConnection bool) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		if closeConnection {
			w.Header().Set("Connection", "close")
		}
		io.WriteString(w, Greeting)
	})
	mux.HandleFunc("POST /post-test", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type Server struct {
	opts Options
	srv  *http.Server
}

func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	return &Server{opts: opts}
}

// ListenAndServe listens on the configured address and serves until ctx
// is done.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	logger := ctxlog.FromContext(ctx)
	s.srv = &http.Server{
		Handler:           logRequests(logger, Handler(s.opts.CloseConnection)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("stub server shutdown", "err", err)
		}
	})
	defer stop()

	logger.Info("test server running", "addr", ln.Addr().String(), "close", s.opts.CloseConnection)
	if err := s.srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Debug("served", "method", r.Method, "path", r.URL.Path, "status", rec.status, "remote", r.RemoteAddr)
	})
}
