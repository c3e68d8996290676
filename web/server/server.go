package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go.hackfix.me/weave/web/auth"
	"go.hackfix.me/weave/web/csrf"
	"go.hackfix.me/weave/web/server/api/v1"
	"go.hackfix.me/weave/web/server/handler"
	"go.hackfix.me/weave/web/server/middleware"
)

// Server is a wrapper around http.Server with some custom behavior.
type Server struct {
	*http.Server
	logger *slog.Logger
}

// Options configure the Server.
type Options struct {
	Address     string
	ErrorLevel  handler.ErrorLevel
	MaxBodySize int64
	SpoolFS     vfs.FileSystem
	SpoolDir    string
	Auth        *auth.Authenticator
	CSRF        *csrf.Validator
	// Registry collects the server metrics. A new registry is created if nil.
	Registry *prometheus.Registry
}

// New returns a new web Server instance.
func New(opts Options, logger *slog.Logger) (*Server, error) {
	logger = logger.With("component", "web-server")

	h, err := SetupHandlers(opts, logger)
	if err != nil {
		return nil, err
	}

	srv := &Server{
		Server: &http.Server{
			Handler:           h,
			Addr:              opts.Address,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      10 * time.Minute,
		},
		logger: logger,
	}

	return srv, nil
}

// ListenAndServe starts the HTTP server. It stores the actual listen address,
// which is convenient when the address is dynamically determined by the system
// (e.g. ':0').
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		//nolint:wrapcheck // This is fine.
		return err
	}

	s.Addr = ln.Addr().String()
	s.logger.Info("started listener", "address", s.Addr)

	//nolint:wrapcheck // This is fine.
	return s.Serve(ln)
}

// SetupHandlers configures the server HTTP handlers.
func SetupHandlers(opts Options, logger *slog.Logger) (http.Handler, error) {
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("failed setting up metrics: %w", err)
	}

	hopts := []handler.Option{
		handler.WithLogger(logger),
		handler.WithErrorLevel(opts.ErrorLevel),
		handler.WithMaxBodySize(opts.MaxBodySize),
	}
	if opts.SpoolFS != nil {
		hopts = append(hopts, handler.WithSpool(opts.SpoolFS, opts.SpoolDir))
	}

	mux := http.NewServeMux()
	api.New(opts.Auth, opts.CSRF, logger).SetupHandlers(mux, hopts...)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	return middleware.Chain(mux, middleware.Logger(logger), metrics.Middleware()), nil
}
