// Package api serves the control surface over HTTP on a local unix socket.
package api

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/smazurov/ledchaser/internal/api/models"
	"github.com/smazurov/ledchaser/internal/attrs"
	"github.com/smazurov/ledchaser/internal/events"
	"github.com/smazurov/ledchaser/internal/logging"
	"github.com/smazurov/ledchaser/internal/version"
)

// DefaultSocket is where the API listens unless configured otherwise.
const DefaultSocket = "/run/ledchaser/ledchaser.sock"

const socketMode = 0o660

// Status reports the sequencer's liveness for the health endpoint.
type Status interface {
	Running() bool
	Ticks() uint64
}

// Options configures the API server.
type Options struct {
	Group          *attrs.Group
	EventBus       *events.Bus
	Status         Status
	MetricsHandler http.Handler // optional, served at /metrics
}

// Server is the Huma v2 API server.
type Server struct {
	api        huma.API
	mux        *http.ServeMux
	httpServer *http.Server
	socket     string
	options    *Options
	eventBus   *events.Bus
	logger     *slog.Logger
	done       chan struct{}
}

// NewServer creates the API and registers all routes.
func NewServer(opts *Options) *Server {
	mux := http.NewServeMux()

	config := huma.DefaultConfig("ledchaser API", version.Get().Version)
	config.Info.Description = "Mode and period control for the LED chaser"
	config.Servers = []*huma.Server{}

	api := humago.New(mux, config)
	api.UseMiddleware(HTTPLoggingMiddleware)

	if opts.MetricsHandler != nil {
		mux.Handle("GET /metrics", opts.MetricsHandler)
	}

	s := newServer(api, opts)
	s.mux = mux
	return s
}

func newServer(api huma.API, opts *Options) *Server {
	s := &Server{
		api:      api,
		options:  opts,
		eventBus: opts.EventBus,
		logger:   logging.GetLogger("api"),
	}
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on socket and serves in the background. A stale socket
// left by a previous run is removed first.
func (s *Server) Start(socket string) error {
	if socket == "" {
		socket = DefaultSocket
	}
	if err := os.MkdirAll(filepath.Dir(socket), 0o755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	if err := os.Remove(socket); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove stale socket %s: %w", socket, err)
	}

	ln, err := net.Listen("unix", socket)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", socket, err)
	}
	if err := os.Chmod(socket, socketMode); err != nil {
		ln.Close()
		return fmt.Errorf("failed to chmod %s: %w", socket, err)
	}

	s.socket = socket
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.done = make(chan struct{})

	s.logger.Info("Starting API server", "socket", socket)
	go func() {
		defer close(s.done)
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server failed", "error", err)
		}
	}()
	return nil
}

// Stop shuts the server down, waiting up to ctx for in-flight requests.
// Open event streams are cut when ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("Stopping API server")

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		err = errors.Join(err, s.httpServer.Close())
	}
	<-s.done
	s.httpServer = nil

	if rmErr := os.Remove(s.socket); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
		err = errors.Join(err, rmErr)
	}
	return err
}

func (s *Server) registerRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health",
		Description: "Check API health and sequencer state",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{Body: models.HealthData{Status: "ok"}}
		if s.options.Status != nil {
			resp.Body.Running = s.options.Status.Running()
			resp.Body.Ticks = s.options.Status.Ticks()
		}
		return resp, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "get-version",
		Method:      http.MethodGet,
		Path:        "/api/version",
		Summary:     "Version",
		Description: "Get application version information",
		Tags:        []string{"system"},
	}, func(_ context.Context, _ *struct{}) (*models.VersionResponse, error) {
		info := version.Get()
		return &models.VersionResponse{
			Body: models.VersionData{
				Version:   info.Version,
				GitCommit: info.GitCommit,
				BuildDate: info.BuildDate,
				GoVersion: info.GoVersion,
				Platform:  info.Platform,
			},
		}, nil
	})

	s.registerAttributeRoutes()
	s.registerLogRoutes()
	if s.eventBus != nil {
		s.registerSSERoutes()
	}
}
