// Package server serves the dashboard page and the chart and network
// rendering API over HTTP.
//
//	GET  /healthz
//	GET  /                        dashboard page (?page=analytics)
//	GET  /api/cards               status cards
//	GET  /api/charts              chart list
//	GET  /api/charts/{name}       render a dataset chart (?mode=&format=)
//	POST /api/charts/render       render a series from the request body
//	GET  /api/network             render the map (?types=&issues=&selected=&zoom=&format=&viz=)
//	GET  /api/network/nodes/{id}  node details
//
// Errors are returned as {"code": ..., "message": ...}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/retailreboot/retailreboot/pkg/dataset"
	"github.com/retailreboot/retailreboot/pkg/network"
	"github.com/retailreboot/retailreboot/pkg/pipeline"
)

// NetworkSource supplies the unfiltered network for each request.
// The neo4j loader satisfies it.
type NetworkSource interface {
	Load(ctx context.Context) ([]network.Node, []network.Connection, error)
}

// StaticNetwork serves the network embedded in a dataset.
type StaticNetwork dataset.Network

// Load returns the stored nodes and connections.
func (s StaticNetwork) Load(context.Context) ([]network.Node, []network.Connection, error) {
	return s.Nodes, s.Connections, nil
}

// Options configures a Server.
type Options struct {
	Addr string
	// Width and Height are the default chart size in pixels.
	Width, Height float64
	// Network overrides the dataset's network when set.
	Network NetworkSource
}

// Server holds the dataset, the pipeline runner and the router.
type Server struct {
	data    *dataset.Dataset
	network NetworkSource
	runner  *pipeline.Runner
	logger  *log.Logger
	opts    Options
	router  chi.Router
}

// New builds a server over data. runner must not be nil.
func New(data *dataset.Dataset, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		data:    data,
		network: opts.Network,
		runner:  runner,
		logger:  logger,
		opts:    opts,
	}
	if s.network == nil {
		s.network = StaticNetwork(data.Network)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleDashboard)

	r.Route("/api", func(r chi.Router) {
		r.Get("/cards", s.handleCards)
		r.Route("/charts", func(r chi.Router) {
			r.Get("/", s.handleListCharts)
			r.Post("/render", s.handleRenderSeries)
			r.Get("/{name}", s.handleChart)
		})
		r.Route("/network", func(r chi.Router) {
			r.Get("/", s.handleNetwork)
			r.Get("/nodes/{id}", s.handleNodeDetails)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFound(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeErrorStatus(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
