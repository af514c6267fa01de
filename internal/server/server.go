// Package server is the local enquiries backend: the REST routes the admin
// dashboard and the landing-page form talk to, served over the SQLite store.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/runnerr0/enquiry-desk/internal/config"
	"github.com/runnerr0/enquiry-desk/internal/storage"
)

// Server wraps the HTTP server and lifecycle helpers.
type Server struct {
	cfg        config.ServerConfig
	store      storage.Store
	log        *logrus.Logger
	router     *mux.Router
	httpServer *http.Server
	listener   net.Listener
	now        func() time.Time
}

// New builds the router over store. It does not bind a port until Listen
// or Start is called.
func New(cfg config.ServerConfig, store storage.Store, log *logrus.Logger) (*Server, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	reg := prometheus.NewRegistry()
	if err := Register(reg); err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	s := &Server{
		cfg:   cfg,
		store: store,
		log:   log,
		now:   time.Now,
	}
	s.router = s.routes(reg)
	s.httpServer = &http.Server{
		Handler:      s.router,
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s, nil
}

func (s *Server) routes(reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.Use(s.accessLog)
	// Router middleware only wraps matched routes.
	r.NotFoundHandler = s.accessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	}))
	r.MethodNotAllowedHandler = s.accessLog(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}))

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/project-enquiries", s.handleSubmit).Methods(http.MethodPost)

	admin := api.PathPrefix("/project-enquiries").Subrouter()
	admin.Use(s.requireToken)
	admin.HandleFunc("/all", s.handleList).Methods(http.MethodGet)
	admin.HandleFunc("/{id}", s.handleUpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/{id}", s.handleDelete).Methods(http.MethodDelete)

	return r
}

// Handler exposes the router (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	lis, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	s.listener = lis
	return nil
}

// Start serves requests until Shutdown is invoked. It binds the address
// first if Listen hasn't been called.
func (s *Server) Start() error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	s.log.WithField("addr", s.Address()).Info("enquiries backend listening")

	err := s.httpServer.Serve(s.listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown attempts a graceful shutdown, closing open connections once ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("graceful shutdown timed out, closing connections")
		return s.httpServer.Close()
	}
	return err
}

// Address exposes the bound listener address.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
