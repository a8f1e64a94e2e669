// Package server exposes the resolved store as a read-only JSON API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/containerpak/cpakstore/pkg/catalog"
)

// DefaultListen is the default bind address.
const DefaultListen = "127.0.0.1:8080"

const shutdownTimeout = 10 * time.Second

// Catalog is the part of [catalog.Resolver] the API serves.
type Catalog interface {
	ListCategories(ctx context.Context) ([]catalog.CategorySummary, error)
	ListCategory(ctx context.Context, category string) ([]catalog.Package, error)
	Package(ctx context.Context, category, origin string) (*catalog.PackageDetail, error)
}

// Config holds server settings.
type Config struct {
	Listen   string              // bind address, DefaultListen when empty
	Logger   *log.Logger         // request log, discarded when nil
	Gatherer prometheus.Gatherer // /metrics source, prometheus.DefaultGatherer when nil
}

// Server serves the store API.
type Server struct {
	catalog  Catalog
	logger   *log.Logger
	gatherer prometheus.Gatherer
	listen   string
}

// New creates a Server backed by c.
func New(c Catalog, cfg Config) *Server {
	if cfg.Listen == "" {
		cfg.Listen = DefaultListen
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	return &Server{catalog: c, logger: cfg.Logger, gatherer: cfg.Gatherer, listen: cfg.Listen}
}

// Addr returns the bind address.
func (s *Server) Addr() string { return s.listen }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.listen,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.listen)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
