package server

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/containerpak/cpakstore/pkg/buildinfo"
	"github.com/containerpak/cpakstore/pkg/catalog"
	"github.com/containerpak/cpakstore/pkg/errors"
)

// Handler returns the API handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1/categories", func(r chi.Router) {
		r.Get("/", s.handleCategories)
		r.Get("/{category}", s.handleCategory)
		r.Get("/{category}/packages/*", s.handlePackage)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "NOT_FOUND", Message: "no such route"}})
	})
	return r
}

type healthResponse struct {
	Status string `json:"status"`
	buildinfo.Info
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Info: buildinfo.Current()})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

type categoryResponse struct {
	Category string            `json:"category"`
	Packages []catalog.Package `json:"packages"`
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	category := param(r, "category")
	if err := errors.ValidateCategory(category); err != nil {
		s.fail(w, r, err)
		return
	}
	pkgs, err := s.catalog.ListCategory(r.Context(), category)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, categoryResponse{Category: category, Packages: pkgs})
}

func (s *Server) handlePackage(w http.ResponseWriter, r *http.Request) {
	category, origin := param(r, "category"), param(r, "*")
	if err := errors.ValidateCategory(category); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := errors.ValidateOrigin(origin); err != nil {
		s.fail(w, r, err)
		return
	}
	detail, err := s.catalog.Package(r.Context(), category, origin)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "err", err)
	}
	writeError(w, err, status)
}

// param returns a decoded path parameter.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
