// Package server exposes descriptor checking and feature resolution over
// HTTP. It is a thin layer: request bodies are raw TOML descriptors, the
// heavy lifting happens in descriptor and resolver, and responses are JSON.
//
// Endpoints:
//
//	POST /api/v1/check        validate a descriptor
//	POST /api/v1/resolve      resolve a build plan (cached, persisted)
//	GET  /api/v1/plans/{id}   fetch a previously resolved plan
//	GET  /healthz             liveness probe
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/cargoplan/pkg/cache"
	"github.com/matzehuels/cargoplan/pkg/descriptor"
	apperrors "github.com/matzehuels/cargoplan/pkg/errors"
	"github.com/matzehuels/cargoplan/pkg/observability"
	"github.com/matzehuels/cargoplan/pkg/resolver"
	"github.com/matzehuels/cargoplan/pkg/store"
)

const (
	maxBodySize  = 1 << 20 // descriptors are small; reject anything above 1 MiB
	planCacheTTL = 24 * time.Hour
)

// Server handles HTTP requests for descriptor checking and resolution.
type Server struct {
	router chi.Router
	cache  cache.Cache
	store  store.Store
	logger *log.Logger
}

// Config configures a Server. Cache and Store default to no-op and
// file-backed implementations respectively when nil.
type Config struct {
	Cache  cache.Cache
	Store  store.Store
	Logger *log.Logger
}

// New creates a Server with routes mounted.
func New(cfg Config) (*Server, error) {
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.Store == nil {
		fs, err := store.NewFileStore("")
		if err != nil {
			return nil, err
		}
		cfg.Store = fs
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	s := &Server{
		cache:  cfg.Cache,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Post("/resolve", s.handleResolve)
		r.Get("/plans/{id}", s.handleGetPlan)
	})
	s.router = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// checkResponse is the body returned by POST /check.
type checkResponse struct {
	Valid    bool     `json:"valid"`
	Name     string   `json:"name,omitempty"`
	Version  string   `json:"version,omitempty"`
	Features []string `json:"features,omitempty"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d, err := descriptor.Parse(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{
		Valid:    true,
		Name:     d.Package.Name,
		Version:  d.Package.Version,
		Features: d.FeatureNames(),
	})
}

// resolveRequest is the body accepted by POST /resolve.
// Descriptor carries the raw TOML text.
type resolveRequest struct {
	Descriptor        string   `json:"descriptor"`
	Features          []string `json:"features"`
	NoDefaultFeatures bool     `json:"no_default_features"`
	AllFeatures       bool     `json:"all_features"`
	IncludeDev        bool     `json:"include_dev"`
	IncludeBuild      bool     `json:"include_build"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var req resolveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "request body must be JSON"))
		return
	}
	if req.Descriptor == "" {
		s.writeError(w, apperrors.New(apperrors.ErrCodeInvalidInput, "descriptor is required"))
		return
	}

	descBytes := []byte(req.Descriptor)
	key := cache.PlanKey(cache.Hash(descBytes), cache.PlanKeyOpts{
		Features:          req.Features,
		NoDefaultFeatures: req.NoDefaultFeatures,
		AllFeatures:       req.AllFeatures,
		IncludeDev:        req.IncludeDev,
		IncludeBuild:      req.IncludeBuild,
	})

	if data, hit, err := s.cache.Get(r.Context(), key); err == nil && hit {
		observability.Cache().OnCacheHit(r.Context(), "plan")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	observability.Cache().OnCacheMiss(r.Context(), "plan")

	d, err := descriptor.Parse(descBytes)
	if err != nil {
		s.writeError(w, err)
		return
	}

	observability.Resolve().OnResolveStart(r.Context(), d.Package.Name)
	start := time.Now()
	p, err := resolver.Resolve(d, req.Features, resolver.Options{
		NoDefaultFeatures: req.NoDefaultFeatures,
		AllFeatures:       req.AllFeatures,
		IncludeDev:        req.IncludeDev,
		IncludeBuild:      req.IncludeBuild,
	})
	if err != nil {
		observability.Resolve().OnResolveComplete(r.Context(), d.Package.Name, 0, time.Since(start), err)
		s.writeError(w, err)
		return
	}
	observability.Resolve().OnResolveComplete(r.Context(), d.Package.Name, len(p.Dependencies), time.Since(start), nil)

	if err := s.store.Put(r.Context(), p); err != nil {
		s.logger.Warn("failed to persist plan", "id", p.ID, "error", err)
	}

	data, err := json.Marshal(p)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.cache.Set(r.Context(), key, data, planCacheTTL); err != nil {
		s.logger.Warn("failed to cache plan", "id", p.ID, "error", err)
	} else {
		observability.Cache().OnCacheSet(r.Context(), "plan", len(data))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	// Plan IDs are always UUIDs; anything else never reaches the store,
	// which keeps arbitrary path segments out of file lookups.
	if _, err := uuid.Parse(id); err != nil {
		s.writeError(w, apperrors.New(apperrors.ErrCodePlanNotFound, "plan %s not found", id))
		return
	}
	p, err := s.store.Get(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.writeError(w, apperrors.New(apperrors.ErrCodePlanNotFound, "plan %s not found", id))
		return
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "request body too large or unreadable")
	}
	return body, nil
}
