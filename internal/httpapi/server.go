package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ent0n29/samvad/internal/complaint"
	"github.com/ent0n29/samvad/internal/config"
	"github.com/ent0n29/samvad/internal/location"
	"github.com/ent0n29/samvad/internal/observability"
	"github.com/ent0n29/samvad/internal/session"
	"github.com/ent0n29/samvad/internal/taxonomy"
)

// LocationResolver resolves free-text locations for /v1/location.
type LocationResolver interface {
	Resolve(text string) location.Descriptor
}

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

// Option configures a Server.
type Option func(*Server)

// WithComplaints enables the /v1/complaints routes.
func WithComplaints(store complaint.Store) Option {
	return func(s *Server) { s.complaints = store }
}

func WithResolver(r LocationResolver) Option {
	return func(s *Server) {
		if r != nil {
			s.resolver = r
		}
	}
}

func WithMetrics(metrics *observability.Metrics) Option {
	return func(s *Server) { s.metrics = metrics }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReadinessCheck adds a named dependency check to /readyz.
func WithReadinessCheck(name string, check ReadinessCheck) Option {
	return func(s *Server) {
		if check != nil {
			s.checks = append(s.checks, namedCheck{name: name, check: check})
		}
	}
}

type namedCheck struct {
	name  string
	check ReadinessCheck
}

type Server struct {
	cfg        config.Config
	sessions   *session.Manager
	tax        *taxonomy.Taxonomy
	resolver   LocationResolver
	complaints complaint.Store
	metrics    *observability.Metrics
	logger     *zap.Logger
	checks     []namedCheck
	upgrader   websocket.Upgrader
}

func New(cfg config.Config, sessions *session.Manager, tax *taxonomy.Taxonomy, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		sessions: sessions,
		tax:      tax,
		resolver: location.NewResolver(tax),
		logger:   zap.NewNop(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Only allow browser websocket connections from the same origin.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					// Telephony gateways usually omit Origin.
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		s.metrics.Handler().ServeHTTP(w, r)
	})
	r.Get("/v1/perf/latency", s.handlePerfLatency)

	r.Route("/v1/ivr", func(r chi.Router) {
		r.Post("/session", s.handleCreateSession)
		r.Get("/session/ws", s.handleSessionWS)
		r.Get("/session/{id}", s.handleGetSession)
		r.Delete("/session/{id}", s.handleEndSession)
		r.Post("/session/{id}/utterance", s.handleSubmit)
		r.Post("/process", s.handleProcess)
		r.Get("/welcome", s.handleWelcome)
	})

	r.Route("/v1/taxonomy", func(r chi.Router) {
		r.Get("/categories", s.handleCategories)
		r.Get("/categories/{category}/sub-categories", s.handleSubCategories)
		r.Get("/wards", s.handleWards)
		r.Get("/zones", s.handleZones)
		r.Get("/areas", s.handleAreas)
		r.Post("/detect", s.handleDetect)
		r.Post("/priority", s.handlePriority)
	})
	r.Post("/v1/location/resolve", s.handleResolveLocation)

	r.Route("/v1/complaints", func(r chi.Router) {
		r.Get("/", s.handleListComplaints)
		r.Get("/stats", s.handleComplaintStats)
		r.Get("/{id}", s.handleGetComplaint)
		r.Post("/{id}/status", s.handleUpdateComplaintStatus)
		r.Post("/{id}/assign", s.handleAssignComplaint)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"session_store":   s.cfg.SessionStore,
		"complaint_store": s.complaintStoreMode(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(s.checks))
	for _, c := range s.checks {
		if err := c.check(ctx); err != nil {
			status = http.StatusServiceUnavailable
			results[c.name] = err.Error()
			s.logger.Warn("readiness check failed", zap.String("check", c.name), zap.Error(err))
			continue
		}
		results[c.name] = "ok"
	}
	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	respondJSON(w, status, map[string]any{
		"status": state,
		"checks": results,
	})
}

func (s *Server) complaintStoreMode() string {
	switch s.complaints.(type) {
	case nil:
		return "disabled"
	case *complaint.MemoryStore:
		return "memory"
	case *complaint.SQLiteStore:
		return "sqlite"
	case *complaint.PostgresStore:
		return "postgres"
	default:
		return "custom"
	}
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

var errEmptyBody = errors.New("empty body")

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
