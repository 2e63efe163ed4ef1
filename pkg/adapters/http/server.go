// Package http exposes the trip planner as a JSON API with chi.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/aretw0/ecovoyage"
	"github.com/aretw0/ecovoyage/internal/flow"
	"github.com/aretw0/ecovoyage/internal/logging"
	"github.com/aretw0/ecovoyage/pkg/catalog"
	"github.com/aretw0/ecovoyage/pkg/domain"
	"github.com/aretw0/ecovoyage/pkg/input"
	"github.com/aretw0/ecovoyage/pkg/view"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
)

// maxBodySize caps request bodies; individual text fields have their own limit.
const maxBodySize = 64 << 10

// Planner is the subset of *ecovoyage.Planner the server drives.
type Planner interface {
	Catalog() *catalog.Catalog
	Formatter() view.Formatter
	Quote(ctx context.Context, sel domain.Selections) (domain.Breakdown, error)
	Start(ctx context.Context, sessionID string) (*domain.Trip, error)
	Current(ctx context.Context, sessionID string) (*domain.Trip, error)
	End(ctx context.Context, sessionID string) error
	SubmitPlan(ctx context.Context, sessionID string, sel domain.Selections) (*domain.Trip, error)
	SubmitContact(ctx context.Context, sessionID string, contact domain.Contact) (*domain.Trip, error)
	Restart(ctx context.Context, sessionID string) (*domain.Trip, error)
	Page(trip *domain.Trip) (view.Page, error)
	OnChange(fn ecovoyage.ChangeFunc)
}

var _ Planner = (*ecovoyage.Planner)(nil)

// Server holds the handlers' dependencies.
type Server struct {
	Planner Planner
	Streams *StreamManager

	spec      *openapi3.T
	metrics   http.Handler
	staticDir string
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts a Prometheus handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithStaticDir serves a web UI from dir at /.
func WithStaticDir(dir string) Option {
	return func(s *Server) {
		s.staticDir = dir
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for planner.
// It fails if the embedded OpenAPI document does not validate.
func NewHandler(planner Planner, opts ...Option) (http.Handler, error) {
	spec, err := LoadSpec(context.Background())
	if err != nil {
		return nil, err
	}

	s := &Server{
		Planner: planner,
		Streams: NewStreamManager(),
		spec:    spec,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger

	planner.OnChange(func(_ context.Context, diff *domain.TripDiff) {
		data, err := json.Marshal(diff)
		if err != nil {
			s.logger.Error("failed to encode diff", "session_id", diff.SessionID, "err", err)
			return
		}
		s.Streams.Broadcast(diff.SessionID, string(data))
	})

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})

	r.Get("/catalog", s.GetCatalog)
	r.Get("/catalog/cities/{city}", s.GetCity)
	r.Post("/calculate", s.Calculate)

	r.Post("/sessions", s.StartSession)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Get("/", s.GetSession)
		r.Delete("/", s.EndSession)
		r.Post("/plan", s.SubmitPlan)
		r.Post("/contact", s.SubmitContact)
		r.Post("/restart", s.Restart)
		r.Get("/events", s.SubscribeEvents)
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	if s.staticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(s.staticDir)))
	}

	return enableCORS(r), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type errorResponse struct {
	Error   string     `json:"error"`
	Message string     `json:"message"`
	Page    *view.Page `json:"page,omitempty"`
}

type quoteResponse struct {
	Breakdown domain.Breakdown `json:"breakdown"`
	Total     string           `json:"total"`
}

type sessionResponse struct {
	Trip    *domain.Trip `json:"trip"`
	Page    view.Page    `json:"page"`
	Actions []flow.Event `json:"actions"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "ecovoyage-http",
		"version":     strings.TrimSpace(ecovoyage.Version),
		"api_version": apiVersion,
	})
}

// GetCatalog handles GET /catalog.
func (s *Server) GetCatalog(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Planner.Catalog())
}

// GetCity handles GET /catalog/cities/{city}.
func (s *Server) GetCity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "city")
	city, ok := s.Planner.Catalog().City(name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "city_not_found",
			Message: fmt.Sprintf("unknown city %q", name),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, city)
}

// Calculate handles POST /calculate, a stateless quote.
func (s *Server) Calculate(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.badRequest(w, "Calculate", err)
		return
	}
	sel, err := input.DecodeSelections(raw, s.Planner.Catalog())
	if err != nil {
		s.badRequest(w, "Calculate", err)
		return
	}

	b, err := s.Planner.Quote(r.Context(), sel)
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	s.writeJSON(w, http.StatusOK, quoteResponse{Breakdown: b, Total: s.Planner.Formatter().Format(b.GrandTotal)})
}

// StartSession handles POST /sessions.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	trip, err := s.Planner.Start(r.Context(), "")
	if err != nil {
		s.writeError(w, err, nil)
		return
	}
	s.writeSession(w, http.StatusCreated, trip, nil)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	trip, err := s.Planner.Current(r.Context(), chi.URLParam(r, "id"))
	s.writeSession(w, http.StatusOK, trip, err)
}

// EndSession handles DELETE /sessions/{id}.
func (s *Server) EndSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Planner.End(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitPlan handles POST /sessions/{id}/plan.
func (s *Server) SubmitPlan(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.badRequest(w, "SubmitPlan", err)
		return
	}
	sel, err := input.DecodeSelections(raw, s.Planner.Catalog())
	if err != nil {
		s.badRequest(w, "SubmitPlan", err)
		return
	}
	trip, err := s.Planner.SubmitPlan(r.Context(), chi.URLParam(r, "id"), sel)
	s.writeSession(w, http.StatusOK, trip, err)
}

// SubmitContact handles POST /sessions/{id}/contact.
func (s *Server) SubmitContact(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		s.badRequest(w, "SubmitContact", err)
		return
	}
	contact, err := input.DecodeContact(raw)
	if err != nil {
		s.badRequest(w, "SubmitContact", err)
		return
	}
	trip, err := s.Planner.SubmitContact(r.Context(), chi.URLParam(r, "id"), contact)
	s.writeSession(w, http.StatusOK, trip, err)
}

// Restart handles POST /sessions/{id}/restart.
func (s *Server) Restart(w http.ResponseWriter, r *http.Request) {
	trip, err := s.Planner.Restart(r.Context(), chi.URLParam(r, "id"))
	s.writeSession(w, http.StatusOK, trip, err)
}

// writeSession responds with the trip's page, or with the error and the
// page the session was left on.
func (s *Server) writeSession(w http.ResponseWriter, status int, trip *domain.Trip, err error) {
	if trip == nil && err == nil {
		err = domain.ErrSessionNotFound
	}
	var page *view.Page
	if trip != nil {
		p, renderErr := s.Planner.Page(trip)
		if renderErr != nil && err == nil {
			err = renderErr
		}
		if renderErr == nil {
			page = &p
		}
	}
	if err != nil {
		s.writeError(w, err, page)
		return
	}
	s.writeJSON(w, status, sessionResponse{
		Trip:    trip,
		Page:    *page,
		Actions: flow.Allowed(trip.Screen),
	})
}

// statusFor maps an error kind to an HTTP status.
func statusFor(err error) int {
	switch domain.ErrorKind(err) {
	case domain.KindSessionNotFound:
		return http.StatusNotFound
	case domain.KindInvalidTransition:
		return http.StatusConflict
	case domain.KindInternal:
		return http.StatusInternalServerError
	}
	return http.StatusUnprocessableEntity
}

func (s *Server) writeError(w http.ResponseWriter, err error, page *view.Page) {
	status := statusFor(err)
	msg := domain.UserMessage(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
		msg = "internal error"
	} else {
		s.logger.Debug("request rejected", "kind", domain.ErrorKind(err), "err", err)
	}
	s.writeJSON(w, status, errorResponse{Error: domain.ErrorKind(err), Message: msg, Page: page})
}

func (s *Server) badRequest(w http.ResponseWriter, op string, err error) {
	s.logger.Warn(op+": Invalid request body", "err", err)
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// readBody accepts a JSON object or an urlencoded form. An empty body is an
// empty submission.
func readBody(w http.ResponseWriter, r *http.Request) (map[string]any, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form: %w", err)
		}
		raw := make(map[string]any, len(r.PostForm))
		for k, vs := range r.PostForm {
			if len(vs) == 1 {
				raw[k] = vs[0]
			} else {
				raw[k] = vs
			}
		}
		return raw, nil
	}

	raw := map[string]any{}
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	return raw, nil
}
