package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/rpattn/neoql/internal/export"
	"github.com/rpattn/neoql/internal/repository"
	"github.com/rpattn/neoql/pkg/validator"
)

// Handler serves the REST surface over the loaded NEO database.
type Handler struct {
	repo      repository.NeoRepository
	exporter  *export.Service
	validator *validator.CriteriaValidator
	logger    *zap.Logger
}

// Option configures the handler.
type Option func(*Handler)

// WithLogger replaces the default nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates the API handler over the repository.
func NewHandler(repo repository.NeoRepository, exporter *export.Service, opts ...Option) *Handler {
	h := &Handler{
		repo:      repo,
		exporter:  exporter,
		validator: validator.NewCriteriaValidator(),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes mounts every endpoint on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", h.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/neo", h.handleNeoByName)
		r.Get("/neo/{designation}", h.handleNeoByDesignation)
		r.Get("/approaches", h.handleQuery)
		r.Post("/query", h.handleQueryBody)
		r.Get("/query/export", h.handleExport)
	})
	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"stats":  h.repo.Stats(r.Context()),
	})
}

func (h *Handler) handleNeoByDesignation(w http.ResponseWriter, r *http.Request) {
	designation := chi.URLParam(r, "designation")
	neo, err := h.repo.NeoByDesignation(r.Context(), designation)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no NEO with designation %q", designation))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, neoPayloadWithApproaches(neo))
}

func (h *Handler) handleNeoByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "name query parameter is required")
		return
	}
	neo, err := h.repo.NeoByName(r.Context(), name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no NEO named %q", name))
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, neoPayloadWithApproaches(neo))
}

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	req, verrs := queryFromValues(r.URL.Query())
	h.runQuery(w, r, req, verrs)
}

func (h *Handler) handleQueryBody(w http.ResponseWriter, r *http.Request) {
	defer func() { _ = r.Body.Close() }()
	var payload QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}
	req, verrs := payload.resolve()
	h.runQuery(w, r, req, verrs)
}

func (h *Handler) runQuery(w http.ResponseWriter, r *http.Request, req resolvedQuery, verrs []validator.ValidationError) {
	if result := h.validator.ValidateCriteria(req.criteria); !result.IsValid {
		verrs = append(verrs, result.Errors...)
	}
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}

	stream := h.repo.Query(r.Context(), req.criteria, req.sort, req.limit)
	payload, err := approachPayloads(stream)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.Debug("query served",
		zap.Int("results", len(payload)),
		zap.Int("limit", req.limit),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(payload),
		"results": payload,
	})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	format, err := export.ParseFormat(values.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, verrs := queryFromValues(values)
	if result := h.validator.ValidateCriteria(req.criteria); !result.IsValid {
		verrs = append(verrs, result.Errors...)
	}
	if len(verrs) > 0 {
		writeValidationErrors(w, verrs)
		return
	}

	stream := h.repo.Query(r.Context(), req.criteria, req.sort, req.limit)
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "approaches."+string(format)))
	if _, err := h.exporter.Write(w, format, stream); err != nil {
		// Headers are already out; all that remains is to log.
		h.logger.Error("export failed", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeValidationErrors(w http.ResponseWriter, verrs []validator.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "invalid query criteria",
		"details": verrs,
	})
}
