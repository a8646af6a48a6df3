package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/apptlens/apptlens/internal/engine"
)

// filterRequest is the query-level DTO supplied by the UI collaborator.
// The engine's FilterSpec constructor remains authoritative; the struct
// tags just reject obvious garbage at the edge.
type filterRequest struct {
	AgeBuckets     []string `validate:"dive,oneof=children youngAdult middleAged senior"`
	Genders        []string `validate:"dive,oneof=F M"`
	MaxWaitingDays *int     `validate:"omitempty,min=0"`
}

// Handler serves the dashboard API over one engine session.
type Handler struct {
	session  *engine.Session
	baseline engine.SummaryStats
	validate *validator.Validate
	logger   *zap.Logger
}

// NewHandler creates the API handler. The unfiltered summary is computed
// once up front; the store never changes afterwards.
func NewHandler(session *engine.Session, assembler *engine.Assembler, logger *zap.Logger) *Handler {
	store := assembler.Store()
	all := make([]int, store.Len())
	for i := range all {
		all[i] = i
	}
	return &Handler{
		session:  session,
		baseline: engine.Summary(store, all),
		validate: validator.New(),
		logger:   logger,
	}
}

// Views handles GET /api/v1/views: parse the filter dimensions, run one
// refresh cycle, and return the complete bundle.
func (h *Handler) Views(w http.ResponseWriter, r *http.Request) {
	req, err := parseFilterRequest(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid filter parameters: "+err.Error())
		return
	}

	spec, err := engine.ParseFilterSpec(req.AgeBuckets, req.Genders, req.MaxWaitingDays)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	bundle, err := h.session.Apply(r.Context(), spec)
	if errors.Is(err, engine.ErrSuperseded) {
		h.writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("Refresh failed", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "refresh failed")
		return
	}
	h.writeJSON(w, http.StatusOK, bundle)
}

// Summary handles GET /api/v1/summary: the unfiltered headline figures.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.baseline)
}

// Latest handles GET /api/v1/views/latest: the most recently committed
// bundle, 404 before the first refresh.
func (h *Handler) Latest(w http.ResponseWriter, r *http.Request) {
	bundle := h.session.Latest()
	if bundle == nil {
		h.writeError(w, http.StatusNotFound, "no refresh committed yet")
		return
	}
	h.writeJSON(w, http.StatusOK, bundle)
}

// Health handles GET /healthz.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseFilterRequest reads the three filter dimensions from query
// parameters. List dimensions are comma-separated; absent parameters mean
// "no constraint".
func parseFilterRequest(r *http.Request) (*filterRequest, error) {
	q := r.URL.Query()
	req := &filterRequest{
		AgeBuckets: splitList(q.Get("ageBuckets")),
		Genders:    splitList(q.Get("genders")),
	}
	if raw := q.Get("maxWaitingDays"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("maxWaitingDays must be an integer")
		}
		req.MaxWaitingDays = &days
	}
	return req, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}
