package api

import (
	"errors"
	"net/http"
	"sort"
	"supadmin/internal/flow"
	"supadmin/internal/ports"
	"supadmin/internal/types"

	"github.com/goccy/go-json"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	ProjectStore ports.ProjectStore
}

// CheckResponse describes a handle built for a project. It never includes the service role key.
type CheckResponse struct {
	ProjectID        string `json:"project_id"`
	URL              string `json:"url"`
	Schema           string `json:"schema"`
	PersistSession   bool   `json:"persist_session"`
	AutoRefreshToken bool   `json:"auto_refresh_token"`
}

type errorResponse struct {
	Error string `json:"error"`
	Key   string `json:"key,omitempty"`
}

func NewHandler(ps ports.ProjectStore) *Handler {
	return &Handler{ProjectStore: ps}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /projects", h.handleListProjects)
	mux.HandleFunc("GET /projects/{id}/check", h.handleCheckProject)
	return mux
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	ids, err := h.ProjectStore.ListProjects(r.Context())
	if err != nil {
		log.WithError(err).Error("list projects failed")
		writeError(w, http.StatusInternalServerError, errorResponse{Error: "failed to list projects"})
		return
	}
	sort.Strings(ids)
	if err := writeJSON(w, http.StatusOK, map[string]any{"projects": ids}); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

// handleCheckProject builds an admin handle for the project without contacting it and reports its options.
func (h *Handler) handleCheckProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	cli, err := flow.OpenProject(r.Context(), h.ProjectStore, id)
	if err != nil {
		var ce *types.ConfigurationError
		switch {
		case errors.Is(err, types.ErrNotFound):
			writeError(w, http.StatusNotFound, errorResponse{Error: "unknown project"})
		case errors.As(err, &ce):
			writeError(w, http.StatusUnprocessableEntity, errorResponse{Error: ce.Reason, Key: ce.Key})
		default:
			log.WithError(err).WithField("projectID", id).Error("project check failed")
			writeError(w, http.StatusInternalServerError, errorResponse{Error: "project check failed"})
		}
		return
	}
	opts := cli.Options()
	resp := CheckResponse{
		ProjectID:        id,
		URL:              cli.URL(),
		Schema:           opts.Schema,
		PersistSession:   opts.PersistSession,
		AutoRefreshToken: opts.AutoRefreshToken,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

func writeError(w http.ResponseWriter, code int, body errorResponse) {
	if err := writeJSON(w, code, body); err != nil {
		log.WithError(err).Warn("failed to write error response")
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}
