// Package handler exposes the interview engine over HTTP.
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"aiba/internal/docrender"
	"aiba/internal/engine"
	"aiba/internal/gateway/repository/artifact"
	"aiba/internal/gateway/repository/project"
)

type Handler struct {
	engine    *engine.Service
	projects  *project.Store
	documents artifact.Store
	renderer  *docrender.Renderer
	log       *log.Logger
}

func New(eng *engine.Service, projects *project.Store, documents artifact.Store, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.Default()
	}
	return &Handler{
		engine:    eng,
		projects:  projects,
		documents: documents,
		renderer:  docrender.New(),
		log:       logger,
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// loadProject resolves the {id} path segment to a record, writing a 404 when
// it is unknown.
func (h *Handler) loadProject(w http.ResponseWriter, r *http.Request) (project.Record, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return project.Record{}, false
	}
	rec, ok := h.projects.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return project.Record{}, false
	}
	return rec, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
