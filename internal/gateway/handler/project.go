package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"aiba/internal/engine"
	"aiba/internal/gateway/repository/project"
)

type startProjectRequest struct {
	ClientName   string `json:"client_name"`
	CompanyName  string `json:"company_name"`
	ProjectTopic string `json:"project_topic"`
	ProjectType  string `json:"project_type"`
}

type projectResponse struct {
	ProjectID     string `json:"project_id"`
	ClientName    string `json:"client_name"`
	CompanyName   string `json:"company_name,omitempty"`
	ProjectTopic  string `json:"project_topic,omitempty"`
	ProjectType   string `json:"project_type"`
	Research      string `json:"research,omitempty"`
	ExchangeCount int    `json:"exchange_count"`
	Phase         string `json:"phase"`
	Finished      bool   `json:"finished"`
	CreatedAt     string `json:"created_at"`
}

func toProjectResponse(rec project.Record) projectResponse {
	exchanges := rec.Transcript.ExchangeCount()
	return projectResponse{
		ProjectID:     rec.ProjectID,
		ClientName:    rec.ClientName,
		CompanyName:   rec.CompanyName,
		ProjectTopic:  rec.ProjectTopic,
		ProjectType:   rec.ProjectType,
		Research:      rec.Research,
		ExchangeCount: exchanges,
		Phase:         string(engine.DeterminePhase(exchanges)),
		Finished:      rec.Finished,
		CreatedAt:     rec.CreatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) HandleStartProject(w http.ResponseWriter, r *http.Request) {
	var req startProjectRequest
	if !decodeBody(w, r, &req) {
		return
	}

	pc, err := h.engine.StartProject(r.Context(), req.ClientName, req.CompanyName, req.ProjectTopic)
	if err != nil {
		var invalid *engine.InvalidInputError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		h.log.Printf("start project: %v", err)
		writeError(w, http.StatusInternalServerError, "could not start project")
		return
	}

	rec := project.Record{
		ProjectID:    uuid.NewString(),
		ClientName:   pc.ClientName,
		CompanyName:  pc.CompanyName,
		ProjectTopic: pc.ProjectTopic,
		ProjectType:  req.ProjectType,
		Research:     pc.ResearchSummary,
		CreatedAt:    pc.CreatedAt,
	}
	h.projects.EnsureLoaded()
	h.projects.Put(rec)

	writeJSON(w, http.StatusCreated, toProjectResponse(rec))
}

func (h *Handler) HandleListProjects(w http.ResponseWriter, _ *http.Request) {
	h.projects.EnsureLoaded()
	records := h.projects.List()
	out := make([]projectResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toProjectResponse(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (h *Handler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(rec))
}
