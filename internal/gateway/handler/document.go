package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"aiba/internal/docrender"
	"aiba/internal/engine"
	"aiba/internal/gateway/repository/artifact"
	"aiba/internal/gateway/repository/project"
)

type generateDocumentResponse struct {
	Name      string `json:"name"`
	Backend   string `json:"backend,omitempty"`
	SizeBytes int    `json:"size_bytes"`
	URL       string `json:"url,omitempty"`
}

func (h *Handler) HandleGenerateDocument(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}

	text, backend, err := h.engine.GenerateDocument(r.Context(), rec.Transcript, rec.Context())
	if err != nil {
		if errors.Is(err, engine.ErrSynthesisFailed) {
			h.log.Printf("synthesis for %s: %v", rec.ProjectID, err)
			writeError(w, http.StatusServiceUnavailable, "document synthesis failed")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now()
	content := docrender.WrapDocument(text, rec.ClientName, backend, now)
	name := docrender.DocumentFileName(rec.ClientName, now)

	if err := h.documents.Put(r.Context(), rec.ProjectID, name, []byte(content)); err != nil {
		h.log.Printf("store document %s/%s: %v", rec.ProjectID, name, err)
		writeError(w, http.StatusInternalServerError, "could not store document")
		return
	}
	h.projects.Update(rec.ProjectID, func(pr *project.Record) {
		pr.Documents = append(pr.Documents, project.DocumentRef{
			Name:      name,
			Backend:   backend,
			CreatedAt: now,
		})
	})

	h.saveConversation(r, rec, now)

	url, _ := h.documents.GetURL(r.Context(), rec.ProjectID, name)
	writeJSON(w, http.StatusCreated, generateDocumentResponse{
		Name:      name,
		Backend:   backend,
		SizeBytes: len(content),
		URL:       url,
	})
}

type conversationExport struct {
	ProjectID    string            `json:"project_id"`
	ClientName   string            `json:"client_name"`
	CompanyName  string            `json:"company_name,omitempty"`
	ProjectTopic string            `json:"project_topic,omitempty"`
	SavedAt      time.Time         `json:"saved_at"`
	Turns        engine.Transcript `json:"turns"`
}

// saveConversation stores the interview transcript as a JSON artifact next to
// the generated document. Failure is logged, not surfaced.
func (h *Handler) saveConversation(r *http.Request, rec project.Record, now time.Time) {
	export, err := json.MarshalIndent(conversationExport{
		ProjectID:    rec.ProjectID,
		ClientName:   rec.ClientName,
		CompanyName:  rec.CompanyName,
		ProjectTopic: rec.ProjectTopic,
		SavedAt:      now,
		Turns:        rec.Transcript,
	}, "", "  ")
	if err != nil {
		h.log.Printf("marshal conversation for %s: %v", rec.ProjectID, err)
		return
	}
	name := "conversation_" + now.Format("20060102_150405") + ".json"
	if err := h.documents.Put(r.Context(), rec.ProjectID, name, export); err != nil {
		h.log.Printf("store conversation %s/%s: %v", rec.ProjectID, name, err)
	}
}

func (h *Handler) HandleListDocuments(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	names, err := h.documents.List(r.Context(), rec.ProjectID)
	if err != nil {
		h.log.Printf("list documents for %s: %v", rec.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "could not list documents")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": names})
}

func (h *Handler) fetchDocument(w http.ResponseWriter, r *http.Request) (project.Record, string, []byte, bool) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return project.Record{}, "", nil, false
	}
	name := strings.TrimSpace(r.PathValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "document name is required")
		return project.Record{}, "", nil, false
	}
	content, err := h.documents.Get(r.Context(), rec.ProjectID, name)
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
		} else {
			h.log.Printf("get document %s/%s: %v", rec.ProjectID, name, err)
			writeError(w, http.StatusInternalServerError, "could not read document")
		}
		return project.Record{}, "", nil, false
	}
	return rec, name, content, true
}

func (h *Handler) HandleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	_, name, content, ok := h.fetchDocument(w, r)
	if !ok {
		return
	}
	contentType := "text/markdown; charset=utf-8"
	if strings.HasSuffix(name, ".json") {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

func (h *Handler) HandleDocumentHTML(w http.ResponseWriter, r *http.Request) {
	rec, name, content, ok := h.fetchDocument(w, r)
	if !ok {
		return
	}
	page, err := h.renderer.Render(string(content))
	if err != nil {
		h.log.Printf("render document %s/%s: %v", rec.ProjectID, name, err)
		writeError(w, http.StatusInternalServerError, "could not render document")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(page))
}
