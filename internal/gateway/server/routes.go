package server

import (
	"net/http"

	"aiba/internal/gateway/handler"
	"aiba/internal/gateway/middleware"
)

func NewMux(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", h.HandleHealth)

	mux.HandleFunc("POST /api/projects", h.HandleStartProject)
	mux.HandleFunc("GET /api/projects", h.HandleListProjects)
	mux.HandleFunc("GET /api/projects/{id}", h.HandleGetProject)
	mux.HandleFunc("GET /api/projects/{id}/question", h.HandleNextQuestion)
	mux.HandleFunc("POST /api/projects/{id}/answer", h.HandleSubmitAnswer)
	mux.HandleFunc("POST /api/projects/{id}/notes", h.HandleAddNote)
	mux.HandleFunc("GET /api/projects/{id}/completeness", h.HandleCompleteness)
	mux.HandleFunc("POST /api/projects/{id}/document", h.HandleGenerateDocument)
	mux.HandleFunc("GET /api/projects/{id}/documents", h.HandleListDocuments)
	mux.HandleFunc("GET /api/projects/{id}/documents/{name}", h.HandleDownloadDocument)
	mux.HandleFunc("GET /api/projects/{id}/documents/{name}/html", h.HandleDocumentHTML)

	mux.HandleFunc("GET /api/interview", h.HandleInterviewSocket)

	return middleware.CORS(mux)
}
