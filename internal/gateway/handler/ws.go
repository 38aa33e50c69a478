package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"aiba/internal/engine"
	"aiba/internal/gateway/repository/project"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// The CORS middleware already gates browser origins for the REST API;
	// the socket applies the same open policy.
	CheckOrigin: func(*http.Request) bool { return true },
}

// wsInbound is what the client sends over the interview socket.
type wsInbound struct {
	Type   string `json:"type"`
	Answer string `json:"answer,omitempty"`
	Note   string `json:"note,omitempty"`
}

// wsOutbound is what the server pushes back.
type wsOutbound struct {
	Type           string                     `json:"type"`
	Question       string                     `json:"question,omitempty"`
	Phase          string                     `json:"phase,omitempty"`
	ExchangeCount  int                        `json:"exchange_count,omitempty"`
	Validation     *engine.ValidationResult   `json:"validation,omitempty"`
	Completeness   *engine.CompletenessResult `json:"completeness,omitempty"`
	PhaseSaturated bool                       `json:"phase_saturated,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

// HandleInterviewSocket drives a full interview over one websocket: the
// server pushes questions, the client streams answers, and a completeness
// report is pushed when the interview ends.
func (h *Handler) HandleInterviewSocket(w http.ResponseWriter, r *http.Request) {
	projectID := strings.TrimSpace(r.URL.Query().Get("project_id"))
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "project_id query parameter is required")
		return
	}
	h.projects.EnsureLoaded()
	rec, ok := h.projects.Get(projectID)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx := r.Context()
	for {
		rec, ok = h.projects.Get(projectID)
		if !ok {
			_ = conn.WriteJSON(wsOutbound{Type: "error", Error: "project disappeared"})
			return
		}
		if rec.Finished {
			break
		}

		question := rec.PendingQuestion
		phase := rec.PendingPhase
		if question == "" {
			qr, err := h.engine.NextQuestion(ctx, rec.Transcript, rec.Context())
			if err != nil {
				_ = conn.WriteJSON(wsOutbound{Type: "error", Error: "no backend could produce a question"})
				return
			}
			if qr.Finished {
				h.projects.Update(projectID, func(pr *project.Record) { pr.Finished = true })
				break
			}
			question = qr.Question
			phase = string(qr.Phase)
			h.projects.Update(projectID, func(pr *project.Record) {
				pr.PendingQuestion = question
				pr.PendingPhase = phase
			})
		}

		if err := conn.WriteJSON(wsOutbound{
			Type:          "question",
			Question:      question,
			Phase:         phase,
			ExchangeCount: rec.Transcript.ExchangeCount(),
		}); err != nil {
			return
		}

		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			return
		}
		switch in.Type {
		case "note":
			updated := h.engine.AddNote(rec.Transcript, in.Note)
			h.projects.Update(projectID, func(pr *project.Record) { pr.Transcript = updated })
			continue
		case "answer", "":
		default:
			_ = conn.WriteJSON(wsOutbound{Type: "error", Error: "unknown message type"})
			continue
		}

		res := h.engine.SubmitAnswer(ctx, rec.Transcript, question, in.Answer, phase, rec.Context())
		h.projects.Update(projectID, func(pr *project.Record) {
			pr.Transcript = res.Transcript
			if res.Skipped || res.Finished || res.FollowUp == "" {
				pr.PendingQuestion = ""
				pr.PendingPhase = ""
			} else {
				pr.PendingQuestion = res.FollowUp
				pr.PendingPhase = string(res.Phase)
			}
			if res.Finished {
				pr.Finished = true
			}
		})

		validation := res.Validation
		if err := conn.WriteJSON(wsOutbound{
			Type:           "result",
			Phase:          string(res.Phase),
			ExchangeCount:  res.ExchangeCount,
			Validation:     &validation,
			PhaseSaturated: res.PhaseSaturated,
		}); err != nil {
			return
		}
		if res.Finished {
			break
		}
	}

	rec, ok = h.projects.Get(projectID)
	if !ok {
		return
	}
	completeness := h.engine.ScoreCompleteness(ctx, rec.Transcript, rec.ProjectType, rec.Context())
	_ = conn.WriteJSON(wsOutbound{
		Type:          "done",
		ExchangeCount: rec.Transcript.ExchangeCount(),
		Completeness:  &completeness,
	})
}
