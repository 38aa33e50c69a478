package handler

import (
	"errors"
	"net/http"

	"aiba/internal/engine"
	"aiba/internal/gateway/repository/project"
)

type questionResponse struct {
	Question      string `json:"question,omitempty"`
	Phase         string `json:"phase"`
	ExchangeCount int    `json:"exchange_count"`
	Finished      bool   `json:"finished"`
}

func (h *Handler) HandleNextQuestion(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	if rec.Finished {
		writeJSON(w, http.StatusOK, questionResponse{
			Phase:         string(engine.DeterminePhase(rec.Transcript.ExchangeCount())),
			ExchangeCount: rec.Transcript.ExchangeCount(),
			Finished:      true,
		})
		return
	}

	// Re-serve a pending question instead of generating a second one, so a
	// page reload does not burn a model call or skip ahead.
	if rec.PendingQuestion != "" {
		writeJSON(w, http.StatusOK, questionResponse{
			Question:      rec.PendingQuestion,
			Phase:         rec.PendingPhase,
			ExchangeCount: rec.Transcript.ExchangeCount(),
		})
		return
	}

	qr, err := h.engine.NextQuestion(r.Context(), rec.Transcript, rec.Context())
	if err != nil {
		if errors.Is(err, engine.ErrNoQuestion) {
			writeError(w, http.StatusServiceUnavailable, "no backend could produce a question")
			return
		}
		h.log.Printf("next question for %s: %v", rec.ProjectID, err)
		writeError(w, http.StatusInternalServerError, "question generation failed")
		return
	}
	if qr.Finished {
		h.projects.Update(rec.ProjectID, func(r *project.Record) { r.Finished = true })
		writeJSON(w, http.StatusOK, questionResponse{
			Phase:         string(qr.Phase),
			ExchangeCount: qr.ExchangeCount,
			Finished:      true,
		})
		return
	}

	h.projects.Update(rec.ProjectID, func(r *project.Record) {
		r.PendingQuestion = qr.Question
		r.PendingPhase = string(qr.Phase)
	})
	writeJSON(w, http.StatusOK, questionResponse{
		Question:      qr.Question,
		Phase:         string(qr.Phase),
		ExchangeCount: qr.ExchangeCount,
	})
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

type submitAnswerResponse struct {
	Validation     engine.ValidationResult `json:"validation"`
	Phase          string                  `json:"phase"`
	ExchangeCount  int                     `json:"exchange_count"`
	FollowUp       string                  `json:"follow_up,omitempty"`
	Skipped        bool                    `json:"skipped"`
	Finished       bool                    `json:"finished"`
	PhaseSaturated bool                    `json:"phase_saturated"`
}

func (h *Handler) HandleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	var req submitAnswerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if rec.PendingQuestion == "" {
		writeError(w, http.StatusConflict, "no question is awaiting an answer")
		return
	}

	res := h.engine.SubmitAnswer(r.Context(), rec.Transcript, rec.PendingQuestion, req.Answer,
		rec.PendingPhase, rec.Context())

	h.projects.Update(rec.ProjectID, func(pr *project.Record) {
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

	writeJSON(w, http.StatusOK, submitAnswerResponse{
		Validation:     res.Validation,
		Phase:          string(res.Phase),
		ExchangeCount:  res.ExchangeCount,
		FollowUp:       res.FollowUp,
		Skipped:        res.Skipped,
		Finished:       res.Finished,
		PhaseSaturated: res.PhaseSaturated,
	})
}

type addNoteRequest struct {
	Note string `json:"note"`
}

func (h *Handler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	var req addNoteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	updated := h.engine.AddNote(rec.Transcript, req.Note)
	if len(updated) == len(rec.Transcript) {
		writeError(w, http.StatusBadRequest, "note is empty")
		return
	}
	h.projects.Update(rec.ProjectID, func(pr *project.Record) {
		pr.Transcript = updated
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"exchange_count": updated.ExchangeCount(),
	})
}

func (h *Handler) HandleCompleteness(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadProject(w, r)
	if !ok {
		return
	}
	res := h.engine.ScoreCompleteness(r.Context(), rec.Transcript, rec.ProjectType, rec.Context())
	writeJSON(w, http.StatusOK, res)
}
