package project

import (
	"strings"
	"time"

	"aiba/internal/engine"
)

// Record is the persisted state of one interview project.
type Record struct {
	ProjectID    string `json:"project_id"`
	ClientName   string `json:"client_name"`
	CompanyName  string `json:"company_name,omitempty"`
	ProjectTopic string `json:"project_topic,omitempty"`
	ProjectType  string `json:"project_type,omitempty"`

	Research      string `json:"research,omitempty"`
	ResearchModel string `json:"research_model,omitempty"`

	Transcript      engine.Transcript `json:"transcript,omitempty"`
	PendingQuestion string            `json:"pending_question,omitempty"`
	PendingPhase    string            `json:"pending_phase,omitempty"`
	Finished        bool              `json:"finished,omitempty"`

	Documents []DocumentRef `json:"documents,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentRef points at a generated document held in the artifact store.
type DocumentRef struct {
	Name      string    `json:"name"`
	Backend   string    `json:"backend,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Context rebuilds the engine's project context from the record.
func (r Record) Context() engine.ProjectContext {
	return engine.ProjectContext{
		ClientName:      r.ClientName,
		CompanyName:     r.CompanyName,
		ProjectTopic:    r.ProjectTopic,
		ResearchSummary: r.Research,
		CreatedAt:       r.CreatedAt,
	}
}

func normalizeRecord(rec Record) Record {
	rec.ProjectID = strings.TrimSpace(rec.ProjectID)
	rec.ClientName = strings.TrimSpace(rec.ClientName)
	rec.CompanyName = strings.TrimSpace(rec.CompanyName)
	rec.ProjectTopic = strings.TrimSpace(rec.ProjectTopic)
	if rec.ProjectType = strings.TrimSpace(strings.ToLower(rec.ProjectType)); rec.ProjectType == "" {
		rec.ProjectType = "general"
	}
	if rec.ClientName == "" {
		rec.ClientName = "Unknown Client"
	}
	return rec
}
