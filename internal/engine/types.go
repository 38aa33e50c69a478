package engine

import (
	"fmt"
	"strings"
	"time"
)

// Turn roles. Ordering of turns in a transcript is chronological and
// significant; turns are never mutated once appended.
const (
	RoleAssistant = "assistant"
	RoleUser      = "user"
)

// Turn is one utterance in the interview.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is the append-only conversation history. It is owned by the
// caller's session; the engine only ever reads it and returns extended
// copies, never keeps a reference.
type Transcript []Turn

// ExchangeCount returns the number of user turns, which drives phase
// determination.
func (t Transcript) ExchangeCount() int {
	n := 0
	for _, turn := range t {
		if turn.Role == RoleUser {
			n++
		}
	}
	return n
}

// Render flattens the transcript into "role: content" lines for prompts.
func (t Transcript) Render() string {
	var b strings.Builder
	for _, turn := range t {
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// WithExchange returns a new transcript with the question/answer pair
// appended. The receiver is left untouched.
func (t Transcript) WithExchange(question, answer string) Transcript {
	out := make(Transcript, 0, len(t)+2)
	out = append(out, t...)
	out = append(out,
		Turn{Role: RoleAssistant, Content: question},
		Turn{Role: RoleUser, Content: answer},
	)
	return out
}

// tail returns the last max bytes of s.
func tail(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[len(s)-max:]
}

// head returns the first max bytes of s.
func head(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// ProjectContext carries caller-owned project metadata. It is passed by
// value into every engine call; the engine holds no session state.
type ProjectContext struct {
	ClientName      string    `json:"client_name"`
	CompanyName     string    `json:"company_name"`
	ProjectTopic    string    `json:"project_topic"`
	ResearchSummary string    `json:"research_summary"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewProjectContext validates required fields and stamps the creation time.
func NewProjectContext(clientName, companyName, projectTopic string) (ProjectContext, error) {
	if strings.TrimSpace(clientName) == "" {
		return ProjectContext{}, &InvalidInputError{Field: "clientName", Reason: "must not be blank"}
	}
	return ProjectContext{
		ClientName:   strings.TrimSpace(clientName),
		CompanyName:  strings.TrimSpace(companyName),
		ProjectTopic: strings.TrimSpace(projectTopic),
		CreatedAt:    time.Now(),
	}, nil
}

// Header renders the free-text context block consumed by the synthesizer.
// The synthesizer parses it back by literal label scanning, so the labels
// here and in parseContextHeader must stay in sync.
func (pc ProjectContext) Header() string {
	company := pc.CompanyName
	if company == "" {
		company = "Not specified"
	}
	topic := pc.ProjectTopic
	if topic == "" {
		topic = "To be discovered"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Client: %s\n", pc.ClientName)
	fmt.Fprintf(&b, "Company: %s\n", company)
	fmt.Fprintf(&b, "Project Topic: %s\n", topic)
	fmt.Fprintf(&b, "Date: %s\n", pc.CreatedAt.Format("2006-01-02 15:04:05"))
	if pc.ResearchSummary != "" {
		fmt.Fprintf(&b, "Customer Research: %s\n", head(pc.ResearchSummary, 500))
	}
	return b.String()
}

// ValidationResult scores a single answer. It is produced fresh per answer
// and not retained beyond the decision it informs.
type ValidationResult struct {
	IsValid        bool     `json:"is_valid"`
	QualityScore   float64  `json:"quality_score"`
	Feedback       string   `json:"feedback"`
	ShouldProbe    bool     `json:"should_probe"`
	MissingAspects []string `json:"missing_aspects"`
}

// MissingItem reports a requirements section that is still under-covered.
type MissingItem struct {
	Section            string   `json:"section"`
	Score              float64  `json:"score"`
	MissingSubsections []string `json:"missing_subsections,omitempty"`
	Message            string   `json:"message,omitempty"`
}

// CompletenessResult aggregates per-section coverage into an overall
// readiness signal.
type CompletenessResult struct {
	OverallScore    float64            `json:"overall_score"`
	SectionScores   map[string]float64 `json:"section_scores"`
	MissingItems    []MissingItem      `json:"missing_items"`
	Recommendations []string           `json:"recommendations"`
	ReadyForBRD     bool               `json:"ready_for_brd"`
}
