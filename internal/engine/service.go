package engine

import (
	"context"
	"log"
	"strings"
)

// Service is the interview engine facade. It owns no session state: every
// call takes the transcript and project context from the caller and returns
// updated copies, so any number of interviews can share one Service.
type Service struct {
	Invoker     *Invoker
	Validator   *Validator
	Scorer      *Scorer
	Generator   *Generator
	Researcher  *Researcher
	Synthesizer *Synthesizer

	log *log.Logger
}

// NewService wires the engine components over a shared invoker. preferred
// names the backend favored for long-form document synthesis.
func NewService(inv *Invoker, preferred string, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		Invoker:     inv,
		Validator:   NewValidator(inv),
		Scorer:      NewScorer(inv),
		Generator:   NewGenerator(inv),
		Researcher:  NewResearcher(inv),
		Synthesizer: NewSynthesizer(inv, preferred),
		log:         logger,
	}
}

// StartProject validates the intake fields and runs customer research.
// Research is best-effort: a total backend failure starts the interview
// with an empty briefing rather than failing the project.
func (s *Service) StartProject(ctx context.Context, clientName, companyName, projectTopic string) (ProjectContext, error) {
	pc, err := NewProjectContext(clientName, companyName, projectTopic)
	if err != nil {
		return ProjectContext{}, err
	}
	summary, backend, err := s.Researcher.Research(ctx, pc.ClientName, pc.CompanyName)
	if err != nil {
		s.log.Printf("customer research unavailable for %s: %v", pc.ClientName, err)
		return pc, nil
	}
	if backend != "" {
		s.log.Printf("customer research for %s produced by %s", pc.ClientName, backend)
	}
	pc.ResearchSummary = summary
	return pc, nil
}

// QuestionResult is the outcome of asking for the next question.
type QuestionResult struct {
	Question      string `json:"question"`
	Phase         Phase  `json:"phase"`
	ExchangeCount int    `json:"exchange_count"`
	Backend       string `json:"backend"`
	Finished      bool   `json:"finished"`
}

// NextQuestion produces the next question for the interview. Once the
// exchange ceiling is reached it reports Finished instead of a question.
func (s *Service) NextQuestion(ctx context.Context, t Transcript, pc ProjectContext) (QuestionResult, error) {
	exchanges := t.ExchangeCount()
	phase := DeterminePhase(exchanges)
	if exchanges >= MaxExchanges {
		return QuestionResult{Phase: phase, ExchangeCount: exchanges, Finished: true}, nil
	}
	q, backend, err := s.Generator.NextQuestion(ctx, t, phase, pc.ProjectTopic, pc.ResearchSummary)
	if err != nil {
		return QuestionResult{}, err
	}
	return QuestionResult{
		Question:      q,
		Phase:         phase,
		ExchangeCount: exchanges,
		Backend:       backend,
	}, nil
}

// SubmitResult is the outcome of processing one answer.
type SubmitResult struct {
	Transcript     Transcript       `json:"transcript"`
	Validation     ValidationResult `json:"validation"`
	Phase          Phase            `json:"phase"`
	ExchangeCount  int              `json:"exchange_count"`
	FollowUp       string           `json:"follow_up,omitempty"`
	Skipped        bool             `json:"skipped"`
	Finished       bool             `json:"finished"`
	PhaseSaturated bool             `json:"phase_saturated"`
}

// SubmitAnswer records one answer against the question it responds to and
// decides what happens next. Control words bypass validation: "skip" drops
// the exchange entirely and "done" ends the interview; neither touches the
// transcript. Follow-up probes stop once the exchange count reaches
// MaxProbes, whether or not any probe was ever issued.
func (s *Service) SubmitAnswer(ctx context.Context, t Transcript, question, answer, questionType string, pc ProjectContext) SubmitResult {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "skip":
		exchanges := t.ExchangeCount()
		return SubmitResult{
			Transcript:     t,
			Phase:          DeterminePhase(exchanges),
			ExchangeCount:  exchanges,
			Skipped:        true,
			PhaseSaturated: !ShouldContinuePhase(t, DeterminePhase(exchanges)),
		}
	case "done", "quit", "exit":
		exchanges := t.ExchangeCount()
		return SubmitResult{
			Transcript:    t,
			Phase:         DeterminePhase(exchanges),
			ExchangeCount: exchanges,
			Finished:      true,
		}
	}

	vr := s.Validator.Validate(ctx, answer, question, questionType, t.Render())
	updated := t.WithExchange(question, answer)
	exchanges := updated.ExchangeCount()
	phase := DeterminePhase(exchanges)

	res := SubmitResult{
		Transcript:     updated,
		Validation:     vr,
		Phase:          phase,
		ExchangeCount:  exchanges,
		Finished:       exchanges >= MaxExchanges,
		PhaseSaturated: !ShouldContinuePhase(updated, phase),
	}

	if vr.ShouldProbe && exchanges < MaxProbes && !res.Finished {
		followUp, _, err := s.Generator.Probe(ctx, question, answer, vr)
		if err != nil {
			s.log.Printf("probe generation failed: %v", err)
		} else {
			res.FollowUp = followUp
		}
	}
	return res
}

// AddNote appends caller-provided context as a regular user turn so it
// flows into completeness scoring and synthesis like any answer.
func (s *Service) AddNote(t Transcript, note string) Transcript {
	note = strings.TrimSpace(note)
	if note == "" {
		return t
	}
	return t.WithExchange("Is there anything else you would like to add?", note)
}

// ScoreCompleteness reports how ready the conversation is for synthesis.
func (s *Service) ScoreCompleteness(ctx context.Context, t Transcript, projectType string, pc ProjectContext) CompletenessResult {
	return s.Scorer.Score(ctx, t, projectType, pc)
}

// GenerateDocument synthesizes the requirements document from the
// transcript. It refuses to run on an empty transcript.
func (s *Service) GenerateDocument(ctx context.Context, t Transcript, pc ProjectContext) (string, string, error) {
	if t.ExchangeCount() == 0 {
		return "", "", &InvalidInputError{Field: "transcript", Reason: "no answers to synthesize from"}
	}
	return s.Synthesizer.Generate(ctx, t, pc.Header())
}
