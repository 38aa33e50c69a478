package engine

import (
	"context"
	"testing"
)

func newTestService(fakes ...*fakeLLM) *Service {
	return NewService(newTestInvoker(fakes...), "", nil)
}

func TestStartProjectRequiresClientName(t *testing.T) {
	s := newTestService(&fakeLLM{name: "a", replies: []string{"briefing"}})
	if _, err := s.StartProject(context.Background(), "   ", "Acme", "CRM"); err == nil {
		t.Fatal("blank client name must be rejected")
	}
}

func TestStartProjectResearchIsBestEffort(t *testing.T) {
	s := NewService(failingInvoker(), "", nil)
	pc, err := s.StartProject(context.Background(), "Dana Reyes", "Northwind", "telemetry")
	if err != nil {
		t.Fatalf("StartProject must survive research failure: %v", err)
	}
	if pc.ResearchSummary != "" {
		t.Fatalf("ResearchSummary = %q, want empty on failure", pc.ResearchSummary)
	}
	if pc.ClientName != "Dana Reyes" {
		t.Fatalf("ClientName = %q", pc.ClientName)
	}
}

func TestSubmitAnswerSkipBypassesValidation(t *testing.T) {
	backend := &fakeLLM{name: "a", replies: []string{"should not be used"}}
	s := newTestService(backend)

	tr := Transcript{}.WithExchange("q1", "a real first answer about goals")
	res := s.SubmitAnswer(context.Background(), tr, "q2", "  SKIP  ", "discovery", ProjectContext{})
	if !res.Skipped || res.Finished {
		t.Fatalf("res = %+v, want skipped and not finished", res)
	}
	if len(res.Transcript) != len(tr) {
		t.Fatal("skip must leave the transcript untouched")
	}
	if backend.calls != 0 {
		t.Fatal("skip must not consult any model")
	}
}

func TestSubmitAnswerDoneEndsInterview(t *testing.T) {
	backend := &fakeLLM{name: "a", replies: []string{"should not be used"}}
	s := newTestService(backend)

	res := s.SubmitAnswer(context.Background(), nil, "q", "done", "discovery", ProjectContext{})
	if !res.Finished {
		t.Fatal("done must finish the interview")
	}
	if backend.calls != 0 {
		t.Fatal("done must not consult any model")
	}
}

func TestSubmitAnswerAppendsAndProbes(t *testing.T) {
	// First scripted reply validates the answer, second is the probe.
	backend := &fakeLLM{name: "a", replies: []string{
		"Quality Score: 0.4\nShould Probe: yes\nFeedback: Needs specifics.\nMissing Aspects: volumes",
		"Roughly how many invoices per month?",
	}}
	s := newTestService(backend)

	res := s.SubmitAnswer(context.Background(), nil, "What volumes do you handle?",
		"We handle quite a lot of invoices overall.", "discovery", ProjectContext{})
	if res.ExchangeCount != 1 {
		t.Fatalf("ExchangeCount = %d, want 1", res.ExchangeCount)
	}
	if len(res.Transcript) != 2 {
		t.Fatalf("transcript length = %d, want question and answer", len(res.Transcript))
	}
	if res.Validation.IsValid {
		t.Fatal("score 0.4 must not be valid")
	}
	if res.FollowUp != "Roughly how many invoices per month?" {
		t.Fatalf("FollowUp = %q", res.FollowUp)
	}
}

func TestSubmitAnswerProbeCeiling(t *testing.T) {
	// Probing stops by interview depth, not by how many probes were issued.
	backend := &fakeLLM{name: "a", replies: []string{
		"Quality Score: 0.4\nShould Probe: yes\nFeedback: Needs specifics.",
	}}
	s := newTestService(backend)

	var tr Transcript
	for i := 0; i < MaxProbes; i++ {
		tr = tr.WithExchange("q", "a reasonably detailed answer")
	}
	res := s.SubmitAnswer(context.Background(), tr, "q",
		"We handle quite a lot of invoices overall.", "technical", ProjectContext{})
	if res.FollowUp != "" {
		t.Fatalf("FollowUp = %q, probing past the ceiling", res.FollowUp)
	}
	if backend.calls != 1 {
		t.Fatalf("backend calls = %d, want validation only", backend.calls)
	}
}

func TestSubmitAnswerProbesBelowCeiling(t *testing.T) {
	backend := &fakeLLM{name: "a", replies: []string{
		"Quality Score: 0.4\nShould Probe: yes\nFeedback: Needs specifics.",
		"Roughly how many per month?",
	}}
	s := newTestService(backend)

	var tr Transcript
	for i := 0; i < MaxProbes-2; i++ {
		tr = tr.WithExchange("q", "a reasonably detailed answer")
	}
	res := s.SubmitAnswer(context.Background(), tr, "q",
		"We handle quite a lot of invoices overall.", "technical", ProjectContext{})
	if res.FollowUp != "Roughly how many per month?" {
		t.Fatalf("FollowUp = %q, want a probe below the ceiling", res.FollowUp)
	}
}

func TestNextQuestionStopsAtExchangeCeiling(t *testing.T) {
	s := newTestService(&fakeLLM{name: "a", replies: []string{"should not be used?"}})
	var tr Transcript
	for i := 0; i < MaxExchanges; i++ {
		tr = tr.WithExchange("q", "a reasonably detailed answer")
	}
	res, err := s.NextQuestion(context.Background(), tr, ProjectContext{})
	if err != nil {
		t.Fatalf("NextQuestion: %v", err)
	}
	if !res.Finished || res.Question != "" {
		t.Fatalf("res = %+v, want finished with no question", res)
	}
}

func TestAddNoteFlowsIntoTranscript(t *testing.T) {
	s := newTestService()
	tr := s.AddNote(nil, "Compliance sign-off is required by legal.")
	if tr.ExchangeCount() != 1 {
		t.Fatalf("ExchangeCount = %d, want 1", tr.ExchangeCount())
	}
	if s.AddNote(tr, "   ") == nil || len(s.AddNote(tr, "")) != len(tr) {
		t.Fatal("blank notes must leave the transcript unchanged")
	}
}

func TestGenerateDocumentRejectsEmptyTranscript(t *testing.T) {
	s := newTestService(&fakeLLM{name: "a", replies: []string{"doc"}})
	if _, _, err := s.GenerateDocument(context.Background(), nil, ProjectContext{ClientName: "Dana"}); err == nil {
		t.Fatal("empty transcript must be rejected")
	}
}
