package engine

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestParseContextHeader(t *testing.T) {
	header := strings.Join([]string{
		"Client: Dana Reyes",
		"Company: Northwind Logistics",
		"Project Topic: Fleet telemetry platform",
		"Date: 2026-08-12 09:30:00",
		"Customer Research: regional trucking operator",
	}, "\n")
	meta := parseContextHeader(header)
	if meta.Client != "Dana Reyes" || meta.Company != "Northwind Logistics" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.Topic != "Fleet telemetry platform" || meta.Date != "2026-08-12 09:30:00" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestParseContextHeaderDefaults(t *testing.T) {
	meta := parseContextHeader("free text without any labels")
	if meta.Client != "Unknown Client" || meta.Company != "Not specified" || meta.Topic != "Not specified" {
		t.Fatalf("meta = %+v", meta)
	}
	if meta.Date == "" {
		t.Fatal("date default must not be empty")
	}
}

func TestSummarizeInterviewDropsControlAnswers(t *testing.T) {
	tr := Transcript{}.
		WithExchange("What is the goal?", "Cut fuel costs by ten percent.").
		WithExchange("Who sponsors this?", "skip").
		WithExchange("What is the timeline?", "Pilot by Q2.").
		WithExchange("Anything else?", "done")
	summary := summarizeInterview(tr)

	if !strings.Contains(summary, "Cut fuel costs") || !strings.Contains(summary, "Pilot by Q2.") {
		t.Fatalf("summary dropped real answers:\n%s", summary)
	}
	if strings.Contains(summary, "skip") || strings.Contains(summary, "done") {
		t.Fatalf("summary kept control answers:\n%s", summary)
	}
	if strings.Contains(summary, "Who sponsors this?") {
		t.Fatalf("summary kept a skipped question:\n%s", summary)
	}
}

func TestGeneratePrefersConfiguredBackend(t *testing.T) {
	big := &fakeLLM{name: "big", replies: []string{"# Business Requirements Document\n..."}}
	small := &fakeLLM{name: "small", replies: []string{"should not be used"}}
	s := NewSynthesizer(newTestInvoker(small, big), "big")

	tr := Transcript{}.WithExchange("Goal?", "Cut fuel costs by ten percent.")
	_, backend, err := s.Generate(context.Background(), tr, "Client: Dana Reyes\n")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if backend != "big" {
		t.Fatalf("backend = %q, want the preferred one", backend)
	}
	if small.calls != 0 {
		t.Fatal("fallback chain was consulted although the preferred backend succeeded")
	}
}

func TestGenerateFallsBackWhenPreferredFails(t *testing.T) {
	big := &fakeLLM{name: "big", err: errors.New("overloaded")}
	small := &fakeLLM{name: "small", replies: []string{"# Business Requirements Document\n..."}}
	s := NewSynthesizer(newTestInvoker(big, small), "big")

	tr := Transcript{}.WithExchange("Goal?", "Cut fuel costs by ten percent.")
	text, backend, err := s.Generate(context.Background(), tr, "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if backend != "small" || !strings.Contains(text, "Business Requirements Document") {
		t.Fatalf("got (%q, %q)", text, backend)
	}
}

func TestGenerateSynthesisFailed(t *testing.T) {
	s := NewSynthesizer(failingInvoker(), "dead-a")
	tr := Transcript{}.WithExchange("Goal?", "Cut fuel costs by ten percent.")
	_, _, err := s.Generate(context.Background(), tr, "")
	if !errors.Is(err, ErrSynthesisFailed) {
		t.Fatalf("err = %v, want ErrSynthesisFailed", err)
	}
}
