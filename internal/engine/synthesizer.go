package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"aiba/internal/llm"
	"aiba/internal/llmclient"
)

// Synthesizer turns a finished interview into a business requirements
// document in Markdown. It prefers a single large backend for the long-form
// write-up and falls back to the regular chain only if that one fails.
type Synthesizer struct {
	inv       *Invoker
	preferred string
}

func NewSynthesizer(inv *Invoker, preferred string) *Synthesizer {
	return &Synthesizer{inv: inv, preferred: preferred}
}

const synthesizerPersona = "You are a senior business analyst writing a " +
	"formal business requirements document from interview notes. You write " +
	"complete, professional prose in Markdown, fill every section of the " +
	"provided skeleton, and mark genuinely unknown items as 'To be determined'."

// documentSkeleton is the section structure every generated document follows.
const documentSkeleton = `# Business Requirements Document

## 1. Executive Summary

## 2. Project Background
### 2.1 Client Overview
### 2.2 Problem Statement

## 3. Stakeholders
### 3.1 Sponsors
### 3.2 End Users

## 4. Business Objectives
### 4.1 Goals
### 4.2 Success Criteria

## 5. Functional Requirements
### 5.1 Core Features
### 5.2 User Workflows
### 5.3 Integrations

## 6. Non-Functional Requirements
### 6.1 Performance
### 6.2 Scalability
### 6.3 Security and Compliance

## 7. Technical Requirements
### 7.1 Architecture and Infrastructure
### 7.2 Data Sources
### 7.3 Model and Accuracy Expectations

## 8. Scope
### 8.1 In Scope
### 8.2 Out of Scope
### 8.3 Assumptions and Constraints

## 9. Timeline and Milestones

## 10. Risks and Mitigations

## 11. Success Metrics

## 12. Appendix
### 12.1 Open Questions
`

// contextMeta is project metadata recovered from a free-text header.
type contextMeta struct {
	Client  string
	Company string
	Topic   string
	Date    string
}

// parseContextHeader scans the header for literal labels. Missing labels
// leave sensible defaults; unknown lines are ignored.
func parseContextHeader(header string) contextMeta {
	meta := contextMeta{
		Client:  "Unknown Client",
		Company: "Not specified",
		Topic:   "Not specified",
		Date:    time.Now().Format("2006-01-02"),
	}
	for _, line := range strings.Split(header, "\n") {
		line = strings.TrimSpace(line)
		if v := matchLabel(line, "Client:"); v != "" {
			meta.Client = v
		} else if v := matchLabel(line, "Company:"); v != "" {
			meta.Company = v
		} else if v := matchLabel(line, "Project Topic:"); v != "" {
			meta.Topic = v
		} else if v := matchLabel(line, "Date:"); v != "" {
			meta.Date = v
		}
	}
	return meta
}

// control words that end or skip an exchange; such answers carry no
// requirements content and are excluded from the interview summary.
func isControlAnswer(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "skip", "done", "quit", "exit":
		return true
	}
	return false
}

// summarizeInterview pairs each question with its answer, dropping control
// answers and dangling questions.
func summarizeInterview(t Transcript) string {
	var b strings.Builder
	var pending string
	for _, turn := range t {
		switch turn.Role {
		case RoleAssistant:
			pending = turn.Content
		case RoleUser:
			if pending == "" || isControlAnswer(turn.Content) {
				pending = ""
				continue
			}
			fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", pending, turn.Content)
			pending = ""
		}
	}
	return b.String()
}

// Generate writes the document from the transcript and the project context
// header. It returns the Markdown text and the backend that produced it.
// When the preferred backend and every fallback fail, the error wraps
// ErrSynthesisFailed.
func (s *Synthesizer) Generate(ctx context.Context, t Transcript, contextHeader string) (string, string, error) {
	meta := parseContextHeader(contextHeader)
	summary := summarizeInterview(t)
	if strings.TrimSpace(summary) == "" {
		summary = "(no substantive answers were captured)"
	}

	var b strings.Builder
	b.WriteString("Write a complete business requirements document from the interview below.\n\n")
	fmt.Fprintf(&b, "Client: %s\nCompany: %s\nProject Topic: %s\nDate: %s\n\n", meta.Client, meta.Company, meta.Topic, meta.Date)
	if rest := strings.TrimSpace(contextHeader); rest != "" {
		fmt.Fprintf(&b, "Full project context:\n%s\n\n", rest)
	}
	fmt.Fprintf(&b, "Interview:\n%s\n", summary)
	b.WriteString("Use exactly this section structure:\n\n")
	b.WriteString(documentSkeleton)
	b.WriteString("\nWrite the full document now. Ground every statement in the interview; ")
	b.WriteString("do not invent commitments the client never made.")

	ctx = llm.WithCaller(ctx, "synthesizer")
	messages := []llmclient.Message{{Role: llmclient.RoleUser, Content: b.String()}}
	opts := InvokeOptions{Temperature: 0.4, MaxTokens: 4000}

	if s.preferred != "" {
		forced := opts
		forced.ForceBackend = s.preferred
		if text, backend, err := s.inv.Invoke(ctx, synthesizerPersona, messages, forced); err == nil {
			return text, backend, nil
		}
	}
	text, backend, err := s.inv.Invoke(ctx, synthesizerPersona, messages, opts)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrSynthesisFailed, err)
	}
	return text, backend, nil
}
