package engine

import (
	"context"
	"fmt"
	"strings"

	"aiba/internal/llm"
	"aiba/internal/llmclient"
)

// Generator produces the next interview question for the current phase, and
// probing follow-ups when an answer needs one.
type Generator struct {
	inv *Invoker
}

func NewGenerator(inv *Invoker) *Generator {
	return &Generator{inv: inv}
}

const consultantPersona = "You are a senior management consultant conducting " +
	"a business requirements interview. You ask one sharp, specific question " +
	"at a time. You never lecture, never answer your own questions, and never " +
	"ask more than one thing at once. Keep each question under 30 words."

// questionCategory pairs a topic name with guidance injected into the
// prompt for that topic.
type questionCategory struct {
	Name     string
	Guidance string
}

// phaseCategories defines what each phase asks about. Discovery stays on
// business framing, consultative pushes into solution shape, technical
// closes out implementation specifics.
var phaseCategories = map[Phase][]questionCategory{
	PhaseDiscovery: {
		{"business context", "what the client's business does and where this project fits"},
		{"problem definition", "the concrete pain or opportunity driving the project"},
		{"success criteria", "how the client will know the project worked"},
		{"stakeholders", "who sponsors, uses, and approves the solution"},
	},
	PhaseConsultative: {
		{"solution shape", "what kind of solution the client envisions"},
		{"functional needs", "specific features and workflows the solution must support"},
		{"data landscape", "what data exists, where it lives, and its quality"},
		{"constraints", "budget, policy, or organizational limits on the solution"},
		{"scope boundaries", "what is explicitly in and out of scope"},
	},
	PhaseTechnical: {
		{"integration", "systems the solution must connect to and how"},
		{"performance", "latency, throughput, and accuracy expectations"},
		{"security and compliance", "data protection and regulatory obligations"},
		{"timeline and rollout", "milestones, deadlines, and deployment approach"},
	},
}

// fillerPrefixes are conversational lead-ins stripped from generated
// questions. Matching is case-insensitive and prefix-only.
var fillerPrefixes = []string{
	"Thank you for that.",
	"Thanks for sharing.",
	"I understand.",
	"Got it.",
	"That's helpful.",
	"Let me ask",
	"I'd like to know",
	"Can you tell me",
	"I'm curious about",
}

// NextQuestion generates the next question for the phase. It returns the
// cleaned question and the backend that produced it. A total backend
// failure or an empty post-processed reply surfaces as ErrNoQuestion.
func (g *Generator) NextQuestion(ctx context.Context, t Transcript, phase Phase, projectTopic, research string) (string, string, error) {
	prompt := buildQuestionPrompt(t, phase, projectTopic, research)
	text, backend, err := g.inv.Invoke(llm.WithCaller(ctx, "question"), consultantPersona,
		[]llmclient.Message{{Role: llmclient.RoleUser, Content: prompt}},
		InvokeOptions{Temperature: 0.7, MaxTokens: 100},
	)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoQuestion, err)
	}
	q := PostProcessQuestion(text)
	if q == "" || q == "?" {
		return "", "", ErrNoQuestion
	}
	return q, backend, nil
}

func buildQuestionPrompt(t Transcript, phase Phase, projectTopic, research string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Interview phase: %s\n", phase)
	if projectTopic != "" {
		fmt.Fprintf(&b, "Project topic: %s\n", projectTopic)
	}
	if research != "" {
		fmt.Fprintf(&b, "Client background:\n%s\n", head(research, 500))
	}
	b.WriteString("\nTopics appropriate for this phase:\n")
	for _, cat := range phaseCategories[phase] {
		fmt.Fprintf(&b, "- %s: %s\n", cat.Name, cat.Guidance)
	}
	if len(t) > 0 {
		fmt.Fprintf(&b, "\nConversation so far:\n%s\n", tail(t.Render(), 1500))
	}
	b.WriteString("\nAsk the single next question. Do not repeat anything already asked. ")
	b.WriteString("Reply with the question only, no preamble.")
	return b.String()
}

// Probe generates a follow-up question digging into a weak answer. It
// returns empty strings with a nil error when the validation did not call
// for a probe.
func (g *Generator) Probe(ctx context.Context, question, answer string, vr ValidationResult) (string, string, error) {
	if !vr.ShouldProbe {
		return "", "", nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %s\n", question)
	fmt.Fprintf(&b, "Client's answer: %s\n", answer)
	if len(vr.MissingAspects) > 0 {
		fmt.Fprintf(&b, "Aspects still unclear: %s\n", strings.Join(vr.MissingAspects, ", "))
	}
	b.WriteString("\nAsk one short follow-up question that draws out the missing detail. ")
	b.WriteString("Reply with the question only.")

	text, backend, err := g.inv.Invoke(llm.WithCaller(ctx, "probe"), consultantPersona,
		[]llmclient.Message{{Role: llmclient.RoleUser, Content: b.String()}},
		InvokeOptions{Temperature: 0.7, MaxTokens: 80},
	)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrNoQuestion, err)
	}
	q := PostProcessQuestion(text)
	if q == "" || q == "?" {
		return "", "", ErrNoQuestion
	}
	return q, backend, nil
}

// PostProcessQuestion normalizes raw model output into a clean question:
// wrapping quotes are stripped, conversational filler prefixes are removed,
// and the result ends with exactly one question mark. Already-clean input
// passes through unchanged.
func PostProcessQuestion(raw string) string {
	q := strings.TrimSpace(raw)
	q = strings.Trim(q, "\"'")
	q = strings.TrimSpace(q)

	for _, prefix := range fillerPrefixes {
		if len(q) >= len(prefix) && strings.EqualFold(q[:len(prefix)], prefix) {
			q = strings.TrimLeft(q[len(prefix):], ",:;. ")
			q = strings.TrimSpace(q)
		}
	}

	if q == "" {
		return ""
	}
	q = strings.TrimRight(q, "?")
	return q + "?"
}
