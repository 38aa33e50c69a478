package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"aiba/internal/llm"
	"aiba/internal/llmclient"
)

// Validator judges whether a single answer is substantive enough to build
// requirements on, or whether the interview should probe deeper.
type Validator struct {
	inv *Invoker
}

func NewValidator(inv *Invoker) *Validator {
	return &Validator{inv: inv}
}

// minAnswerLen is the trimmed length below which an answer is rejected
// outright, with no model call.
const minAnswerLen = 10

// vagueMarkers are non-committal phrases that cap the quality score and
// force a probe regardless of what the model says.
var vagueMarkers = []string{
	"i don't know",
	"not sure",
	"maybe",
	"possibly",
	"it depends",
	"probably",
	"i think",
	"not really",
}

const validatorPersona = "You are a business analyst reviewing client answers " +
	"during a requirements interview. You judge whether an answer gives enough " +
	"substance to write requirements from, and what is still missing."

// Validate scores the answer against the question it responds to.
// recentContext is the rendered tail of the conversation; only its last 500
// bytes reach the prompt. Validation never fails: when every backend is
// down, a deterministic heuristic stands in.
func (v *Validator) Validate(ctx context.Context, answer, question, questionType, recentContext string) ValidationResult {
	trimmed := strings.TrimSpace(answer)
	if len(trimmed) < minAnswerLen {
		return ValidationResult{
			IsValid:      false,
			QualityScore: 0.0,
			Feedback:     "That answer is quite brief. Could you expand on it a bit?",
			ShouldProbe:  true,
		}
	}

	vague := hasVagueMarker(answer)

	prompt := buildValidationPrompt(question, questionType, answer, tail(recentContext, 500))
	text, _, err := v.inv.Invoke(llm.WithCaller(ctx, "validator"), validatorPersona,
		[]llmclient.Message{{Role: llmclient.RoleUser, Content: prompt}},
		InvokeOptions{Temperature: 0.3, MaxTokens: 300},
	)
	if err != nil {
		return heuristicValidation(trimmed, vague)
	}
	return parseValidationReply(text, vague)
}

func hasVagueMarker(answer string) bool {
	lower := strings.ToLower(answer)
	for _, m := range vagueMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func buildValidationPrompt(question, questionType, answer, recent string) string {
	var b strings.Builder
	b.WriteString("Evaluate the client's answer to an interview question.\n\n")
	fmt.Fprintf(&b, "Question (%s): %s\n", questionType, question)
	fmt.Fprintf(&b, "Answer: %s\n\n", answer)
	if recent != "" {
		fmt.Fprintf(&b, "Recent conversation:\n%s\n\n", recent)
	}
	b.WriteString("Reply with exactly these lines:\n")
	b.WriteString("Quality Score: <0.0-1.0>\n")
	b.WriteString("Is Valid: <yes/no>\n")
	b.WriteString("Feedback: <one or two sentences for the client>\n")
	b.WriteString("Should Probe: <yes/no>\n")
	b.WriteString("Missing Aspects: <comma-separated, or none>\n")
	return b.String()
}

// parseValidationReply extracts labeled lines from the model's reply. Every
// field degrades independently: a malformed or missing line falls back to
// its default while the others are still honored.
func parseValidationReply(text string, vague bool) ValidationResult {
	res := ValidationResult{
		QualityScore: 0.7,
		Feedback:     "Answer looks good. Let's continue.",
	}
	valid := true
	probe := false

	lines := strings.Split(text, "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		switch {
		case matchLabel(line, "Quality Score:") != "":
			raw := matchLabel(line, "Quality Score:")
			if f, err := strconv.ParseFloat(strings.Fields(raw)[0], 64); err == nil {
				res.QualityScore = clamp01(f)
			}
		case matchLabel(line, "Is Valid:") != "":
			valid = isYes(matchLabel(line, "Is Valid:"))
		case matchLabel(line, "Feedback:") != "":
			fb := matchLabel(line, "Feedback:")
			// Feedback may run over several lines; stop at the next label
			// or list item.
			for i+1 < len(lines) {
				next := strings.TrimSpace(lines[i+1])
				if next == "" || strings.HasPrefix(next, "-") || looksLikeLabel(next) {
					break
				}
				fb += " " + next
				i++
			}
			res.Feedback = fb
		case matchLabel(line, "Should Probe:") != "":
			probe = isYes(matchLabel(line, "Should Probe:"))
		case matchLabel(line, "Missing Aspects:") != "":
			raw := matchLabel(line, "Missing Aspects:")
			if !strings.EqualFold(strings.TrimSpace(raw), "none") {
				for _, part := range strings.Split(raw, ",") {
					if p := strings.TrimSpace(part); p != "" {
						res.MissingAspects = append(res.MissingAspects, p)
					}
				}
			}
		}
	}

	if vague {
		if res.QualityScore > 0.5 {
			res.QualityScore = 0.5
		}
		probe = true
	}

	// The model's verdict and the numeric score are combined, never traded
	// off: a low score sinks a "yes" verdict, and a "no" verdict sinks a
	// high score. Likewise either probe trigger alone is enough.
	res.IsValid = valid && res.QualityScore >= 0.5
	res.ShouldProbe = probe || res.QualityScore < 0.7
	return res
}

var validationLabels = []string{
	"Quality Score:", "Is Valid:", "Feedback:", "Should Probe:", "Missing Aspects:",
}

func looksLikeLabel(line string) bool {
	for _, l := range validationLabels {
		if len(line) >= len(l) && strings.EqualFold(line[:len(l)], l) {
			return true
		}
	}
	return false
}

// matchLabel returns the text after the label, or "" when the line does not
// start with it (case-insensitive).
func matchLabel(line, label string) string {
	if len(line) < len(label) || !strings.EqualFold(line[:len(label)], label) {
		return ""
	}
	return strings.TrimSpace(line[len(label):])
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(s, "yes") || strings.HasPrefix(s, "true")
}

// heuristicValidation is the deterministic stand-in used when no backend is
// reachable. Same inputs always give the same result.
func heuristicValidation(trimmed string, vague bool) ValidationResult {
	switch {
	case len(trimmed) < minAnswerLen:
		return ValidationResult{
			IsValid:      false,
			QualityScore: 0.0,
			Feedback:     "That answer is quite brief. Could you expand on it a bit?",
			ShouldProbe:  true,
		}
	case vague:
		return ValidationResult{
			IsValid:      true,
			QualityScore: 0.5,
			Feedback:     "It sounds like there is some uncertainty here. Let's dig into it.",
			ShouldProbe:  true,
		}
	case len(trimmed) < 50:
		return ValidationResult{
			IsValid:      true,
			QualityScore: 0.6,
			Feedback:     "Thanks, that gives us a starting point.",
			ShouldProbe:  false,
		}
	default:
		return ValidationResult{
			IsValid:      true,
			QualityScore: 0.8,
			Feedback:     "Answer looks good. Let's continue.",
			ShouldProbe:  false,
		}
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
