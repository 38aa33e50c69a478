package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"aiba/internal/llm"
	"aiba/internal/llmclient"
)

// Section describes one requirements area in a scoring profile. Weight is
// the section's share of the overall score; Keywords drive the offline
// fallback; Advice seeds the recommendation text.
type Section struct {
	Name        string
	Weight      float64
	Subsections []string
	Keywords    []string
	Advice      string
}

// Profile is an ordered list of sections. Order is significant: it breaks
// ties when ranking weak sections for recommendations.
type Profile struct {
	Name     string
	Sections []Section
}

var aiMLProfile = Profile{
	Name: "ai_ml",
	Sections: []Section{
		{
			Name:        "business_objectives",
			Weight:      0.15,
			Subsections: []string{"problem statement", "success criteria", "expected ROI"},
			Keywords:    []string{"goal", "objective", "problem", "success", "roi", "value", "outcome"},
			Advice:      "clarify the business problem and how success will be measured",
		},
		{
			Name:        "functional_requirements",
			Weight:      0.20,
			Subsections: []string{"core features", "user workflows", "integrations"},
			Keywords:    []string{"feature", "function", "workflow", "integration", "capability", "user story"},
			Advice:      "detail the core features and user workflows the solution must support",
		},
		{
			Name:        "technical_requirements",
			Weight:      0.25,
			Subsections: []string{"model type", "data sources", "infrastructure", "accuracy targets"},
			Keywords:    []string{"model", "data", "training", "accuracy", "infrastructure", "api", "pipeline", "ml"},
			Advice:      "pin down model expectations, data sources, and infrastructure constraints",
		},
		{
			Name:        "non_functional",
			Weight:      0.15,
			Subsections: []string{"performance", "scalability", "security", "compliance"},
			Keywords:    []string{"performance", "latency", "scale", "security", "privacy", "compliance", "reliability"},
			Advice:      "cover performance, scalability, and security expectations",
		},
		{
			Name:        "stakeholders",
			Weight:      0.10,
			Subsections: []string{"sponsors", "end users", "decision makers"},
			Keywords:    []string{"stakeholder", "user", "team", "sponsor", "customer", "department"},
			Advice:      "identify sponsors, end users, and who signs off",
		},
		{
			Name:        "scope",
			Weight:      0.10,
			Subsections: []string{"in scope", "out of scope", "assumptions"},
			Keywords:    []string{"scope", "include", "exclude", "boundary", "assumption", "constraint"},
			Advice:      "draw explicit in-scope and out-of-scope boundaries",
		},
		{
			Name:        "timeline",
			Weight:      0.05,
			Subsections: []string{"milestones", "deadlines"},
			Keywords:    []string{"timeline", "deadline", "milestone", "schedule", "quarter", "launch"},
			Advice:      "establish target milestones and deadlines",
		},
	},
}

var generalProfile = Profile{
	Name: "general",
	Sections: []Section{
		{
			Name:        "business_objectives",
			Weight:      0.20,
			Subsections: []string{"problem statement", "success criteria"},
			Keywords:    []string{"goal", "objective", "problem", "success", "roi", "value", "outcome"},
			Advice:      "clarify the business problem and how success will be measured",
		},
		{
			Name:        "functional_requirements",
			Weight:      0.25,
			Subsections: []string{"core features", "user workflows", "integrations"},
			Keywords:    []string{"feature", "function", "workflow", "integration", "capability", "user story"},
			Advice:      "detail the core features and user workflows the solution must support",
		},
		{
			Name:        "non_functional",
			Weight:      0.20,
			Subsections: []string{"performance", "scalability", "security"},
			Keywords:    []string{"performance", "latency", "scale", "security", "privacy", "compliance", "reliability"},
			Advice:      "cover performance, scalability, and security expectations",
		},
		{
			Name:        "stakeholders",
			Weight:      0.15,
			Subsections: []string{"sponsors", "end users"},
			Keywords:    []string{"stakeholder", "user", "team", "sponsor", "customer", "department"},
			Advice:      "identify sponsors, end users, and who signs off",
		},
		{
			Name:        "scope",
			Weight:      0.10,
			Subsections: []string{"in scope", "out of scope"},
			Keywords:    []string{"scope", "include", "exclude", "boundary", "assumption", "constraint"},
			Advice:      "draw explicit in-scope and out-of-scope boundaries",
		},
		{
			Name:        "timeline",
			Weight:      0.10,
			Subsections: []string{"milestones", "deadlines"},
			Keywords:    []string{"timeline", "deadline", "milestone", "schedule", "quarter", "launch"},
			Advice:      "establish target milestones and deadlines",
		},
	},
}

// ProfileFor returns the scoring profile for a project type, defaulting to
// the general profile for unknown types.
func ProfileFor(projectType string) Profile {
	if strings.EqualFold(strings.TrimSpace(projectType), "ai_ml") {
		return aiMLProfile
	}
	return generalProfile
}

// Scorer measures how completely the conversation covers each requirements
// section of a profile.
type Scorer struct {
	inv *Invoker
}

func NewScorer(inv *Invoker) *Scorer {
	return &Scorer{inv: inv}
}

const scorerPersona = "You are a requirements analyst assessing how " +
	"completely an interview transcript covers each area needed for a " +
	"business requirements document."

// readyThreshold is the overall score at or above which the conversation is
// considered ready for document synthesis.
const readyThreshold = 0.70

// maxRecommendations caps the advice list at the weakest few sections.
const maxRecommendations = 3

// Score assesses the transcript against the profile for projectType.
// Model-based scoring is tried first; if every backend fails, a keyword
// heuristic over the same sections stands in. Scoring never returns an
// error and never mutates the transcript.
func (s *Scorer) Score(ctx context.Context, t Transcript, projectType string, pc ProjectContext) CompletenessResult {
	profile := ProfileFor(projectType)
	convo := t.Render()

	scores, ok := s.modelSectionScores(ctx, convo, profile, pc)
	if !ok {
		scores = keywordSectionScores(convo, profile)
	}

	overall := 0.0
	for _, sec := range profile.Sections {
		overall += scores[sec.Name] * sec.Weight
	}
	overall = round2(overall)

	return CompletenessResult{
		OverallScore:    overall,
		SectionScores:   scores,
		MissingItems:    missingItems(profile, scores),
		Recommendations: recommendations(profile, scores),
		ReadyForBRD:     overall >= readyThreshold,
	}
}

// modelSectionScores asks a backend for a strict JSON object mapping section
// names to scores. Any invoke or parse failure reports ok=false so the
// caller can fall back.
func (s *Scorer) modelSectionScores(ctx context.Context, convo string, profile Profile, pc ProjectContext) (map[string]float64, bool) {
	names := make([]string, 0, len(profile.Sections))
	for _, sec := range profile.Sections {
		names = append(names, sec.Name)
	}

	var b strings.Builder
	b.WriteString("Score how completely the conversation below covers each requirements area.\n")
	b.WriteString("Respond with ONLY a JSON object mapping each area name to a score from 0.0 to 1.0.\n\n")
	fmt.Fprintf(&b, "Areas: %s\n\n", strings.Join(names, ", "))
	if pc.ResearchSummary != "" {
		fmt.Fprintf(&b, "Background on the client:\n%s\n\n", head(pc.ResearchSummary, 300))
	}
	fmt.Fprintf(&b, "Conversation:\n%s\n", tail(convo, 2000))

	text, _, err := s.inv.Invoke(llm.WithCaller(ctx, "completeness"), scorerPersona,
		[]llmclient.Message{{Role: llmclient.RoleUser, Content: b.String()}},
		InvokeOptions{Temperature: 0.3, MaxTokens: 500, JSONOnly: true},
	)
	if err != nil {
		return nil, false
	}

	var raw map[string]json.Number
	dec := json.NewDecoder(strings.NewReader(extractJSONObject(text)))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, false
	}

	scores := make(map[string]float64, len(profile.Sections))
	for _, sec := range profile.Sections {
		scores[sec.Name] = 0.0
		if n, found := raw[sec.Name]; found {
			if f, err := n.Float64(); err == nil {
				scores[sec.Name] = clamp01(f)
			}
		}
	}
	return scores, true
}

// extractJSONObject trims surrounding prose from a reply that should be a
// bare JSON object. Some backends wrap JSON in code fences despite the
// response format hint.
func extractJSONObject(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

// keywordSectionScores scores each section by counting its keywords in the
// conversation. Each match is worth 0.2, capped at 0.8 so the offline path
// can never claim full coverage.
func keywordSectionScores(convo string, profile Profile) map[string]float64 {
	lower := strings.ToLower(convo)
	scores := make(map[string]float64, len(profile.Sections))
	for _, sec := range profile.Sections {
		matches := 0
		for _, kw := range sec.Keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		scores[sec.Name] = math.Min(0.8, 0.2*float64(matches))
	}
	return scores
}

// missingItems lists every section scoring under 0.5, in profile order.
func missingItems(profile Profile, scores map[string]float64) []MissingItem {
	var items []MissingItem
	for _, sec := range profile.Sections {
		score := scores[sec.Name]
		if score >= 0.5 {
			continue
		}
		items = append(items, MissingItem{
			Section:            sec.Name,
			Score:              round2(score),
			MissingSubsections: sec.Subsections,
			Message:            fmt.Sprintf("%s needs more detail", strings.ReplaceAll(sec.Name, "_", " ")),
		})
	}
	return items
}

// recommendations returns advice for up to three of the weakest sections,
// each prefixed by severity. Sections at or above 0.7 never produce advice.
// Ties in score keep profile order.
func recommendations(profile Profile, scores map[string]float64) []string {
	ranked := make([]Section, len(profile.Sections))
	copy(ranked, profile.Sections)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].Name] < scores[ranked[j].Name]
	})

	var recs []string
	for _, sec := range ranked {
		if len(recs) >= maxRecommendations {
			break
		}
		score := scores[sec.Name]
		if score >= 0.7 {
			continue
		}
		prefix := "Consider: "
		switch {
		case score < 0.3:
			prefix = "CRITICAL: "
		case score < 0.5:
			prefix = "IMPORTANT: "
		}
		recs = append(recs, prefix+sec.Advice)
	}
	return recs
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
