package engine

import (
	"context"
	"math"
	"strings"
	"testing"
)

func TestProfileWeightsSumToOne(t *testing.T) {
	for _, profile := range []Profile{aiMLProfile, generalProfile} {
		sum := 0.0
		for _, sec := range profile.Sections {
			sum += sec.Weight
		}
		if math.Abs(sum-1.0) > 0.001 {
			t.Errorf("profile %s weights sum to %v, want 1.0", profile.Name, sum)
		}
	}
}

func TestProfileForDefaultsToGeneral(t *testing.T) {
	if got := ProfileFor("blockchain"); got.Name != "general" {
		t.Fatalf("ProfileFor(blockchain) = %s, want general", got.Name)
	}
	if got := ProfileFor("ai_ml"); got.Name != "ai_ml" {
		t.Fatalf("ProfileFor(ai_ml) = %s", got.Name)
	}
}

func TestScoreModelPathFullCoverage(t *testing.T) {
	reply := `{"business_objectives": 1.0, "functional_requirements": 1.0,
		"technical_requirements": 1.0, "non_functional": 1.0,
		"stakeholders": 1.0, "scope": 1.0, "timeline": 1.0}`
	s := NewScorer(newTestInvoker(&fakeLLM{name: "a", replies: []string{reply}}))

	tr := Transcript{}.WithExchange("q", "a detailed answer about everything")
	res := s.Score(context.Background(), tr, "ai_ml", ProjectContext{})
	if res.OverallScore != 1.0 {
		t.Fatalf("OverallScore = %v, want 1.0", res.OverallScore)
	}
	if !res.ReadyForBRD {
		t.Fatal("full coverage must be ready for synthesis")
	}
	if len(res.MissingItems) != 0 || len(res.Recommendations) != 0 {
		t.Fatalf("full coverage produced gaps: %+v / %v", res.MissingItems, res.Recommendations)
	}
}

func TestScoreModelPathNoCoverage(t *testing.T) {
	reply := `{"business_objectives": 0.0}`
	s := NewScorer(newTestInvoker(&fakeLLM{name: "a", replies: []string{reply}}))

	tr := Transcript{}.WithExchange("q", "an answer")
	res := s.Score(context.Background(), tr, "general", ProjectContext{})
	if res.OverallScore != 0.0 {
		t.Fatalf("OverallScore = %v, want 0.0", res.OverallScore)
	}
	if res.ReadyForBRD {
		t.Fatal("zero coverage cannot be ready")
	}
	if len(res.MissingItems) != len(generalProfile.Sections) {
		t.Fatalf("MissingItems = %d, want every section", len(res.MissingItems))
	}
	if len(res.Recommendations) != maxRecommendations {
		t.Fatalf("Recommendations = %d, want cap of %d", len(res.Recommendations), maxRecommendations)
	}
	for _, rec := range res.Recommendations {
		if !strings.HasPrefix(rec, "CRITICAL: ") {
			t.Errorf("recommendation %q should be CRITICAL at score 0.0", rec)
		}
	}
}

func TestScoreKeywordFallback(t *testing.T) {
	s := NewScorer(failingInvoker())

	tr := Transcript{}.
		WithExchange("What should the system do?",
			"The main feature is automated invoice matching with an integration into our ERP.").
		WithExchange("Who is involved?",
			"The finance team are the end users and the CFO is the sponsor.")
	res := s.Score(context.Background(), tr, "ai_ml", ProjectContext{})

	if res.SectionScores["functional_requirements"] <= 0 {
		t.Fatalf("functional_requirements = %v, keywords 'feature' and 'integration' must register",
			res.SectionScores["functional_requirements"])
	}
	if res.SectionScores["timeline"] != 0 {
		t.Fatalf("timeline = %v, nothing in the conversation mentions scheduling",
			res.SectionScores["timeline"])
	}
	for name, score := range res.SectionScores {
		if score > 0.8 {
			t.Errorf("section %s = %v, keyword scores cap at 0.8", name, score)
		}
	}
	if res.ReadyForBRD {
		t.Fatal("two exchanges of keyword matches cannot clear the readiness threshold")
	}
}

func TestRecommendationSeverityBands(t *testing.T) {
	scores := map[string]float64{}
	for _, sec := range generalProfile.Sections {
		scores[sec.Name] = 0.9
	}
	scores["business_objectives"] = 0.2
	scores["functional_requirements"] = 0.4
	scores["non_functional"] = 0.6

	recs := recommendations(generalProfile, scores)
	if len(recs) != 3 {
		t.Fatalf("got %d recommendations, want 3", len(recs))
	}
	if !strings.HasPrefix(recs[0], "CRITICAL: ") {
		t.Errorf("recs[0] = %q, want CRITICAL prefix", recs[0])
	}
	if !strings.HasPrefix(recs[1], "IMPORTANT: ") {
		t.Errorf("recs[1] = %q, want IMPORTANT prefix", recs[1])
	}
	if !strings.HasPrefix(recs[2], "Consider: ") {
		t.Errorf("recs[2] = %q, want Consider prefix", recs[2])
	}
}
