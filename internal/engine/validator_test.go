package engine

import (
	"context"
	"strings"
	"testing"
)

func TestValidateShortAnswerSkipsModel(t *testing.T) {
	backend := &fakeLLM{name: "a", replies: []string{"should never be used"}}
	v := NewValidator(newTestInvoker(backend))

	res := v.Validate(context.Background(), "   yes    ", "What is the goal?", "discovery", "")
	if res.IsValid {
		t.Fatal("short answer must be invalid")
	}
	if res.QualityScore != 0.0 {
		t.Fatalf("QualityScore = %v, want 0.0", res.QualityScore)
	}
	if !res.ShouldProbe {
		t.Fatal("short answer must request a probe")
	}
	if backend.calls != 0 {
		t.Fatalf("model called %d times for a sub-minimum answer", backend.calls)
	}
}

func TestValidateParsesLabeledReply(t *testing.T) {
	reply := strings.Join([]string{
		"Quality Score: 0.9",
		"Is Valid: yes",
		"Feedback: Strong answer with concrete numbers.",
		"Should Probe: no",
		"Missing Aspects: none",
	}, "\n")
	v := NewValidator(newTestInvoker(&fakeLLM{name: "a", replies: []string{reply}}))

	res := v.Validate(context.Background(), "We need to cut invoice processing time from 5 days to 1.", "What is the goal?", "discovery", "")
	if !res.IsValid || res.QualityScore != 0.9 || res.ShouldProbe {
		t.Fatalf("unexpected result: %+v", res)
	}
	if res.Feedback != "Strong answer with concrete numbers." {
		t.Fatalf("Feedback = %q", res.Feedback)
	}
	if len(res.MissingAspects) != 0 {
		t.Fatalf("MissingAspects = %v, want empty", res.MissingAspects)
	}
}

func TestValidateVerdictOverridesHighScore(t *testing.T) {
	reply := strings.Join([]string{
		"Quality Score: 0.8",
		"Is Valid: No",
		"Should Probe: no",
	}, "\n")
	v := NewValidator(newTestInvoker(&fakeLLM{name: "a", replies: []string{reply}}))

	res := v.Validate(context.Background(), "The system must support roughly 2,000 concurrent users.", "Scale?", "technical", "")
	if res.IsValid {
		t.Fatalf("IsValid = true for a rejected verdict, result %+v", res)
	}
	if res.QualityScore != 0.8 {
		t.Fatalf("QualityScore = %v, want 0.8", res.QualityScore)
	}
}

func TestValidateLowScoreForcesProbeDespiteVerdict(t *testing.T) {
	reply := strings.Join([]string{
		"Quality Score: 0.6",
		"Is Valid: yes",
		"Should Probe: no",
	}, "\n")
	v := NewValidator(newTestInvoker(&fakeLLM{name: "a", replies: []string{reply}}))

	res := v.Validate(context.Background(), "Reports should be exported monthly by the finance group.", "Reporting?", "consultative", "")
	if !res.ShouldProbe {
		t.Fatalf("ShouldProbe = false for score 0.6, result %+v", res)
	}
	if !res.IsValid {
		t.Fatalf("IsValid = false for an accepted 0.6 answer, result %+v", res)
	}
}

func TestValidateFieldDefaultsOnMalformedReply(t *testing.T) {
	v := NewValidator(newTestInvoker(&fakeLLM{name: "a", replies: []string{"I cannot evaluate this."}}))

	res := v.Validate(context.Background(), "Our support team handles around 400 tickets per week.", "Volume?", "discovery", "")
	if res.QualityScore != 0.7 {
		t.Fatalf("QualityScore = %v, want default 0.7", res.QualityScore)
	}
	if !res.IsValid {
		t.Fatal("unparseable reply must default to valid")
	}
	if res.ShouldProbe {
		t.Fatal("default probe decision for score 0.7 is false")
	}
	if res.Feedback != "Answer looks good. Let's continue." {
		t.Fatalf("Feedback = %q", res.Feedback)
	}
}

func TestValidateVagueAnswerCapsScore(t *testing.T) {
	reply := strings.Join([]string{
		"Quality Score: 0.9",
		"Should Probe: no",
	}, "\n")
	v := NewValidator(newTestInvoker(&fakeLLM{name: "a", replies: []string{reply}}))

	res := v.Validate(context.Background(), "I think maybe we want some automation, not sure yet.", "What do you need?", "discovery", "")
	if res.QualityScore > 0.5 {
		t.Fatalf("QualityScore = %v, vague answers cap at 0.5", res.QualityScore)
	}
	if !res.ShouldProbe {
		t.Fatal("vague answers must force a probe")
	}
}

func TestValidateHeuristicFallback(t *testing.T) {
	v := NewValidator(failingInvoker())
	ctx := context.Background()

	cases := []struct {
		answer    string
		wantScore float64
		wantProbe bool
		wantValid bool
	}{
		{"too short", 0.0, true, false},
		{"it depends on what the team decides later", 0.5, true, true},
		{"around 400 tickets weekly", 0.6, false, true},
		{"We process about 400 support tickets weekly across email and chat, and volume doubles each December.", 0.8, false, true},
	}
	for _, c := range cases {
		res := v.Validate(ctx, c.answer, "q", "discovery", "")
		if res.QualityScore != c.wantScore || res.ShouldProbe != c.wantProbe || res.IsValid != c.wantValid {
			t.Errorf("Validate(%q) = {score %v probe %v valid %v}, want {%v %v %v}",
				c.answer, res.QualityScore, res.ShouldProbe, res.IsValid,
				c.wantScore, c.wantProbe, c.wantValid)
		}
	}
}

func TestValidateHeuristicIsDeterministic(t *testing.T) {
	v := NewValidator(failingInvoker())
	ctx := context.Background()
	answer := "We want to automate invoice matching against purchase orders."

	first := v.Validate(ctx, answer, "q", "discovery", "")
	for i := 0; i < 3; i++ {
		again := v.Validate(ctx, answer, "q", "discovery", "")
		if again.QualityScore != first.QualityScore || again.IsValid != first.IsValid || again.ShouldProbe != first.ShouldProbe {
			t.Fatalf("heuristic drifted: first %+v, run %d %+v", first, i, again)
		}
	}
}
