package comment

import (
	"strings"
	"testing"
)

func TestParseCandidates(t *testing.T) {
	raw := `[{"comment": "omg this view 😍", "viralRate": 72}, {"comment": "need this", "viralRate": 40}]`

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("got %d candidates, want 2", len(candidates))
	}
	if candidates[0].Comment != "omg this view 😍" || candidates[0].ViralRate != 72 {
		t.Errorf("first candidate = %+v", candidates[0])
	}
}

func TestParseCandidatesTrailingProse(t *testing.T) {
	raw := `[{"comment": "lol same", "viralRate": 10}]` + "\n\nHope these help!"

	candidates, err := parseCandidates(raw)
	if err != nil {
		t.Fatalf("parseCandidates: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Comment != "lol same" {
		t.Errorf("candidates = %+v", candidates)
	}
}

func TestParseCandidatesInvalid(t *testing.T) {
	if _, err := parseCandidates("not json at all"); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestFirstComment(t *testing.T) {
	if got := FirstComment(nil); got != "" {
		t.Errorf("FirstComment(nil) = %q, want empty", got)
	}
	got := FirstComment([]Candidate{{Comment: "first"}, {Comment: "second"}})
	if got != "first" {
		t.Errorf("FirstComment = %q, want first", got)
	}
}

func TestBuildPromptEmbedsCaption(t *testing.T) {
	caption := "sunset ride #moto"
	prompt := BuildPrompt(caption)

	if !strings.Contains(prompt, caption) {
		t.Errorf("prompt does not embed the caption: %q", prompt)
	}
	if !strings.Contains(prompt, "tone") {
		t.Errorf("prompt should instruct tone matching: %q", prompt)
	}
}
