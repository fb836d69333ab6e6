package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opsmind/opsmind/internal/log"
)

func TestSynthesizeNoDocuments(t *testing.T) {
	gen := &mockGenerator{}
	s := NewSynthesizer(gen, log.NewNop())

	answer, outcome := s.Synthesize(context.Background(), "anything", nil, "")
	if answer != NoEvidenceAnswer {
		t.Errorf("answer = %q, want %q", answer, NoEvidenceAnswer)
	}
	if outcome != OutcomeEmpty {
		t.Errorf("outcome = %s, want empty", outcome)
	}
	if gen.calls != 0 {
		t.Error("generation should not run without documents")
	}

	// The fallback holds even when enterprise context exists.
	answer, _ = s.Synthesize(context.Background(), "anything", nil, "Open Incidents:\n...")
	if answer != NoEvidenceAnswer {
		t.Errorf("answer with context = %q, want %q", answer, NoEvidenceAnswer)
	}
	if gen.calls != 0 {
		t.Error("generation should not run without documents")
	}
}

func TestSynthesizePrompt(t *testing.T) {
	gen := &mockGenerator{responses: []string{"the answer"}}
	s := NewSynthesizer(gen, log.NewNop())

	docs := []Document{
		{Content: "first passage"},
		{Content: "second passage"},
	}
	answer, outcome := s.Synthesize(context.Background(), "what happened?", docs, "Open Incidents:\nIncident: x")
	if outcome != OutcomeOK {
		t.Fatalf("outcome = %s", outcome)
	}
	if answer != "the answer" {
		t.Errorf("answer = %q", answer)
	}

	prompt := gen.lastPrompt
	for _, want := range []string{
		"Question: what happened?",
		"Document 1:\nfirst passage",
		"Document 2:\nsecond passage",
		"Additional Context: Open Incidents:",
		"Cite which documents support your statements",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSynthesizeNoContextLine(t *testing.T) {
	gen := &mockGenerator{responses: []string{"ok"}}
	s := NewSynthesizer(gen, log.NewNop())

	if _, outcome := s.Synthesize(context.Background(), "q", []Document{{Content: "doc"}}, ""); outcome != OutcomeOK {
		t.Fatalf("outcome = %s", outcome)
	}
	if strings.Contains(gen.lastPrompt, "Additional Context:") {
		t.Error("prompt should not carry an empty context label")
	}
}

func TestSynthesizeGenerationFailure(t *testing.T) {
	gen := &mockGenerator{err: errors.New("model overloaded")}
	s := NewSynthesizer(gen, log.NewNop())

	answer, outcome := s.Synthesize(context.Background(), "q", []Document{{Content: "doc"}}, "")
	if outcome != OutcomeFailed {
		t.Errorf("outcome = %s, want failed", outcome)
	}
	if !strings.HasPrefix(answer, "Error synthesizing answer: ") {
		t.Errorf("answer = %q, want error prefix", answer)
	}
	if !strings.Contains(answer, "model overloaded") {
		t.Errorf("answer should embed the failure reason, got %q", answer)
	}
}
