package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
	"github.com/opsmind/opsmind/internal/knowledge"
	"github.com/opsmind/opsmind/internal/log"
)

// mockGenerator implements Generator. Responses are consumed in order; the
// last one repeats once the queue drains.
type mockGenerator struct {
	responses  []string
	err        error
	calls      int
	lastPrompt string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	resp := m.responses[0]
	if len(m.responses) > 1 {
		m.responses = m.responses[1:]
	}
	return resp, nil
}

// mockStore implements EvidenceStore.
type mockStore struct {
	notReady bool
	results  []knowledge.Result
	err      error
	calls    int
	lastTopK int
}

func (m *mockStore) Ready() bool { return !m.notReady }

func (m *mockStore) Search(_ context.Context, _ string, opts ...knowledge.SearchOption) ([]knowledge.Result, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func evidence(contents ...string) []knowledge.Result {
	out := make([]knowledge.Result, 0, len(contents))
	for _, c := range contents {
		out = append(out, knowledge.Result{
			Document:   knowledge.Document{Content: c, Metadata: map[string]string{"source": "test"}},
			Similarity: 0.9,
		})
	}
	return out
}

func testOrchestrator(t *testing.T, store EvidenceStore, gen Generator) *Orchestrator {
	t.Helper()
	logger := log.NewNop()
	o := NewOrchestrator(store, gen, cmdb.SampleGraph(logger), itsm.SampleRegistry(logger), logger)
	if err := o.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return o
}

func TestProcessQueryBeforeInitialize(t *testing.T) {
	logger := log.NewNop()
	o := NewOrchestrator(&mockStore{}, &mockGenerator{}, cmdb.SampleGraph(logger), itsm.SampleRegistry(logger), logger)

	if _, err := o.ProcessQuery(context.Background(), Query{Question: "q"}); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
}

func TestInitializeNotReadyStore(t *testing.T) {
	logger := log.NewNop()
	o := NewOrchestrator(&mockStore{notReady: true}, &mockGenerator{}, cmdb.SampleGraph(logger), itsm.SampleRegistry(logger), logger)

	if err := o.Initialize(); !errors.Is(err, ErrNotReady) {
		t.Fatalf("err = %v, want ErrNotReady", err)
	}
	if o.Ready() {
		t.Error("failed initialization must not mark the orchestrator ready")
	}
}

func TestInitializeIdempotent(t *testing.T) {
	o := testOrchestrator(t, &mockStore{}, &mockGenerator{})
	if err := o.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	if !o.Ready() {
		t.Error("orchestrator should stay ready")
	}
}

func TestEnterpriseEnrichmentFlow(t *testing.T) {
	// Scenario: operational question, evidence present, enrichment in auto
	// mode. All three pipeline stages up to synthesis should run.
	store := &mockStore{results: evidence("runbook for portal incidents")}
	gen := &mockGenerator{responses: []string{"synthesized answer"}}
	o := testOrchestrator(t, store, gen)

	result, err := o.ProcessQuery(context.Background(), Query{
		Question: "What incidents are currently open?",
	})
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}

	wantWorkflow := []string{StageRetriever, StageEnterprise, StageSynthesizer}
	assertWorkflow(t, result.AgentWorkflow, wantWorkflow)

	if result.EnterpriseData == nil {
		t.Fatal("enterprise data should be attached")
	}
	if !strings.Contains(*result.EnterpriseData, "Open Incidents:") {
		t.Error("enterprise data missing Open Incidents label")
	}
	if result.Answer != "synthesized answer" {
		t.Errorf("answer = %q", result.Answer)
	}
	if !result.Success {
		t.Error("success should be true")
	}
	if result.Validation != nil {
		t.Error("validation should not run when not requested")
	}
	if len(result.SourceDocuments) != 1 {
		t.Fatalf("source documents = %d", len(result.SourceDocuments))
	}
	if result.SourceDocuments[0].Preview != "runbook for portal incidents" {
		t.Errorf("short content preview = %q", result.SourceDocuments[0].Preview)
	}
}

func TestNothingFoundAnywhere(t *testing.T) {
	// Scenario: gibberish question, no evidence, no enterprise keywords.
	store := &mockStore{}
	gen := &mockGenerator{}
	o := testOrchestrator(t, store, gen)

	result, err := o.ProcessQuery(context.Background(), Query{Question: "asdkjaslkd"})
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}

	assertWorkflow(t, result.AgentWorkflow, []string{StageRetriever})
	if result.Answer != NoSystemAnswer {
		t.Errorf("answer = %q, want %q", result.Answer, NoSystemAnswer)
	}
	if !result.Success {
		t.Error("empty result is still a success")
	}
	if gen.calls != 0 {
		t.Error("generation should not run with nothing to synthesize")
	}
	if len(result.SourceDocuments) != 0 {
		t.Error("no source documents expected")
	}
}

func TestValidationPassAndFail(t *testing.T) {
	store := &mockStore{results: evidence("doc")}

	t.Run("passing", func(t *testing.T) {
		gen := &mockGenerator{responses: []string{"answer", wellFormedRubric}}
		o := testOrchestrator(t, store, gen)

		result, err := o.ProcessQuery(context.Background(), Query{
			Question:   "tell me about the weather",
			Validate:   true,
			Enterprise: ModeSuppress,
		})
		if err != nil {
			t.Fatalf("ProcessQuery: %v", err)
		}
		assertWorkflow(t, result.AgentWorkflow, []string{StageRetriever, StageSynthesizer, StageValidator})
		if result.Validation == nil || !result.Validation.Passed {
			t.Fatalf("validation = %+v, want passed", result.Validation)
		}
		if result.Warning != "" {
			t.Errorf("unexpected warning %q", result.Warning)
		}
	})

	t.Run("failing attaches warning", func(t *testing.T) {
		gen := &mockGenerator{responses: []string{"answer", "OVERALL: 4\nFEEDBACK: off topic"}}
		o := testOrchestrator(t, store, gen)

		result, err := o.ProcessQuery(context.Background(), Query{
			Question:   "tell me about the weather",
			Validate:   true,
			Enterprise: ModeSuppress,
		})
		if err != nil {
			t.Fatalf("ProcessQuery: %v", err)
		}
		if result.Validation == nil || result.Validation.Passed {
			t.Fatalf("validation = %+v, want failed", result.Validation)
		}
		if result.Warning != LowScoreWarning {
			t.Errorf("warning = %q, want %q", result.Warning, LowScoreWarning)
		}
	})
}

func TestEnterpriseModes(t *testing.T) {
	store := &mockStore{results: evidence("doc")}

	t.Run("force on non-operational question", func(t *testing.T) {
		gen := &mockGenerator{responses: []string{"answer"}}
		o := testOrchestrator(t, store, gen)

		// No enterprise keywords, but force mode still queries. The question
		// contains no keyword group either, so no block can be built and the
		// stage is not recorded.
		result, err := o.ProcessQuery(context.Background(), Query{
			Question:   "tell me about the weather",
			Enterprise: ModeForce,
		})
		if err != nil {
			t.Fatalf("ProcessQuery: %v", err)
		}
		assertWorkflow(t, result.AgentWorkflow, []string{StageRetriever, StageSynthesizer})
	})

	t.Run("force with matching group", func(t *testing.T) {
		gen := &mockGenerator{responses: []string{"answer"}}
		o := testOrchestrator(t, store, gen)

		result, err := o.ProcessQuery(context.Background(), Query{
			Question:   "what servers do we run?",
			Enterprise: ModeForce,
		})
		if err != nil {
			t.Fatalf("ProcessQuery: %v", err)
		}
		assertWorkflow(t, result.AgentWorkflow, []string{StageRetriever, StageEnterprise, StageSynthesizer})
	})

	t.Run("suppress on operational question", func(t *testing.T) {
		gen := &mockGenerator{responses: []string{"answer"}}
		o := testOrchestrator(t, store, gen)

		result, err := o.ProcessQuery(context.Background(), Query{
			Question:   "What incidents are currently open?",
			Enterprise: ModeSuppress,
		})
		if err != nil {
			t.Fatalf("ProcessQuery: %v", err)
		}
		assertWorkflow(t, result.AgentWorkflow, []string{StageRetriever, StageSynthesizer})
		if result.EnterpriseData != nil {
			t.Error("suppress mode must not attach enterprise data")
		}
	})
}

func TestEnterpriseOnlyAnswer(t *testing.T) {
	// Evidence store empty but the question matches an enterprise group: the
	// pipeline proceeds to synthesis, which falls back to the no-evidence
	// answer while the enterprise data is still attached.
	store := &mockStore{}
	gen := &mockGenerator{}
	o := testOrchestrator(t, store, gen)

	result, err := o.ProcessQuery(context.Background(), Query{
		Question: "What incidents are currently open?",
	})
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	assertWorkflow(t, result.AgentWorkflow, []string{StageRetriever, StageEnterprise, StageSynthesizer})
	if result.EnterpriseData == nil {
		t.Fatal("enterprise data should be attached")
	}
	if result.Answer != NoEvidenceAnswer {
		t.Errorf("answer = %q, want %q", result.Answer, NoEvidenceAnswer)
	}
	if gen.calls != 0 {
		t.Error("generation should not run without documents")
	}
}

func TestRetrievalFailureDegrades(t *testing.T) {
	store := &mockStore{err: errors.New("index unavailable")}
	gen := &mockGenerator{}
	o := testOrchestrator(t, store, gen)

	result, err := o.ProcessQuery(context.Background(), Query{Question: "plain question"})
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	if !result.Success {
		t.Error("retrieval failure should degrade, not fail the query")
	}
	if result.Answer != NoSystemAnswer {
		t.Errorf("answer = %q", result.Answer)
	}
}

func TestPreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 300)
	store := &mockStore{results: evidence(long)}
	gen := &mockGenerator{responses: []string{"answer"}}
	o := testOrchestrator(t, store, gen)

	result, err := o.ProcessQuery(context.Background(), Query{
		Question:   "plain question",
		Enterprise: ModeSuppress,
	})
	if err != nil {
		t.Fatalf("ProcessQuery: %v", err)
	}
	want := strings.Repeat("a", 200) + "..."
	if result.SourceDocuments[0].Preview != want {
		t.Errorf("preview length = %d, want 203", len(result.SourceDocuments[0].Preview))
	}
	if result.SourceDocuments[0].Content != long {
		t.Error("full content should be preserved alongside the preview")
	}
}

func assertWorkflow(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("workflow = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("workflow[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
