package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/opsmind/opsmind/internal/cmdb"
	"github.com/opsmind/opsmind/internal/itsm"
)

// ErrNotReady is returned when the orchestrator is used before Initialize,
// or when Initialize finds the evidence store unavailable.
var ErrNotReady = errors.New("orchestrator not ready")

// DefaultTopK is the retrieval count when a query does not specify one.
const DefaultTopK = 4

// MaxTopK caps how many documents one query may retrieve.
const MaxTopK = 20

// NoSystemAnswer is the short-circuit answer when neither the knowledge base
// nor the enterprise systems produced anything for a query.
const NoSystemAnswer = "No relevant information found in the knowledge base or enterprise systems."

// LowScoreWarning is attached to a result when validation scores the answer
// below the pass threshold.
const LowScoreWarning = "Answer validation score is low. Please verify the information."

// Orchestrator sequences the retrieval, enrichment, synthesis and validation
// stages for each query and assembles the result record. Construct with
// NewOrchestrator and call Initialize once before serving queries.
//
// The orchestrator holds no per-query state, so one instance may serve
// concurrent queries as long as the evidence store and generator are
// themselves concurrency-safe.
type Orchestrator struct {
	retriever   *Retriever
	enterprise  *Enterprise
	synthesizer *Synthesizer
	validator   *Validator
	logger      *slog.Logger
	ready       atomic.Bool
}

// NewOrchestrator wires the pipeline stages from their collaborators.
func NewOrchestrator(
	store EvidenceStore,
	gen Generator,
	graph *cmdb.Graph,
	registry *itsm.Registry,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		retriever:   NewRetriever(store, logger),
		enterprise:  NewEnterprise(graph, registry, logger),
		synthesizer: NewSynthesizer(gen, logger),
		validator:   NewValidator(gen, logger),
		logger:      logger,
	}
}

// Initialize moves the orchestrator to ready. It fails with ErrNotReady if
// the evidence store is not available. Calling it again once ready is a
// no-op.
func (o *Orchestrator) Initialize() error {
	if o.ready.Load() {
		o.logger.Info("orchestrator already initialized")
		return nil
	}
	if o.retriever.store == nil || !o.retriever.store.Ready() {
		return fmt.Errorf("%w: evidence store unavailable", ErrNotReady)
	}
	o.ready.Store(true)
	o.logger.Info("orchestrator initialized")
	return nil
}

// Ready reports whether Initialize has completed.
func (o *Orchestrator) Ready() bool {
	return o.ready.Load()
}

// ProcessQuery runs the full pipeline for one query. It returns an error
// only when called before Initialize; once ready, every fault inside the
// pipeline is converted into a Result with Success=false.
func (o *Orchestrator) ProcessQuery(ctx context.Context, q Query) (result *Result, err error) {
	if !o.Ready() {
		return nil, ErrNotReady
	}

	question := q.Question
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("query processing panicked", "panic", r)
			result = &Result{
				Question:      question,
				Answer:        fmt.Sprintf("Error processing query: %v", r),
				Success:       false,
				Error:         fmt.Sprint(r),
				AgentWorkflow: []string{},
			}
			err = nil
		}
	}()

	topK := q.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}

	useEnterprise := q.Enterprise == ModeForce ||
		(q.Enterprise == ModeAuto && o.enterprise.ShouldUse(question))

	o.logger.Info("processing query",
		"top_k", topK,
		"validate", q.Validate,
		"enterprise", useEnterprise)

	workflow := []string{}

	docs, retrievalOutcome := o.retriever.RetrieveWithScores(ctx, question, topK)
	workflow = append(workflow, StageRetriever)
	if retrievalOutcome == OutcomeFailed || retrievalOutcome == OutcomeNotReady {
		o.logger.Warn("retrieval degraded to empty", "outcome", retrievalOutcome.String())
	}

	var enterpriseData *string
	if useEnterprise {
		if block, ok := o.enterprise.BuildContext(question); ok {
			enterpriseData = &block
			workflow = append(workflow, StageEnterprise)
		}
	}

	if len(docs) == 0 && enterpriseData == nil {
		return &Result{
			Question:        question,
			Answer:          NoSystemAnswer,
			SourceDocuments: []SourceDocument{},
			Success:         true,
			AgentWorkflow:   workflow,
		}, nil
	}

	additionalContext := ""
	if enterpriseData != nil {
		additionalContext = *enterpriseData
	}

	answer, synthesisOutcome := o.synthesizer.Synthesize(ctx, question, docs, additionalContext)
	workflow = append(workflow, StageSynthesizer)
	if synthesisOutcome == OutcomeFailed {
		o.logger.Warn("synthesis degraded to error answer")
	}

	result = &Result{
		Question:        question,
		Answer:          answer,
		SourceDocuments: sourceSummaries(docs),
		EnterpriseData:  enterpriseData,
		Success:         true,
		AgentWorkflow:   workflow,
	}

	if q.Validate {
		validation, _ := o.validator.Validate(ctx, question, answer, docs)
		result.Validation = &validation
		result.AgentWorkflow = append(result.AgentWorkflow, StageValidator)
		if !validation.Passed {
			result.Warning = LowScoreWarning
		}
	}

	o.logger.Info("query processed", "stages", len(result.AgentWorkflow))
	return result, nil
}

func sourceSummaries(docs []Document) []SourceDocument {
	out := make([]SourceDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, SourceDocument{
			Content:  doc.Content,
			Metadata: doc.Metadata,
			Preview:  preview(doc.Content),
		})
	}
	return out
}
