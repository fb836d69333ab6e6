// Package workflow implements the multi-stage question answering pipeline:
// retrieve evidence from the knowledge store, optionally enrich with CMDB and
// ITSM context, synthesize an answer with the language model, and optionally
// validate the result against a scoring rubric.
//
// Stages run strictly sequentially per query. A single Orchestrator instance
// serves concurrent queries safely because it holds no per-query state; the
// enterprise datasets are read-only after startup.
package workflow

import "unicode/utf8"

// Stage names recorded in Result.AgentWorkflow, in execution order.
const (
	StageRetriever   = "retriever"
	StageEnterprise  = "enterprise_api"
	StageSynthesizer = "synthesizer"
	StageValidator   = "validator"
)

// Outcome classifies how a stage arrived at its value, so callers can tell
// "legitimately empty" from "upstream failed" even though both degrade to a
// usable default.
type Outcome int

const (
	// OutcomeOK means the stage produced a real value.
	OutcomeOK Outcome = iota

	// OutcomeEmpty means the stage ran but found nothing.
	OutcomeEmpty

	// OutcomeNotReady means the stage's collaborator was not initialized.
	OutcomeNotReady

	// OutcomeFailed means the collaborator call failed and the stage
	// substituted its degraded default.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeEmpty:
		return "empty"
	case OutcomeNotReady:
		return "not_ready"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Mode controls whether the enterprise enrichment stage runs.
type Mode int

const (
	// ModeAuto lets the keyword heuristic decide.
	ModeAuto Mode = iota

	// ModeForce always runs enrichment.
	ModeForce

	// ModeSuppress never runs enrichment.
	ModeSuppress
)

// ModeFromBoolPtr maps a nullable boolean, as carried by the JSON API,
// onto a Mode: nil is Auto, true is Force, false is Suppress.
func ModeFromBoolPtr(b *bool) Mode {
	switch {
	case b == nil:
		return ModeAuto
	case *b:
		return ModeForce
	default:
		return ModeSuppress
	}
}

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeForce:
		return "force"
	case ModeSuppress:
		return "suppress"
	default:
		return "unknown"
	}
}

// Document is a retrieved evidence passage. Score is a relevance score in
// [0,1], populated only when Scored is set.
type Document struct {
	Content  string
	Metadata map[string]string
	Score    float32
	Scored   bool
}

// Query is one question for the orchestrator.
type Query struct {
	Question   string
	TopK       int  // documents to retrieve; <=0 uses the default
	Validate   bool // run the validation stage
	Enterprise Mode // enterprise enrichment control
}

// SourceDocument is the externally visible summary of a retrieved document.
type SourceDocument struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata"`
	Preview  string            `json:"preview"`
}

// Validation carries the rubric scores for a synthesized answer. Scores are
// on a 1-10 scale; Passed derives from Overall >= 7.0.
type Validation struct {
	Relevance    float64 `json:"relevance"`
	Accuracy     float64 `json:"accuracy"`
	Completeness float64 `json:"completeness"`
	Clarity      float64 `json:"clarity"`
	Overall      float64 `json:"overall"`
	Feedback     string  `json:"feedback"`
	Passed       bool    `json:"passed"`
}

// Result is the orchestrator's answer record for one query. It is created
// fresh per query and never mutated after return.
type Result struct {
	Question        string           `json:"question"`
	Answer          string           `json:"answer"`
	SourceDocuments []SourceDocument `json:"source_documents"`
	EnterpriseData  *string          `json:"enterprise_data"`
	Validation      *Validation      `json:"validation"`
	Success         bool             `json:"success"`
	AgentWorkflow   []string         `json:"agent_workflow"`
	Warning         string           `json:"warning,omitempty"`
	Error           string           `json:"error,omitempty"`
}

const previewLength = 200

// preview returns the first 200 characters of content, with an ellipsis when
// truncated.
func preview(content string) string {
	if utf8.RuneCountInString(content) <= previewLength {
		return content
	}
	runes := []rune(content)
	return string(runes[:previewLength]) + "..."
}
