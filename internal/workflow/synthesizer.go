package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Generator is the text generation capability the pipeline needs. Defined
// here by the consumer; *llm.Client satisfies it.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NoEvidenceAnswer is returned when synthesis is asked to answer with no
// documents at all.
const NoEvidenceAnswer = "No relevant information found in the knowledge base."

// Synthesizer builds the generation prompt from retrieved documents and
// optional enterprise context, and wraps the model call. Generation failures
// degrade to an error-bearing answer string rather than an error return.
type Synthesizer struct {
	gen    Generator
	logger *slog.Logger
}

// NewSynthesizer creates a synthesis stage.
func NewSynthesizer(gen Generator, logger *slog.Logger) *Synthesizer {
	return &Synthesizer{gen: gen, logger: logger}
}

// Synthesize produces an answer to the question from the given documents.
// With no documents it returns NoEvidenceAnswer without calling the model.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, docs []Document, additionalContext string) (string, Outcome) {
	s.logger.Info("synthesizing answer", "documents", len(docs))

	// No documents means no answer, even when enterprise context exists; the
	// orchestrator surfaces that context separately.
	if len(docs) == 0 {
		return NoEvidenceAnswer, OutcomeEmpty
	}

	prompt := buildSynthesisPrompt(question, docs, additionalContext)

	answer, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Error("synthesis failed", "error", err)
		return fmt.Sprintf("Error synthesizing answer: %v", err), OutcomeFailed
	}
	return answer, OutcomeOK
}

func buildSynthesisPrompt(question string, docs []Document, additionalContext string) string {
	docBlocks := make([]string, 0, len(docs))
	for i, doc := range docs {
		docBlocks = append(docBlocks, fmt.Sprintf("Document %d:\n%s", i+1, doc.Content))
	}

	contextLine := ""
	if additionalContext != "" {
		contextLine = "Additional Context: " + additionalContext
	}

	return fmt.Sprintf(`You are an expert at synthesizing information from multiple sources.

Question: %s

Source Documents:
%s

%s

Task: Provide a comprehensive, accurate answer based on the source documents.
- Synthesize information from all relevant sources
- Maintain factual accuracy
- Cite which documents support your statements (e.g., "According to Document 1...")
- If documents contain conflicting information, acknowledge it
- Use clear, professional language

Answer:`, question, strings.Join(docBlocks, "\n\n"), contextLine)
}
