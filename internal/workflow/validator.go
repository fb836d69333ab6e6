package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// passThreshold is the minimum overall rubric score for a passing answer.
const passThreshold = 7.0

// validationDocs and validationDocChars bound how much source material goes
// into the rubric prompt. A cost and latency bound, not an oversight.
const (
	validationDocs     = 3
	validationDocChars = 200
)

// Validator scores a synthesized answer against a fixed rubric. A failed
// model call returns a neutral fail-open result so validation never blocks
// an answer.
type Validator struct {
	gen    Generator
	logger *slog.Logger
}

// NewValidator creates a validation stage.
func NewValidator(gen Generator, logger *slog.Logger) *Validator {
	return &Validator{gen: gen, logger: logger}
}

// Validate scores the answer. Only the first three documents, each truncated
// to 200 characters, feed the rubric.
func (v *Validator) Validate(ctx context.Context, question, answer string, docs []Document) (Validation, Outcome) {
	v.logger.Info("validating answer")

	prompt := buildValidationPrompt(question, answer, docs)

	text, err := v.gen.Generate(ctx, prompt)
	if err != nil {
		v.logger.Error("validation call failed", "error", err)
		return Validation{
			Relevance:    5,
			Accuracy:     5,
			Completeness: 5,
			Clarity:      5,
			Overall:      5,
			Feedback:     fmt.Sprintf("Validation error: %v", err),
			Passed:       true,
		}, OutcomeFailed
	}

	result := parseValidation(text)
	v.logger.Info("validation complete", "overall", result.Overall, "passed", result.Passed)
	return result, OutcomeOK
}

func buildValidationPrompt(question, answer string, docs []Document) string {
	var docLines []string
	for i, doc := range docs {
		if i >= validationDocs {
			break
		}
		content := doc.Content
		if runes := []rune(content); len(runes) > validationDocChars {
			content = string(runes[:validationDocChars])
		}
		docLines = append(docLines, "- "+content+"...")
	}

	return fmt.Sprintf(`You are an expert at validating AI-generated answers.

Question: %s

Generated Answer:
%s

Source Documents Used:
%s

Evaluate this answer on the following criteria (rate each 1-10):
1. RELEVANCE: Does the answer address the question?
2. ACCURACY: Is the answer factually correct based on the sources?
3. COMPLETENESS: Does it cover important aspects?
4. CLARITY: Is it well-written and easy to understand?

Provide your evaluation in this exact format:
RELEVANCE: [score]
ACCURACY: [score]
COMPLETENESS: [score]
CLARITY: [score]
OVERALL: [average score]
FEEDBACK: [Brief explanation of scores and any concerns]

Evaluation:`, question, answer, strings.Join(docLines, "\n"))
}

// parseValidation scans the rubric response for the exact labeled lines. A
// field that fails to parse stays at its zero value without aborting the
// rest. The overall score is taken as reported, never recomputed from the
// sub-scores.
func parseValidation(text string) Validation {
	var result Validation

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "RELEVANCE:"):
			result.Relevance = parseScore(line)
		case strings.HasPrefix(line, "ACCURACY:"):
			result.Accuracy = parseScore(line)
		case strings.HasPrefix(line, "COMPLETENESS:"):
			result.Completeness = parseScore(line)
		case strings.HasPrefix(line, "CLARITY:"):
			result.Clarity = parseScore(line)
		case strings.HasPrefix(line, "OVERALL:"):
			result.Overall = parseScore(line)
		case strings.HasPrefix(line, "FEEDBACK:"):
			_, after, _ := strings.Cut(line, ":")
			result.Feedback = strings.TrimSpace(after)
		}
	}

	result.Passed = result.Overall >= passThreshold
	return result
}

func parseScore(line string) float64 {
	_, after, ok := strings.Cut(line, ":")
	if !ok {
		return 0
	}
	score, err := strconv.ParseFloat(strings.TrimSpace(after), 64)
	if err != nil {
		return 0
	}
	return score
}
