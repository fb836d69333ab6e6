// Package llm wraps Genkit text generation behind the single-method surface
// the workflow pipeline needs, with a per-call timeout so a hanging model
// call cannot block a query indefinitely.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// DefaultTimeout bounds one generation call.
const DefaultTimeout = 60 * time.Second

// Client generates text with a fixed model. Safe for concurrent use.
type Client struct {
	g       *genkit.Genkit
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Client. A timeout of zero falls back to DefaultTimeout.
func New(g *genkit.Genkit, model string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		g:       g,
		model:   model,
		timeout: timeout,
		logger:  logger,
	}
}

// Generate runs one model call and returns the trimmed response text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := genkit.Generate(callCtx, c.g,
		ai.WithModelName(c.model),
		ai.WithPrompt(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("generating response: %w", err)
	}

	c.logger.Debug("generation complete",
		"model", c.model,
		"prompt_length", len(prompt),
		"duration", time.Since(start))
	return strings.TrimSpace(resp.Text()), nil
}
