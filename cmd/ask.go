package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opsmind/opsmind/internal/app"
	"github.com/opsmind/opsmind/internal/config"
	"github.com/opsmind/opsmind/internal/workflow"
)

var (
	askTopK       int
	askValidate   bool
	askEnterprise string
	askSources    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "documents to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askValidate, "validate", false, "score the answer with the validation rubric")
	askCmd.Flags().StringVar(&askEnterprise, "enterprise", "auto", "enterprise enrichment: auto, force or suppress")
	askCmd.Flags().BoolVar(&askSources, "sources", false, "print source document previews")
	rootCmd.AddCommand(askCmd)
}

func parseMode(s string) (workflow.Mode, error) {
	switch s {
	case "auto", "":
		return workflow.ModeAuto, nil
	case "force":
		return workflow.ModeForce, nil
	case "suppress":
		return workflow.ModeSuppress, nil
	default:
		return workflow.ModeAuto, fmt.Errorf("invalid enterprise mode %q (want auto, force or suppress)", s)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(askEnterprise)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := cmd.Context()
	logger := newLogger()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	topK := askTopK
	if topK == 0 {
		topK = cfg.DefaultTopK
	}

	result, err := a.Orchestrator.ProcessQuery(ctx, workflow.Query{
		Question:   strings.Join(args, " "),
		TopK:       topK,
		Validate:   askValidate,
		Enterprise: mode,
	})
	if err != nil {
		return fmt.Errorf("processing query: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("query failed: %s", result.Error)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.Answer)

	if result.Warning != "" {
		fmt.Fprintf(out, "\nWarning: %s\n", result.Warning)
	}
	if result.Validation != nil {
		fmt.Fprintf(out, "\nValidation: overall %.1f/10 (passed: %t)\n",
			result.Validation.Overall, result.Validation.Passed)
		if result.Validation.Feedback != "" {
			fmt.Fprintf(out, "Feedback: %s\n", result.Validation.Feedback)
		}
	}
	if askSources && len(result.SourceDocuments) > 0 {
		fmt.Fprintf(out, "\nSources (%d):\n", len(result.SourceDocuments))
		for i, doc := range result.SourceDocuments {
			fmt.Fprintf(out, "  %d. %s\n", i+1, doc.Preview)
		}
	}

	return nil
}
