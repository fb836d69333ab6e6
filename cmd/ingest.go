package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsmind/opsmind/internal/app"
	"github.com/opsmind/opsmind/internal/config"
)

// timeRound keeps ingest durations readable in terminal output.
const timeRound = 10 * time.Millisecond

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Index documents into the knowledge base",
	Long: `Index one or more files or directories into the knowledge base.

Directories are walked recursively; entries matched by a .gitignore in the
directory root are skipped, as are unsupported file types and files over the
size limit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		if info.IsDir() {
			res, err := a.Indexer.AddDirectory(ctx, path)
			if err != nil {
				return fmt.Errorf("indexing directory %s: %w", path, err)
			}
			fmt.Fprintf(out, "%s: %d files indexed (%d chunks), %d skipped, %d failed in %s\n",
				path, res.FilesAdded, res.ChunksAdded, res.FilesSkipped, res.FilesFailed,
				res.Duration.Round(timeRound))
			continue
		}

		chunks, err := a.Indexer.AddFile(ctx, path)
		if err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		fmt.Fprintf(out, "%s: %d chunks indexed\n", path, chunks)
	}

	return nil
}
