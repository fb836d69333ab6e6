// Package cmd implements the opsmind command line interface.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/opsmind/opsmind/internal/log"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "opsmind",
	Short: "OpsMind - operations knowledge assistant",
	Long: `OpsMind answers operations questions from an indexed knowledge base,
enriched with CMDB and ITSM context when a question touches infrastructure,
incidents or changes.

Run "opsmind serve" to start the HTTP API, "opsmind ingest" to index
documents, or "opsmind ask" for one-off questions from the terminal.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// newLogger builds the process logger from the --log-level flag.
func newLogger() *slog.Logger {
	json := os.Getenv("OPSMIND_LOG_JSON") == "true"
	return log.New(log.Config{Level: log.ParseLevel(logLevel), JSON: json})
}
