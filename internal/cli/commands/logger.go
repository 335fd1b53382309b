package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/esnerda/kbc-branch-mcp/internal/logger"
)

// Global flags for logging configuration
var (
	flagLogLevel  string
	flagLogFormat string
)

// registerLoggerFlags registers global logging flags
func registerLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
}

// createLogger creates a logger based on CLI flags. Logs always go to
// stderr; stdout belongs to the MCP stdio transport.
func createLogger() logger.Logger {
	var level slog.Level
	switch flagLogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var format logger.Format
	switch flagLogFormat {
	case "json":
		format = logger.FormatJSON
	default:
		format = logger.FormatText
	}

	return logger.New(
		logger.WithLevel(level),
		logger.WithFormat(format),
		logger.WithOutput(os.Stderr),
	)
}
