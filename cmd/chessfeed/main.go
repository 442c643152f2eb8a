package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vytor/chessfeed/internal/logger"
)

var (
	logLevel  string
	logFormat string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chessfeed",
		Short:         "Chess social feed with interactive boards",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level: DEBUG, INFO, WARN, ERROR")
	root.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(newServeCmd(), newCheckCmd(), newReplayCmd())
	return root
}

func setupLogger(level, format string) *logger.Logger {
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(level)),
		logger.WithFormat(logger.ParseFormat(format)),
		logger.WithColors(logger.ParseFormat(format) == logger.TextFormat),
	)
	logger.SetDefault(log)
	return log
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// logSettings returns the log level and format, letting explicit flags win
// over the environment values.
func logSettings(cmd *cobra.Command, envLevel, envFormat string) (string, string) {
	level, format := envLevel, envFormat
	if cmd.Flags().Changed("log-level") {
		level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		format = logFormat
	}
	return level, format
}
