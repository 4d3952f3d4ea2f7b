// Package logging builds the slog loggers used by the inkwell server and CLI.
//
// Text output is meant for a terminal and is colorized when the writer
// supports it. JSON output is meant for log collectors.
//
//	logger := logging.New(logging.Config{
//		Level:  slog.LevelInfo,
//		Format: logging.FormatText,
//	})
//	logger.Info("listening", "addr", ":8080")
//
// Tests should use [ForTest] so that log lines show up next to failures.
package logging
