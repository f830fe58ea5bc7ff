// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logging configures structured logging for the exporter.
// Logs are written to stderr as JSON so that rendered output on stdout
// stays machine-readable. The LOG_LEVEL environment variable controls
// verbosity (debug, info, warn, error); the default is info.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

const levelEnv = "LOG_LEVEL"

// SetDefault installs a JSON slog logger as the process default,
// annotated with the supplied module name and version.
func SetDefault(module, version string) {
	lvl := ParseLevel(os.Getenv(levelEnv))
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug,
	})
	logger := slog.New(h).With(
		slog.String("module", module),
		slog.String("version", version),
	)
	slog.SetDefault(logger)
}

// ParseLevel converts a level string to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
