// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate git command lifecycle events into concise messages so
// that execution feedback stays actionable for CLI users while detailed
// telemetry continues to flow through structured loggers.
package ui
