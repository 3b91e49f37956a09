// Package types defines the value types shared across the tinman
// heartbeat pipeline.
package types

import "time"

// Status classifies the outcome of one heartbeat cycle
type Status string

const (
	// StatusOK means the assistant replied with the success marker
	StatusOK Status = "ok"
	// StatusAlert means the assistant produced output that needs attention
	StatusAlert Status = "alert"
	// StatusError means the invocation itself failed (missing CLI, timeout,
	// or stderr with no stdout)
	StatusError Status = "error"
	// StatusSkippedEmpty means the checklist had no actionable content
	StatusSkippedEmpty Status = "skipped_empty"
	// StatusUnknown is the pre-classification placeholder. It is never
	// persisted or emitted; every result leaving the runner carries one of
	// the other four statuses.
	StatusUnknown Status = "unknown"
)

// IsValid checks if the status value is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusAlert, StatusError, StatusSkippedEmpty, StatusUnknown:
		return true
	}
	return false
}

// Terminal reports whether the status may appear in a persisted or
// emitted result.
func (s Status) Terminal() bool {
	return s.IsValid() && s != StatusUnknown
}

// Glyph returns the single-character icon used when displaying results
func (s Status) Glyph() string {
	switch s {
	case StatusOK:
		return "✓"
	case StatusAlert:
		return "⚠"
	case StatusError:
		return "✗"
	case StatusSkippedEmpty:
		return "○"
	default:
		return "?"
	}
}

// HeartbeatResult is the record produced by one heartbeat cycle.
// Field names and types are the log file's wire format: one of these per
// NDJSON line, and the payload of a remote notification.
type HeartbeatResult struct {
	Timestamp       string  `json:"timestamp"`
	Status          Status  `json:"status"`
	Output          string  `json:"output"`
	Error           string  `json:"error"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// TimestampFormat is RFC 3339 UTC with a trailing Z, second precision
const TimestampFormat = "2006-01-02T15:04:05Z"

// FormatTimestamp renders t in the wire timestamp format
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
