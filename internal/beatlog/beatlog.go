// Package beatlog persists heartbeat results as a bounded, append-only
// NDJSON file: one JSON object per line, oldest first, trimmed to a
// configured maximum line count after every append.
package beatlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/types"
)

// Logger owns the heartbeat log file. It is the only writer; the file
// has no cross-process locking, so at most one runner should use a
// given path at a time.
type Logger struct {
	enabled  bool
	path     string
	maxLines int
	diag     *zap.Logger
}

// New creates a logger for the config's log file. diag may be nil.
func New(cfg *config.Config, diag *zap.Logger) *Logger {
	if diag == nil {
		diag = zap.NewNop()
	}
	return &Logger{
		enabled:  cfg.LogHeartbeats,
		path:     config.ExpandHome(cfg.LogFile),
		maxLines: cfg.MaxLogLines,
		diag:     diag,
	}
}

// Path returns the resolved log file location
func (l *Logger) Path() string {
	return l.path
}

// Log appends one result as a JSON line, then trims the file to the
// configured cap. A no-op when logging is disabled: the file is never
// created or touched. Rotation failures are discarded by contract
// (logging is a best-effort side channel); they are surfaced only on the
// diagnostic logger.
func (l *Logger) Log(result *types.HeartbeatResult) error {
	if !l.enabled {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	_, werr := f.Write(append(data, '\n'))
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("appending to log file: %w", werr)
	}
	if cerr != nil {
		return fmt.Errorf("closing log file: %w", cerr)
	}

	if err := l.rotate(); err != nil {
		l.diag.Warn("log rotation failed", zap.String("path", l.path), zap.Error(err))
	}
	return nil
}

// rotate trims the log to the newest maxLines lines. The returned error
// exists to make the best-effort contract visible; Log discards it.
func (l *Logger) rotate() error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return err
	}

	lines := strings.SplitAfter(string(data), "\n")
	// SplitAfter leaves a trailing empty element when the file ends in \n
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	if len(lines) <= l.maxLines {
		return nil
	}

	keep := lines[len(lines)-l.maxLines:]
	return os.WriteFile(l.path, []byte(strings.Join(keep, "")), 0o644)
}

// Tail returns up to the last n entries, oldest first. A missing file
// or a non-positive n yields an empty slice. Lines that fail to decode
// are skipped and do not count toward n.
func (l *Logger) Tail(n int) ([]types.HeartbeatResult, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	var entries []types.HeartbeatResult
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r types.HeartbeatResult
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			l.diag.Debug("skipping malformed log line", zap.Error(err))
			continue
		}
		entries = append(entries, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading log file: %w", err)
	}

	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries, nil
}
