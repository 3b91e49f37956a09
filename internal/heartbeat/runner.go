// Package heartbeat drives the tinman execution cycle: read the
// checklist, invoke the assistant CLI under a deadline, classify the
// outcome, persist it, and fan it out to notification sinks.
package heartbeat

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"strings"
	"time"

	sdd "github.com/coreos/go-systemd/v22/daemon"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tinmanhq/tinman/internal/beatlog"
	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/notify"
	"github.com/tinmanhq/tinman/internal/types"
)

// skippedEmptyMessage is the fixed output for a whitespace-only checklist
const skippedEmptyMessage = "HEARTBEAT.md is empty - skipping run. Add checklist items to enable."

// notFoundMessage is the fixed error when the assistant CLI is not on PATH
const notFoundMessage = "claude CLI not found. Install Claude Code: https://claude.ai/code"

// promptSeparator joins the safety prefix and the checklist body
const promptSeparator = "\n\n---\n\n"

// Runner executes heartbeat cycles. Exactly one cycle runs at a time:
// RunLoop is strictly serial and RunBeat is not safe for concurrent use
// (the beat log has no file locking).
type Runner struct {
	cfg        *config.Config
	log        *beatlog.Logger
	dispatcher *notify.Dispatcher
	diag       *zap.Logger
	instanceID string

	// Injection points for tests
	invoker  Invoker
	lookPath func(file string) (string, error)
	now      func() time.Time
}

// New wires a runner from config: beat log, enabled sinks (console
// first, then remote), and the CLI invoker. diag may be nil.
func New(cfg *config.Config, diag *zap.Logger) *Runner {
	if diag == nil {
		diag = zap.NewNop()
	}

	var sinks []notify.Sink
	if cfg.NotifyStdout {
		sinks = append(sinks, notify.NewConsoleSink())
	}
	if cfg.NotifyRemote && cfg.RemoteEndpoint != "" {
		sinks = append(sinks, notify.NewRemoteSink(cfg.RemoteEndpoint))
	}

	return &Runner{
		cfg:        cfg,
		log:        beatlog.New(cfg, diag),
		dispatcher: notify.NewDispatcher(diag, sinks...),
		diag:       diag,
		instanceID: uuid.New().String(),
		invoker:    NewCLIInvoker(),
		lookPath:   exec.LookPath,
		now:        time.Now,
	}
}

// Log exposes the runner's beat log (used by the status and logs commands)
func (r *Runner) Log() *beatlog.Logger {
	return r.log
}

// RunBeat executes exactly one heartbeat cycle and returns its result.
// It never panics past this boundary: invocation faults become
// error-status results. Every exit path persists and emits the result
// exactly once.
func (r *Runner) RunBeat(ctx context.Context) *types.HeartbeatResult {
	result := &types.HeartbeatResult{
		Timestamp: types.FormatTimestamp(r.now()),
		Status:    types.StatusUnknown,
	}

	checklistPath, err := r.EnsureChecklist()
	if err != nil {
		result.Status = types.StatusError
		result.Error = err.Error()
		return r.finish(result)
	}

	checklist, err := os.ReadFile(checklistPath)
	if err != nil {
		result.Status = types.StatusError
		result.Error = fmt.Sprintf("reading checklist: %v", err)
		return r.finish(result)
	}

	if strings.TrimSpace(string(checklist)) == "" {
		result.Status = types.StatusSkippedEmpty
		result.Output = skippedEmptyMessage
		return r.finish(result)
	}

	bin, err := r.lookPath(claudeBin)
	if err != nil {
		result.Status = types.StatusError
		result.Error = notFoundMessage
		return r.finish(result)
	}

	prompt := buildPrompt(r.safetyPrefix(), string(checklist))

	start := r.now()
	stdout, stderr, fault := r.invoker.Invoke(ctx, bin, prompt)
	result.DurationSeconds = roundSeconds(r.now().Sub(start))

	outTrim := strings.TrimSpace(stdout)
	errTrim := strings.TrimSpace(stderr)
	result.Output = outTrim
	result.Error = errTrim
	result.Status = classify(fault, outTrim, errTrim)
	if fault != nil {
		result.Error = fault.Error()
	}

	return r.finish(result)
}

// finish persists and emits the result, always in that order. Beat-log
// failures are diagnostics only; they never alter the result.
func (r *Runner) finish(result *types.HeartbeatResult) *types.HeartbeatResult {
	if err := r.log.Log(result); err != nil {
		r.diag.Warn("failed to persist heartbeat result", zap.Error(err))
	}
	r.dispatcher.Emit(result)
	return result
}

// safetyPrefix builds the advisory banner injected ahead of the
// checklist. With no safety rails configured (chaos mode) the prefix is
// the empty string and the prompt carries no banner.
func (r *Runner) safetyPrefix() string {
	var mode []string
	if r.cfg.NotifyOnly {
		mode = append(mode, "NOTIFY-ONLY MODE: Do not execute any commands or take autonomous actions.")
	}
	if r.cfg.MaxActionsPerRun == 0 {
		mode = append(mode, "You may not run shell commands in this heartbeat.")
	}
	if r.cfg.RequireConfirmation {
		mode = append(mode, "If action is needed, describe it and ask for confirmation. Do not proceed.")
	}

	if len(mode) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("=== TinMan Safety Rules (enforced by config) ===")
	for _, m := range mode {
		b.WriteString("\n- ")
		b.WriteString(m)
	}
	return b.String()
}

func buildPrompt(prefix, checklist string) string {
	return prefix + promptSeparator + checklist
}

// roundSeconds converts a wall-clock duration to seconds with two
// decimal places, keeping logged values stable across round-trips.
func roundSeconds(d time.Duration) float64 {
	if d < 0 {
		d = 0
	}
	return math.Round(d.Seconds()*100) / 100
}

// RunLoop runs beats on schedule until ctx is cancelled. Strictly
// serial: the interval sleep always follows completion of the previous
// beat. Under systemd it raises READY/STOPPING notifications; elsewhere
// the calls are no-ops.
func (r *Runner) RunLoop(ctx context.Context) {
	_, _ = sdd.SdNotify(false, sdd.SdNotifyReady)
	r.diag.Info("heartbeat loop started",
		zap.String("instance_id", r.instanceID),
		zap.Duration("interval", r.cfg.Interval()),
		zap.Bool("notify_only", r.cfg.NotifyOnly))

	if r.cfg.RunOnStart {
		r.RunBeat(ctx)
	}

	timer := time.NewTimer(r.cfg.Interval())
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			_, _ = sdd.SdNotify(false, sdd.SdNotifyStopping)
			r.diag.Info("heartbeat loop stopped", zap.String("instance_id", r.instanceID))
			return
		case <-timer.C:
			r.RunBeat(ctx)
			timer.Reset(r.cfg.Interval())
		}
	}
}
