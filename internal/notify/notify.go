// Package notify fans heartbeat results out to notification sinks.
//
// Sinks are independent: a failing sink is reported on the diagnostic
// logger and never affects the result, the other sinks, or the next
// cycle. Fan-out order is fixed: the console sink runs before the
// remote sink.
package notify

import (
	"go.uber.org/zap"

	"github.com/tinmanhq/tinman/internal/types"
)

// Sink is a notification output channel for heartbeat results
type Sink interface {
	// Name identifies the sink in diagnostics
	Name() string
	// Notify delivers one result. Errors are soft: the dispatcher logs
	// and continues.
	Notify(result *types.HeartbeatResult) error
}

// Dispatcher delivers results to an ordered list of sinks with per-sink
// failure isolation.
type Dispatcher struct {
	sinks []Sink
	diag  *zap.Logger
}

// NewDispatcher creates a dispatcher over the given sinks, invoked in
// order. diag may be nil.
func NewDispatcher(diag *zap.Logger, sinks ...Sink) *Dispatcher {
	if diag == nil {
		diag = zap.NewNop()
	}
	return &Dispatcher{sinks: sinks, diag: diag}
}

// Emit sends the result to every sink in order. Never returns an error:
// sink failures are diagnostics, not pipeline faults.
func (d *Dispatcher) Emit(result *types.HeartbeatResult) {
	for _, s := range d.sinks {
		if err := s.Notify(result); err != nil {
			d.diag.Warn("notification sink failed",
				zap.String("sink", s.Name()),
				zap.String("status", string(result.Status)),
				zap.Error(err))
		}
	}
}
