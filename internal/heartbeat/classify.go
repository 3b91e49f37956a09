package heartbeat

import (
	"strings"

	"github.com/tinmanhq/tinman/internal/types"
)

// OKMarker is the literal substring the checklist asks the assistant to
// reply with when nothing needs attention. Its presence anywhere in
// stdout is the single success heuristic.
const OKMarker = "HEARTBEAT_OK"

// classify maps one completed invocation to a terminal status.
// Inputs are the trimmed captured streams. Precedence, highest first:
//
//	fault (start failure or timeout)          -> error
//	stderr non-empty and stdout empty         -> error
//	stdout contains OKMarker                  -> ok
//	anything else                             -> alert
//
// Note the asymmetry: an assistant that exits non-zero but still prints
// to stdout lands in alert, not error. That matches observed behavior
// and keeps noisy-but-talking assistants on the needs-attention path
// rather than the fault path.
func classify(fault error, stdout, stderr string) types.Status {
	switch {
	case fault != nil:
		return types.StatusError
	case stderr != "" && stdout == "":
		return types.StatusError
	case strings.Contains(stdout, OKMarker):
		return types.StatusOK
	default:
		return types.StatusAlert
	}
}
