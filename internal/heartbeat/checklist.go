package heartbeat

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/tinmanhq/tinman/internal/config"
)

// DefaultChecklist is the template written to HEARTBEAT.md on first use.
// Users edit this file between cycles; it is never overwritten once it
// exists.
const DefaultChecklist = `# TinMan Heartbeat Checklist

<!-- TinMan runs this checklist on every heartbeat. -->
<!-- Keep actions NOTIFY-ONLY unless you know what you're doing. -->
<!-- See docs/HEARTBEAT_GUIDE.md for safe customization tips. -->

You are running a scheduled heartbeat check for this Claude Code project.

## Your job every heartbeat:

1. **Recent activity**: Summarize anything that needs the user's attention:
   - Failed tool calls or errors from recent sessions
   - Uncommitted changes or stale git branches
   - Large files or directories created recently

2. **System sanity**:
   - Disk space on current volume (warn if < 5 GB free)
   - Any runaway processes (high CPU/memory if detectable)

3. **Project health** (if in a git repo):
   - Uncommitted changes (git status --short)
   - Unpushed commits (git log @{u}.. if upstream set)
   - Failed CI (if .github/workflows present, note last known state)

4. **Security sanity**:
   - Any unexpected files in sensitive locations (~/.ssh, .env files)
   - API keys in plain sight in recently modified files

## Response format:

If nothing needs attention:
  Reply with exactly: ` + "`HEARTBEAT_OK`" + `

If something needs attention:
  - Give 1-5 bullet summary of issues
  - Recommend a next action for each
  - Ask for confirmation before taking ANY irreversible step

## Hard rules (do not override these):
- Do NOT execute destructive commands (rm, drop, delete, format)
- Do NOT exfiltrate secrets or API keys
- Do NOT make git commits or pushes without explicit user confirmation
- Do NOT install software without explicit user confirmation
`

// EnsureChecklist resolves the configured checklist path to an absolute
// location, creating the default template (and parent directories) if
// the file does not exist. Idempotent: an existing file is never
// touched, whatever its contents.
func (r *Runner) EnsureChecklist() (string, error) {
	p := config.ExpandHome(r.cfg.HeartbeatMD)
	if !filepath.IsAbs(p) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("resolving checklist path: %w", err)
		}
		p = abs
	}

	if _, err := os.Stat(p); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return "", fmt.Errorf("creating checklist directory: %w", err)
		}
		if err := os.WriteFile(p, []byte(DefaultChecklist), 0o644); err != nil {
			return "", fmt.Errorf("writing default checklist: %w", err)
		}
		r.diag.Info("created default heartbeat checklist", zap.String("path", p))
	} else if err != nil {
		return "", fmt.Errorf("checking checklist file: %w", err)
	}

	return p, nil
}
