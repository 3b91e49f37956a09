// Package scheduler installs tinman as a recurring background job on
// the host OS scheduler: a launchd agent on macOS, a crontab entry on
// Linux. Each fired job runs a single beat (`tinman run --once`); the
// OS owns the schedule.
package scheduler

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/tinmanhq/tinman/internal/config"
)

// label identifies the launchd agent
const label = "com.tinman.heartbeat"

// cronMarker tags tinman's crontab entries so uninstall removes only ours
const cronMarker = "# tinman-heartbeat"

// plistTemplate renders the launchd agent definition
const plistTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN"
  "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
  <key>Label</key>
  <string>{{.Label}}</string>
  <key>ProgramArguments</key>
  <array>
    <string>{{.Executable}}</string>
    <string>run</string>
    <string>--config</string>
    <string>{{.ConfigPath}}</string>
    <string>--once</string>
  </array>
  <key>StartInterval</key>
  <integer>{{.IntervalSeconds}}</integer>
  <key>RunAtLoad</key>
  <true/>
  <key>StandardOutPath</key>
  <string>{{.LogDir}}/launchd.out.log</string>
  <key>StandardErrorPath</key>
  <string>{{.LogDir}}/launchd.err.log</string>
  <key>KeepAlive</key>
  <false/>
</dict>
</plist>
`

var plistTmpl = template.Must(template.New("plist").Parse(plistTemplate))

// Scheduler manages the host OS background job for one config file
type Scheduler struct {
	ConfigPath string

	// Injection points for tests
	goos       string
	executable func() (string, error)
	runCommand func(name string, stdin string, args ...string) (stdout string, err error)
}

// New creates a scheduler bound to the given config path (empty means
// the default config location).
func New(configPath string) *Scheduler {
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}
	return &Scheduler{
		ConfigPath: configPath,
		goos:       runtime.GOOS,
		executable: os.Executable,
		runCommand: runCommand,
	}
}

func runCommand(name string, stdin string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// intervalMinutes reads the beat interval from the saved config file,
// defaulting to 30 if the file is unreadable.
func (s *Scheduler) intervalMinutes() int {
	cfg, err := config.Load(s.ConfigPath)
	if err != nil || cfg.IntervalMinutes <= 0 {
		return 30
	}
	return cfg.IntervalMinutes
}

// System names the platform scheduler in user-facing messages
func (s *Scheduler) System() string {
	switch s.goos {
	case "darwin":
		return "launchd"
	case "linux":
		return "cron"
	default:
		return s.goos
	}
}

// Install registers the recurring job with the platform scheduler
func (s *Scheduler) Install() error {
	switch s.goos {
	case "darwin":
		return s.installLaunchd()
	case "linux":
		return s.installCron()
	default:
		return fmt.Errorf("unsupported platform %q: run manually with `tinman run --loop`", s.goos)
	}
}

// Uninstall removes the recurring job. Removing a job that was never
// installed is not an error.
func (s *Scheduler) Uninstall() error {
	switch s.goos {
	case "darwin":
		return s.uninstallLaunchd()
	case "linux":
		return s.uninstallCron()
	default:
		return nil
	}
}

// Status reports whether the job is installed
func (s *Scheduler) Status() string {
	switch s.goos {
	case "darwin":
		out, err := s.runCommand("launchctl", "", "list", label)
		if err != nil {
			return "not installed"
		}
		return fmt.Sprintf("installed (launchd)\n%s", strings.TrimSpace(out))
	case "linux":
		out, err := s.runCommand("crontab", "", "-l")
		if err == nil && strings.Contains(out, cronMarker) {
			return "installed (cron)"
		}
		return "not installed"
	default:
		return "unknown platform"
	}
}

// ── launchd ──

func (s *Scheduler) plistPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Library", "LaunchAgents", label+".plist")
}

// renderPlist produces the launchd agent definition text
func renderPlist(executable, configPath, logDir string, intervalSeconds int) (string, error) {
	var b bytes.Buffer
	err := plistTmpl.Execute(&b, struct {
		Label           string
		Executable      string
		ConfigPath      string
		LogDir          string
		IntervalSeconds int
	}{label, executable, configPath, logDir, intervalSeconds})
	if err != nil {
		return "", fmt.Errorf("rendering plist: %w", err)
	}
	return b.String(), nil
}

func (s *Scheduler) installLaunchd() error {
	exe, err := s.executable()
	if err != nil {
		return fmt.Errorf("locating tinman executable: %w", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locating home directory: %w", err)
	}
	logDir := filepath.Join(home, ".tinman")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	plist, err := renderPlist(exe, s.ConfigPath, logDir, s.intervalMinutes()*60)
	if err != nil {
		return err
	}

	p := s.plistPath()
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("creating LaunchAgents directory: %w", err)
	}
	if err := os.WriteFile(p, []byte(plist), 0o644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}

	// Unload first in case an older agent is already loaded
	_, _ = s.runCommand("launchctl", "", "unload", p)
	if _, err := s.runCommand("launchctl", "", "load", p); err != nil {
		return fmt.Errorf("launchctl load: %w", err)
	}
	return nil
}

func (s *Scheduler) uninstallLaunchd() error {
	p := s.plistPath()
	if _, err := os.Stat(p); os.IsNotExist(err) {
		return nil
	}
	_, _ = s.runCommand("launchctl", "", "unload", p)
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing plist: %w", err)
	}
	return nil
}

// ── cron ──

// cronLine renders tinman's crontab entry
func cronLine(executable, configPath string, intervalMinutes int) string {
	expr := fmt.Sprintf("*/%d * * * *", intervalMinutes)
	if intervalMinutes == 60 {
		expr = "0 * * * *"
	}
	return fmt.Sprintf("%s %s run --config %s --once  %s", expr, executable, configPath, cronMarker)
}

// stripCronEntries removes tinman's marker lines from an existing
// crontab. All other lines, blank ones included, pass through verbatim
// so a rewrite never reshuffles the user's spacing.
func stripCronEntries(crontab string) []string {
	lines := strings.Split(crontab, "\n")
	// Split leaves a trailing empty element when the crontab ends in \n
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	var kept []string
	for _, line := range lines {
		if strings.Contains(line, cronMarker) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

func (s *Scheduler) installCron() error {
	exe, err := s.executable()
	if err != nil {
		return fmt.Errorf("locating tinman executable: %w", err)
	}

	// A missing crontab is fine; start from empty
	existing, _ := s.runCommand("crontab", "", "-l")

	lines := stripCronEntries(existing)
	lines = append(lines, cronLine(exe, s.ConfigPath, s.intervalMinutes()))

	if _, err := s.runCommand("crontab", strings.Join(lines, "\n")+"\n", "-"); err != nil {
		return fmt.Errorf("installing crontab: %w", err)
	}
	return nil
}

func (s *Scheduler) uninstallCron() error {
	existing, err := s.runCommand("crontab", "", "-l")
	if err != nil {
		return nil
	}
	lines := stripCronEntries(existing)
	if _, err := s.runCommand("crontab", strings.Join(lines, "\n")+"\n", "-"); err != nil {
		return fmt.Errorf("updating crontab: %w", err)
	}
	return nil
}
