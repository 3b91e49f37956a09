// Package config loads and persists tinman run parameters.
//
// Configuration is resolved in priority order: an explicitly provided
// path, ./tinman.json, then ~/.tinman/config.json (YAML spellings of
// each are also accepted). A security preset supplies the baseline,
// file values overlay the preset, and TINMAN_* environment variables
// overlay everything.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all run parameters for the heartbeat pipeline.
// Treated as immutable once loaded; the runner never mutates it.
type Config struct {
	// Core timing
	IntervalMinutes int  `json:"interval_minutes" yaml:"interval_minutes"`
	RunOnStart      bool `json:"run_on_start" yaml:"run_on_start"`

	// Safety rails. These are advisory only: they shape the prompt's
	// safety prefix and are not enforced against the assistant's actual
	// behavior.
	NotifyOnly          bool `json:"notify_only" yaml:"notify_only"`
	MaxActionsPerRun    int  `json:"max_actions_per_run" yaml:"max_actions_per_run"`
	RequireConfirmation bool `json:"require_confirmation" yaml:"require_confirmation"`

	// Heartbeat log
	LogHeartbeats bool   `json:"log_heartbeats" yaml:"log_heartbeats"`
	LogFile       string `json:"log_file" yaml:"log_file"`
	MaxLogLines   int    `json:"max_log_lines" yaml:"max_log_lines"`

	// Notification channels
	NotifyStdout   bool   `json:"notify_stdout" yaml:"notify_stdout"`
	NotifyRemote   bool   `json:"notify_remote" yaml:"notify_remote"`
	RemoteEndpoint string `json:"remote_endpoint" yaml:"remote_endpoint"`

	// Checklist file (relative paths resolve against the working dir)
	HeartbeatMD string `json:"heartbeat_md" yaml:"heartbeat_md"`

	// Shell commands permitted outside notify-only mode
	AllowedCommands []string `json:"allowed_commands,omitempty" yaml:"allowed_commands,omitempty"`

	// Preset name this config was derived from (informational)
	Preset string `json:"preset" yaml:"preset"`
}

// Preset names
const (
	PresetSane     = "sane"
	PresetParanoid = "paranoid"
	PresetChaos    = "chaos"
)

// Default returns the sane-preset configuration
func Default() *Config {
	return &Config{
		IntervalMinutes:     30,
		RunOnStart:          true,
		NotifyOnly:          true,
		MaxActionsPerRun:    0,
		RequireConfirmation: true,
		LogHeartbeats:       true,
		LogFile:             "~/.tinman/heartbeat.log",
		MaxLogLines:         1000,
		NotifyStdout:        true,
		NotifyRemote:        false,
		RemoteEndpoint:      "",
		HeartbeatMD:         "HEARTBEAT.md",
		Preset:              PresetSane,
	}
}

// ApplyPreset overlays the named security preset onto c.
// Returns an error for unknown preset names.
func (c *Config) ApplyPreset(name string) error {
	switch name {
	case PresetSane:
		c.IntervalMinutes = 30
		c.NotifyOnly = true
		c.MaxActionsPerRun = 0
		c.RequireConfirmation = true
		c.MaxLogLines = 1000
	case PresetParanoid:
		c.IntervalMinutes = 15
		c.NotifyOnly = true
		c.MaxActionsPerRun = 0
		c.RequireConfirmation = true
		c.MaxLogLines = 5000
		c.AllowedCommands = []string{}
	case PresetChaos:
		// Active mode: the assistant may take actions. You've been warned.
		c.IntervalMinutes = 5
		c.NotifyOnly = false
		c.MaxActionsPerRun = 10
		c.RequireConfirmation = false
		c.MaxLogLines = 10000
	default:
		return fmt.Errorf("unknown preset: %q", name)
	}
	c.LogHeartbeats = true
	c.RunOnStart = true
	c.Preset = name
	return nil
}

// Presets lists the valid preset names
func Presets() []string {
	return []string{PresetSane, PresetParanoid, PresetChaos}
}

// Interval returns the cycle interval as a duration
func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMinutes) * time.Minute
}

// Validate checks the loaded configuration for internally inconsistent
// values. Load calls this; collaborators receiving a Config may assume
// it passed.
func (c *Config) Validate() error {
	if c.IntervalMinutes <= 0 {
		return fmt.Errorf("interval_minutes must be positive (got %d)", c.IntervalMinutes)
	}
	if c.MaxLogLines <= 0 {
		return fmt.Errorf("max_log_lines must be positive (got %d)", c.MaxLogLines)
	}
	if c.NotifyRemote && c.RemoteEndpoint == "" {
		return fmt.Errorf("notify_remote is set but remote_endpoint is empty")
	}
	if c.HeartbeatMD == "" {
		return fmt.Errorf("heartbeat_md must not be empty")
	}
	return nil
}

// DefaultConfigPath returns ~/.tinman/config.json
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tinman", "config.json")
	}
	return filepath.Join(home, ".tinman", "config.json")
}

// searchPaths returns candidate config files in priority order
func searchPaths(explicit string) []string {
	var paths []string
	if explicit != "" {
		paths = append(paths, ExpandHome(explicit))
	}
	paths = append(paths,
		"tinman.json",
		"tinman.yaml",
		"tinman.yml",
		DefaultConfigPath(),
	)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".tinman", "config.yaml"))
	}
	return paths
}

// Load resolves configuration from the first existing config file,
// overlaid with TINMAN_* environment variables. A missing file is not an
// error; the sane defaults apply.
func Load(explicit string) (*Config, error) {
	cfg := Default()

	for _, p := range searchPaths(explicit) {
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", p, err)
		}
		if err := overlayFile(cfg, p, data); err != nil {
			return nil, err
		}
		break
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayFile applies a config file on top of cfg. If the file names a
// preset, the preset is applied first so explicit file values win over
// preset values.
func overlayFile(cfg *Config, path string, data []byte) error {
	var probe struct {
		Preset string `json:"preset" yaml:"preset"`
	}
	isYAML := strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")

	if isYAML {
		if err := yaml.Unmarshal(data, &probe); err != nil {
			return fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, &probe); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if probe.Preset != "" {
		// Unknown presets in a file fall back to the current baseline
		_ = cfg.ApplyPreset(probe.Preset)
	}

	if isYAML {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing YAML config %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides overlays TINMAN_* environment variables
func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("TINMAN_INTERVAL_MINUTES"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.IntervalMinutes = n
		}
	}
	if v, ok := os.LookupEnv("TINMAN_NOTIFY_ONLY"); ok {
		cfg.NotifyOnly = parseBool(v)
	}
	if v, ok := os.LookupEnv("TINMAN_LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := os.LookupEnv("TINMAN_HEARTBEAT_MD"); ok {
		cfg.HeartbeatMD = v
	}
	if v, ok := os.LookupEnv("TINMAN_REMOTE_ENDPOINT"); ok {
		cfg.RemoteEndpoint = v
	}
	if v, ok := os.LookupEnv("TINMAN_NOTIFY_REMOTE"); ok {
		cfg.NotifyRemote = parseBool(v)
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Save writes the config as indented JSON, creating parent directories.
// An empty path writes to the default location. Returns the path written.
func (c *Config) Save(path string) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	path = ExpandHome(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// ExpandHome resolves a leading ~/ against the user's home directory
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		if path == "~" {
			return home
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
