package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsSane(t *testing.T) {
	cfg := Default()

	assert.Equal(t, PresetSane, cfg.Preset)
	assert.Equal(t, 30, cfg.IntervalMinutes)
	assert.True(t, cfg.NotifyOnly)
	assert.True(t, cfg.RequireConfirmation)
	assert.Equal(t, 0, cfg.MaxActionsPerRun)
	assert.True(t, cfg.LogHeartbeats)
	assert.Equal(t, 1000, cfg.MaxLogLines)
	assert.NoError(t, cfg.Validate())
}

func TestApplyPreset(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.ApplyPreset(PresetParanoid))
	assert.Equal(t, 15, cfg.IntervalMinutes)
	assert.True(t, cfg.NotifyOnly)
	assert.Equal(t, 5000, cfg.MaxLogLines)

	require.NoError(t, cfg.ApplyPreset(PresetChaos))
	assert.Equal(t, 5, cfg.IntervalMinutes)
	assert.False(t, cfg.NotifyOnly)
	assert.False(t, cfg.RequireConfirmation)
	assert.Equal(t, 10, cfg.MaxActionsPerRun)

	assert.Error(t, cfg.ApplyPreset("yolo"))
}

func TestInterval(t *testing.T) {
	cfg := Default()
	cfg.IntervalMinutes = 7
	assert.Equal(t, 7*time.Minute, cfg.Interval())
}

func TestLoadExplicitJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinman.json")
	data := `{"preset": "chaos", "interval_minutes": 7, "heartbeat_md": "CHECK.md"}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	// Preset applied first, explicit file values win
	assert.Equal(t, PresetChaos, cfg.Preset)
	assert.False(t, cfg.NotifyOnly)
	assert.Equal(t, 7, cfg.IntervalMinutes)
	assert.Equal(t, "CHECK.md", cfg.HeartbeatMD)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinman.yaml")
	data := "preset: paranoid\ninterval_minutes: 11\nnotify_stdout: false\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, PresetParanoid, cfg.Preset)
	assert.Equal(t, 11, cfg.IntervalMinutes)
	assert.False(t, cfg.NotifyStdout)
	assert.True(t, cfg.NotifyOnly)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinman.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinman.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"interval_minutes": 45}`), 0o644))

	t.Setenv("TINMAN_INTERVAL_MINUTES", "3")
	t.Setenv("TINMAN_NOTIFY_ONLY", "false")
	t.Setenv("TINMAN_REMOTE_ENDPOINT", "http://localhost:7734/notify")
	t.Setenv("TINMAN_NOTIFY_REMOTE", "true")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.IntervalMinutes)
	assert.False(t, cfg.NotifyOnly)
	assert.True(t, cfg.NotifyRemote)
	assert.Equal(t, "http://localhost:7734/notify", cfg.RemoteEndpoint)
}

func TestLoadValidates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tinman.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"notify_remote": true}`), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "remote_endpoint")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.IntervalMinutes = 0
	assert.ErrorContains(t, cfg.Validate(), "interval_minutes")

	cfg = Default()
	cfg.MaxLogLines = -1
	assert.ErrorContains(t, cfg.Validate(), "max_log_lines")

	cfg = Default()
	cfg.HeartbeatMD = ""
	assert.ErrorContains(t, cfg.Validate(), "heartbeat_md")
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.json")

	cfg := Default()
	cfg.IntervalMinutes = 12
	cfg.RemoteEndpoint = "http://localhost:7734/notify"

	saved, err := cfg.Save(path)
	require.NoError(t, err)
	assert.Equal(t, path, saved)

	loaded, err := Load(saved)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
