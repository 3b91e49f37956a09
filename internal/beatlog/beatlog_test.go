package beatlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.LogFile = filepath.Join(t.TempDir(), "heartbeat.log")
	cfg.MaxLogLines = 3
	return cfg
}

func result(i int) *types.HeartbeatResult {
	return &types.HeartbeatResult{
		Timestamp:       fmt.Sprintf("2025-06-01T00:00:%02dZ", i),
		Status:          types.StatusOK,
		Output:          fmt.Sprintf("beat %d", i),
		DurationSeconds: 1.25,
	}
}

func TestDisabledNeverTouchesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogHeartbeats = false
	log := New(cfg, nil)

	require.NoError(t, log.Log(result(1)))

	_, err := os.Stat(cfg.LogFile)
	assert.True(t, os.IsNotExist(err), "log file should not exist")
}

func TestRotationKeepsNewest(t *testing.T) {
	cfg := testConfig(t)
	log := New(cfg, nil)

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Log(result(i)))
	}

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)

	entries, err := log.Tail(10)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, fmt.Sprintf("beat %d", i+2), e.Output)
	}
}

func TestFewerThanCapIsUntrimmed(t *testing.T) {
	cfg := testConfig(t)
	log := New(cfg, nil)

	require.NoError(t, log.Log(result(0)))
	require.NoError(t, log.Log(result(1)))

	entries, err := log.Tail(10)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestTailMissingFile(t *testing.T) {
	log := New(testConfig(t), nil)

	entries, err := log.Tail(5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestTailSkipsMalformedLines(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxLogLines = 10
	log := New(cfg, nil)

	require.NoError(t, log.Log(result(0)))
	f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	_, err = f.WriteString("{corrupt\n\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, log.Log(result(1)))

	entries, err := log.Tail(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "beat 0", entries[0].Output)
	assert.Equal(t, "beat 1", entries[1].Output)
}

func TestTailLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxLogLines = 10
	log := New(cfg, nil)

	for i := 0; i < 6; i++ {
		require.NoError(t, log.Log(result(i)))
	}

	entries, err := log.Tail(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "beat 4", entries[0].Output)
	assert.Equal(t, "beat 5", entries[1].Output)
}

func TestTailNonPositiveCount(t *testing.T) {
	cfg := testConfig(t)
	log := New(cfg, nil)
	require.NoError(t, log.Log(result(0)))

	for _, n := range []int{0, -1, -100} {
		entries, err := log.Tail(n)
		require.NoError(t, err)
		assert.Empty(t, entries, "Tail(%d) should return nothing", n)
	}
}

func TestRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	log := New(cfg, nil)

	in := &types.HeartbeatResult{
		Timestamp:       "2025-06-01T12:34:56Z",
		Status:          types.StatusAlert,
		Output:          "- Disk space low\n- 3 uncommitted files",
		Error:           "some stderr noise",
		DurationSeconds: 42.13,
	}
	require.NoError(t, log.Log(in))

	entries, err := log.Tail(1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, *in, entries[0])
}
