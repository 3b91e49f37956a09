package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestStatusIsValid(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusAlert, StatusError, StatusSkippedEmpty, StatusUnknown} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("panic").IsValid() {
		t.Error("arbitrary status should be invalid")
	}
}

func TestStatusTerminal(t *testing.T) {
	if StatusUnknown.Terminal() {
		t.Error("unknown must never be a terminal status")
	}
	for _, s := range []Status{StatusOK, StatusAlert, StatusError, StatusSkippedEmpty} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	ts := FormatTimestamp(time.Date(2025, 6, 1, 4, 30, 0, 0, loc))
	if ts != "2025-06-01T12:30:00Z" {
		t.Errorf("expected UTC with trailing Z, got %s", ts)
	}
}

func TestResultWireFormat(t *testing.T) {
	r := HeartbeatResult{
		Timestamp:       "2025-06-01T12:30:00Z",
		Status:          StatusOK,
		Output:          "HEARTBEAT_OK",
		Error:           "",
		DurationSeconds: 2.5,
	}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"timestamp":"2025-06-01T12:30:00Z","status":"ok","output":"HEARTBEAT_OK","error":"","duration_seconds":2.5}`
	if string(data) != want {
		t.Errorf("wire format drifted:\n got %s\nwant %s", data, want)
	}
}
