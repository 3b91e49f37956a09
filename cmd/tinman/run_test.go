package main

import (
	"testing"

	"github.com/tinmanhq/tinman/internal/types"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		status types.Status
		want   int
	}{
		{types.StatusOK, 0},
		{types.StatusSkippedEmpty, 0},
		{types.StatusAlert, 1},
		{types.StatusError, 1},
		{types.StatusUnknown, 1},
	}
	for _, tt := range tests {
		if got := exitCode(tt.status); got != tt.want {
			t.Errorf("exitCode(%s) = %d, want %d", tt.status, got, tt.want)
		}
	}
}
