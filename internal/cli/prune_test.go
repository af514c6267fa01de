package cli

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

func seedStore(t *testing.T, e *env) {
	t.Helper()
	for _, l := range seedLeads() {
		l := l
		require.NoError(t, e.store.AddLead(context.Background(), &l))
	}
}

func TestPrune_DeletesOlderThanCutoff(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{})
	seedStore(t, e)

	cmd := &PruneCommand{OlderThan: "30d", globals: &GlobalFlags{}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)
	assert.Contains(t, out, "Pruned 1 enquiries older than 30 days.")

	leads, err := e.store.ListLeads(context.Background(), enquiry.StatusAll)
	require.NoError(t, err)
	assert.Len(t, leads, 3)
}

func TestPrune_DryRun(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{})
	seedStore(t, e)

	cmd := &PruneCommand{OlderThan: "2w", DryRun: true, globals: &GlobalFlags{JSON: true}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["dry_run"])
	assert.Equal(t, float64(2), got["count"])
	assert.Equal(t, "2024-02-28T14:30:00Z", got["cutoff"])

	leads, err := e.store.ListLeads(context.Background(), enquiry.StatusAll)
	require.NoError(t, err)
	assert.Len(t, leads, 4, "dry run deletes nothing")
}

func TestPrune_InvalidDuration(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{})
	cmd := &PruneCommand{OlderThan: "soon", globals: &GlobalFlags{}}
	err := cmd.run(context.Background(), e)
	assert.ErrorContains(t, err, "invalid --older-than value")
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"30d", 30 * 24 * time.Hour, true},
		{"24h", 24 * time.Hour, true},
		{"2w", 14 * 24 * time.Hour, true},
		{"15m", 15 * time.Minute, true},
		{"", 0, false},
		{"d", 0, false},
		{"10y", 0, false},
		{"-3d", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDuration(tt.in)
			if !tt.ok {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "1 day", formatDurationHuman(24*time.Hour))
	assert.Equal(t, "30 days", formatDurationHuman(30*24*time.Hour))
	assert.Equal(t, "5 hours", formatDurationHuman(5*time.Hour))
	assert.Equal(t, "999", formatNumber(999))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
}
