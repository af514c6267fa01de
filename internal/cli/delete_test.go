package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/enquiry-desk/internal/client"
)

func TestDelete_ConfirmYes(t *testing.T) {
	api := &fakeAPI{leads: seedLeads()}
	e := newTestEnv(t, api)
	e.in = strings.NewReader("y\n")

	cmd := &DeleteCommand{ID: "b2", globals: &GlobalFlags{}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)

	assert.Contains(t, out, "Are you sure you want to delete this enquiry?")
	assert.Contains(t, out, "Deleted enquiry b2.")
	assert.Contains(t, out, "Total: 3")
	assert.Equal(t, []string{"b2"}, api.deleteCalls)
}

func TestDelete_ConfirmNoAborts(t *testing.T) {
	api := &fakeAPI{leads: seedLeads()}
	e := newTestEnv(t, api)
	e.in = strings.NewReader("n\n")

	cmd := &DeleteCommand{ID: "b2", globals: &GlobalFlags{}}
	var err error
	captureOutput(t, func() { err = cmd.run(context.Background(), e) })

	require.Error(t, err)
	assert.Contains(t, err.Error(), "aborted")
	assert.Empty(t, api.deleteCalls)
	assert.Empty(t, api.listCalls)
}

func TestDelete_ForceSkipsPrompt(t *testing.T) {
	api := &fakeAPI{leads: seedLeads()}
	e := newTestEnv(t, api)

	cmd := &DeleteCommand{ID: "a1", Force: true, globals: &GlobalFlags{}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)
	assert.NotContains(t, out, "Are you sure")
}

func TestDelete_FailureStillRefetches(t *testing.T) {
	api := &fakeAPI{leads: seedLeads()}
	e := newTestEnv(t, api)

	cmd := &DeleteCommand{ID: "missing", Force: true, globals: &GlobalFlags{}}
	var err error
	captureOutput(t, func() { err = cmd.run(context.Background(), e) })

	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.Len(t, api.listCalls, 1)
}
