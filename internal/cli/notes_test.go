package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotes_ShowsSpecialEnquiry(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{leads: seedLeads()})

	cmd := &NotesCommand{ID: "b2", globals: &GlobalFlags{}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)

	assert.Contains(t, out, "Ravi Kumar (ravi@example.com)")
	assert.Contains(t, out, "Project: Skyline Towers")
	assert.Contains(t, out, "Need a corner unit")
}

func TestNotes_NoMessage(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{leads: seedLeads()})

	cmd := &NotesCommand{ID: "c3", globals: &GlobalFlags{}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)
	assert.Contains(t, out, "No message")
	assert.NotContains(t, out, "Project:")
}

func TestNotes_JSON(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{leads: seedLeads()})

	cmd := &NotesCommand{ID: "b2", globals: &GlobalFlags{JSON: true}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Need a corner unit", got["specialEnquiry"])
}

func TestNotes_UnknownID(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{leads: seedLeads()})
	cmd := &NotesCommand{ID: "zz", globals: &GlobalFlags{}}
	err := cmd.run(context.Background(), e)
	assert.ErrorContains(t, err, "enquiry not found: zz")
}
