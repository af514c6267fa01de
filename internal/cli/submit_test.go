package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

func TestSubmit_PrintsThankYou(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEnv(t, api)

	cmd := &SubmitCommand{Name: "Asha", Email: "asha@example.com", Project: "Palm Grove", globals: &GlobalFlags{}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)

	require.Len(t, api.submitted, 1)
	assert.Equal(t, "Palm Grove", api.submitted[0].Project)

	assert.Contains(t, out, "Thank You!")
	assert.Contains(t, out, "Reference: new-1")
	assert.Contains(t, out, "Chat on WhatsApp: https://wa.me/919560002261?text=Hi%2C%20I%20just%20submitted")
	assert.Contains(t, out, "Redirecting in 10 seconds")
}

func TestSubmit_UsesConfiguredContact(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{})
	e.cfg.Contact.WhatsAppNumber = "+1 (555) 010-0000"
	e.cfg.Contact.WhatsAppMessage = "Hello"
	e.cfg.Contact.RedirectSeconds = 5

	cmd := &SubmitCommand{Name: "Asha", Phone: "123", globals: &GlobalFlags{JSON: true}}
	var err error
	out := captureOutput(t, func() { err = cmd.run(context.Background(), e) })
	require.NoError(t, err)

	var got submitJSON
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "https://wa.me/15550100000?text=Hello", got.WhatsAppURL)
	assert.Equal(t, 5, got.RedirectSeconds)
	require.NotNil(t, got.Lead)
	assert.Equal(t, enquiry.StatusNotResponded, got.Lead.Status)
}

func TestSubmit_Invalid(t *testing.T) {
	api := &fakeAPI{}
	e := newTestEnv(t, api)

	cmd := &SubmitCommand{Email: "asha@example.com", globals: &GlobalFlags{}}
	err := cmd.run(context.Background(), e)
	assert.ErrorIs(t, err, enquiry.ErrInvalidSubmission)
	assert.Empty(t, api.submitted)
}
