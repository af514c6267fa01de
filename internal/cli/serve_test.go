package cli

import (
	"context"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_StartsAndStopsOnCancel(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{})
	seedStore(t, e)
	e.cfg.Server.Port = 0

	ctx, cancel := context.WithCancel(context.Background())
	cmd := &ServeCommand{Host: "127.0.0.1", globals: &GlobalFlags{}, version: "test"}

	var err error
	out := captureOutput(t, func() {
		done := make(chan error, 1)
		go func() { done <- cmd.run(ctx, e) }()

		// Give the listener a moment, then stop.
		time.Sleep(200 * time.Millisecond)
		cancel()
		err = <-done
	})
	require.NoError(t, err)

	m := regexp.MustCompile(`listening on (http://127\.0\.0\.1:\d+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, "output: %s", out)
}

func TestServe_ServesStoredEnquiries(t *testing.T) {
	e := newTestEnv(t, &fakeAPI{})
	seedStore(t, e)
	e.cfg.Server.Port = 0
	e.cfg.Server.AuthToken = "s3cret"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cmd := &ServeCommand{globals: &GlobalFlags{}, version: "test"}

	done := make(chan error, 1)
	out := captureOutput(t, func() {
		go func() { done <- cmd.run(ctx, e) }()
		time.Sleep(200 * time.Millisecond)
	})

	m := regexp.MustCompile(`listening on (http://[^ ]+)`).FindStringSubmatch(out)
	require.Len(t, m, 2, "output: %s", out)

	req, err := http.NewRequest(http.MethodGet, m[1]+"/api/project-enquiries/all", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer s3cret")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	assert.NoError(t, <-done)
}
