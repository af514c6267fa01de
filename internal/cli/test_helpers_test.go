package cli

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/enquiry-desk/internal/client"
	"github.com/runnerr0/enquiry-desk/internal/config"
	"github.com/runnerr0/enquiry-desk/internal/enquiry"
	"github.com/runnerr0/enquiry-desk/internal/logging"
	"github.com/runnerr0/enquiry-desk/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// wednesday is the fixed clock for CLI tests: 2024-03-13 14:30 UTC.
var wednesday = time.Date(2024, time.March, 13, 14, 30, 0, 0, time.UTC)

var errBackendDown = errors.New("dial tcp 127.0.0.1:8722: connection refused")

// fakeAPI is an in-memory backend that records calls.
type fakeAPI struct {
	leads     []enquiry.Lead
	stats     *enquiry.Stats
	listErr   error
	updateErr error
	deleteErr error

	listCalls   []enquiry.StatusFilter
	updateCalls []string
	deleteCalls []string
	submitted   []enquiry.Submission
}

func (f *fakeAPI) List(ctx context.Context, filter enquiry.StatusFilter) (*client.ListResult, error) {
	f.listCalls = append(f.listCalls, filter)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []enquiry.Lead{}
	for _, l := range f.leads {
		if filter.Allows(l.Status) {
			out = append(out, l)
		}
	}
	return &client.ListResult{Leads: out, Stats: f.stats}, nil
}

func (f *fakeAPI) UpdateStatus(ctx context.Context, id string, status enquiry.Status) error {
	f.updateCalls = append(f.updateCalls, id+"="+string(status))
	if f.updateErr != nil {
		return f.updateErr
	}
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads[i].Status = status
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeAPI) Delete(ctx context.Context, id string) error {
	f.deleteCalls = append(f.deleteCalls, id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.leads {
		if f.leads[i].ID == id {
			f.leads = append(f.leads[:i], f.leads[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (f *fakeAPI) Submit(ctx context.Context, sub enquiry.Submission) (*enquiry.Lead, error) {
	if err := sub.Validate(); err != nil {
		return nil, err
	}
	f.submitted = append(f.submitted, sub)
	l := sub.Lead(wednesday)
	l.ID = "new-1"
	f.leads = append(f.leads, l)
	return &l, nil
}

// seedLeads returns one lead per status spread over the test week.
func seedLeads() []enquiry.Lead {
	return []enquiry.Lead{
		{ID: "a1", Name: "Asha Rao", Email: "asha@example.com", Phone: "98765 43210", Project: "Palm Grove", Status: enquiry.StatusContacted, CreatedAt: time.Date(2024, time.March, 13, 9, 0, 0, 0, time.UTC)},
		{ID: "b2", Name: "Ravi Kumar", Email: "ravi@example.com", Phone: "91234 56789", Project: "Skyline Towers", SpecialEnquiry: "Need a corner unit", Status: enquiry.StatusInterested, CreatedAt: time.Date(2024, time.March, 11, 18, 0, 0, 0, time.UTC)},
		{ID: "c3", Name: "Meera Iyer", Email: "meera@example.com", Phone: "90000 11111", Status: enquiry.StatusConverted, CreatedAt: time.Date(2024, time.February, 20, 10, 0, 0, 0, time.UTC)},
		{ID: "d4", Name: "Kiran Shah", Email: "kiran@example.com", Phone: "95600 02261", Project: "Palm Grove", Status: enquiry.StatusNotResponded, CreatedAt: time.Date(2023, time.December, 31, 23, 0, 0, 0, time.UTC)},
	}
}

// openTestStore creates a migrated in-memory Store for testing.
func openTestStore(t *testing.T) *storage.SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, storage.NewMigrationRunner(db).Run())

	store, err := storage.NewSQLiteStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// newTestEnv wires a fake backend and an in-memory store with a fixed clock.
func newTestEnv(t *testing.T, api *fakeAPI) *env {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Export.Dir = t.TempDir()
	return &env{
		cfg:   cfg,
		log:   logging.Discard(),
		api:   api,
		store: openTestStore(t),
		loc:   time.UTC,
		now:   func() time.Time { return wednesday },
		in:    strings.NewReader(""),
	}
}
