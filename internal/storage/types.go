package storage

import (
	"errors"
	"time"

	"github.com/runnerr0/enquiry-desk/internal/enquiry"
)

// ErrNotFound is returned when no enquiry matches the requested ID.
var ErrNotFound = errors.New("enquiry not found")

// Snapshot is the last collection fetched from the backend for one status
// filter, kept so the dashboard can still show stale data when a fetch fails.
type Snapshot struct {
	Filter    enquiry.StatusFilter
	Leads     []enquiry.Lead
	Stats     *enquiry.Stats
	FetchedAt time.Time
}

// AuditEntry records a change made to an enquiry.
type AuditEntry struct {
	Action    string
	Detail    string
	EnquiryID string
	Timestamp time.Time
}
