package enquiry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidStatus is returned when a status string is not one of the four lead stages.
var ErrInvalidStatus = errors.New("invalid status")

// Status is the lifecycle stage of a lead.
type Status string

const (
	StatusNotResponded Status = "not_responded"
	StatusContacted    Status = "contacted"
	StatusInterested   Status = "interested"
	StatusConverted    Status = "converted"
)

// Statuses returns every status in display order.
func Statuses() []Status {
	return []Status{StatusNotResponded, StatusContacted, StatusInterested, StatusConverted}
}

// ParseStatus normalises a status string. The legacy wire spelling
// "not responded" maps to StatusNotResponded.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "not_responded", "not responded", "not-responded":
		return StatusNotResponded, nil
	case "contacted":
		return StatusContacted, nil
	case "interested":
		return StatusInterested, nil
	case "converted":
		return StatusConverted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Label returns the human-facing name shown in the dashboard.
func (s Status) Label() string {
	switch s {
	case StatusNotResponded:
		return "No Response"
	case StatusContacted:
		return "Contacted"
	case StatusInterested:
		return "Interested"
	case StatusConverted:
		return "Converted"
	default:
		return string(s)
	}
}

func (s Status) String() string { return string(s) }

// Wire is the spelling the enquiries backend stores and expects in request
// bodies and query strings. It keeps the space in "not responded".
func (s Status) Wire() string {
	if s == StatusNotResponded {
		return "not responded"
	}
	return string(s)
}

// UnmarshalJSON rejects anything outside the four known stages.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// StatusFilter selects either one status or every status.
type StatusFilter string

// StatusAll disables status filtering.
const StatusAll StatusFilter = "all"

// ParseStatusFilter accepts "", "all" or any value ParseStatus accepts.
func ParseStatusFilter(s string) (StatusFilter, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" || strings.EqualFold(trimmed, string(StatusAll)) {
		return StatusAll, nil
	}
	st, err := ParseStatus(trimmed)
	if err != nil {
		return "", err
	}
	return FilterFor(st), nil
}

// FilterFor returns the filter that selects exactly st.
func FilterFor(st Status) StatusFilter {
	return StatusFilter(st)
}

// Allows reports whether a lead in status st passes the filter.
func (f StatusFilter) Allows(st Status) bool {
	return f == "" || f == StatusAll || Status(f) == st
}

// Wire is the value sent as the backend's status query parameter.
func (f StatusFilter) Wire() string {
	if f.IsAll() {
		return string(StatusAll)
	}
	return Status(f).Wire()
}

// IsAll reports whether the filter selects every status.
func (f StatusFilter) IsAll() bool {
	return f == "" || f == StatusAll
}
