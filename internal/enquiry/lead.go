package enquiry

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Lead is a project enquiry submitted through the landing page.
type Lead struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Project        string    `json:"project,omitempty"`
	SpecialEnquiry string    `json:"specialEnquiry,omitempty"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
}

// UnmarshalJSON accepts the document-store key "_id" in place of "id".
func (l *Lead) UnmarshalJSON(data []byte) error {
	type plain Lead
	aux := struct {
		*plain
		DocID string `json:"_id"`
	}{plain: (*plain)(l)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if l.ID == "" {
		l.ID = aux.DocID
	}
	return nil
}

// HasNote reports whether the lead carries a free-text special enquiry.
func (l Lead) HasNote() bool {
	return l.SpecialEnquiry != ""
}

// Criteria is the set of dashboard filters applied to a loaded collection.
type Criteria struct {
	Status StatusFilter
	Search string
	Date   DateFilter
	Custom CustomRange
}

// ErrInvalidSubmission is returned when a landing-page submission is
// missing the fields needed to follow up.
var ErrInvalidSubmission = errors.New("invalid submission")

// Submission is the landing-page enquiry form.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Project        string `json:"project,omitempty"`
	SpecialEnquiry string `json:"specialEnquiry,omitempty"`
}

// Validate requires a name and at least one way to reach the visitor.
func (s Submission) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidSubmission)
	}
	if strings.TrimSpace(s.Email) == "" && strings.TrimSpace(s.Phone) == "" {
		return fmt.Errorf("%w: email or phone is required", ErrInvalidSubmission)
	}
	return nil
}

// Lead builds the stored record for a new submission. New enquiries always
// start as not responded.
func (s Submission) Lead(now time.Time) Lead {
	return Lead{
		Name:           strings.TrimSpace(s.Name),
		Email:          strings.TrimSpace(s.Email),
		Phone:          strings.TrimSpace(s.Phone),
		Project:        strings.TrimSpace(s.Project),
		SpecialEnquiry: strings.TrimSpace(s.SpecialEnquiry),
		Status:         StatusNotResponded,
		CreatedAt:      now,
	}
}
