package enquiry

import (
	"strings"
	"time"
)

// Matches reports whether l passes the status, search and date predicates.
// bounded is false when the date filter resolved to no constraint.
func Matches(l Lead, c Criteria, rng Range, bounded bool) bool {
	if !c.Status.Allows(l.Status) {
		return false
	}
	if !matchesSearch(l, c.Search) {
		return false
	}
	if bounded && !rng.Contains(l.CreatedAt) {
		return false
	}
	return true
}

// matchesSearch does a case-insensitive substring match on name, email and
// project. Phone is matched as typed.
func matchesSearch(l Lead, term string) bool {
	if term == "" {
		return true
	}
	needle := strings.ToLower(term)
	return strings.Contains(strings.ToLower(l.Name), needle) ||
		strings.Contains(strings.ToLower(l.Email), needle) ||
		strings.Contains(l.Phone, term) ||
		strings.Contains(strings.ToLower(l.Project), needle)
}

// Filter returns the visible subset of leads for c, preserving input order.
// The result is a new slice and never nil.
func Filter(leads []Lead, c Criteria, now time.Time) []Lead {
	rng, bounded := ResolveRange(c.Date, now, c.Custom)

	visible := make([]Lead, 0, len(leads))
	for _, l := range leads {
		if Matches(l, c, rng, bounded) {
			visible = append(visible, l)
		}
	}
	return visible
}
