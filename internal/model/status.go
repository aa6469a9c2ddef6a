package model

import "time"

// Status is the lifecycle state of a document, derived from its expiration date.
type Status string

const (
	StatusActive       Status = "Active"
	StatusExpiringSoon Status = "Expiring Soon"
	StatusExpired      Status = "Expired"
)

// StatusFilterAll is the sentinel filter value that matches every status.
const StatusFilterAll = "All"

// ExpiringSoonWindowDays is the number of remaining days (inclusive) at which
// a document is considered expiring soon.
const ExpiringSoonWindowDays = 30

// ComputeStatus derives the lifecycle status from an optional expiration date
// relative to today. A nil expiration means the document never expires.
// The comparison is calendar-day based: the expiration day itself still counts
// as expiring soon, not expired.
func ComputeStatus(expiration *time.Time, today time.Time) Status {
	if expiration == nil {
		return StatusActive
	}
	days := daysBetween(today, *expiration)
	switch {
	case days < 0:
		return StatusExpired
	case days <= ExpiringSoonWindowDays:
		return StatusExpiringSoon
	default:
		return StatusActive
	}
}

// daysBetween returns the number of whole calendar days from a to b,
// ignoring the time-of-day components.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}
