// Package filter derives the visible subset of directory records from filter criteria.
// Apply is pure and keeps no state between calls.
package filter

import (
	"time"

	"userdir/internal/directory/models"
	s "userdir/pkg/string"
)

// Apply returns the records that match every active criterion, preserving input order.
// A record is visible iff (name matches OR email matches) AND its date of birth is in
// range AND its nationality matches. now bounds the range when no end date is set.
func Apply(records []models.UserRecord, c models.FilterCriteria, now time.Time) []models.UserRecord {
	start, end, endInclusive := bounds(c, now)

	visible := make([]models.UserRecord, 0, len(records))
	for _, r := range records {
		if !matchesText(r, c.Query) {
			continue
		}
		if !inRange(r.DateOfBirth, start, end, endInclusive) {
			continue
		}
		if c.Nationality != "" && r.Nationality != c.Nationality {
			continue
		}
		visible = append(visible, r)
	}
	return visible
}

func matchesText(r models.UserRecord, query string) bool {
	return s.FoldContains(r.FullName, query) || s.FoldContains(r.Email, query)
}

// bounds resolves the date window. Explicit dates are calendar days in UTC: the start
// day begins at midnight and the end day is covered in full, so the end is exclusive
// at the following midnight. Without an end date the window closes at now, inclusive.
func bounds(c models.FilterCriteria, now time.Time) (start, end time.Time, endInclusive bool) {
	if c.StartDate != nil {
		start = startOfDay(*c.StartDate)
	}
	if c.EndDate != nil {
		return start, startOfDay(*c.EndDate).AddDate(0, 0, 1), false
	}
	return start, now, true
}

func inRange(dob, start, end time.Time, endInclusive bool) bool {
	if !start.IsZero() && dob.Before(start) {
		return false
	}
	if endInclusive {
		return !dob.After(end)
	}
	return dob.Before(end)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
