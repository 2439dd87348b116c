// Package models holds the people-directory records and the filter criteria applied to them.
package models

import (
	"slices"
	"time"
)

// Status is the lifecycle state of the directory: loading until the one-time fetch
// settles, then loaded for the rest of the process, even when the fetch failed.
type Status string

const (
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
)

// UserRecord is one synthetic user profile returned by the upstream directory.
// Records are never mutated after load.
type UserRecord struct {
	FirstName    string
	LastName     string
	FullName     string
	Email        string
	Nationality  string
	DateOfBirth  time.Time
	PictureURL   string
	ThumbnailURL string
}

// NewUserRecord builds a record and derives FullName the way the directory displays it.
func NewUserRecord(first, last, email, nationality string, dob time.Time, picture, thumbnail string) UserRecord {
	return UserRecord{
		FirstName:    first,
		LastName:     last,
		FullName:     first + " " + last,
		Email:        email,
		Nationality:  nationality,
		DateOfBirth:  dob,
		PictureURL:   picture,
		ThumbnailURL: thumbnail,
	}
}

// FilterCriteria is the set of user-chosen constraints. The zero value matches every record.
type FilterCriteria struct {
	Query       string
	StartDate   *time.Time
	EndDate     *time.Time
	Nationality string
}

// IsEmpty reports whether no constraint is set.
func (c FilterCriteria) IsEmpty() bool {
	return c.Query == "" && c.StartDate == nil && c.EndDate == nil && c.Nationality == ""
}

// NationalityIndex is the sorted set of distinct nationalities present in a record list.
type NationalityIndex struct {
	values []string
}

// NewNationalityIndex derives the index from records. Empty nationalities are skipped.
func NewNationalityIndex(records []UserRecord) NationalityIndex {
	seen := make(map[string]struct{}, len(records))
	values := make([]string, 0, len(records))
	for _, r := range records {
		if r.Nationality == "" {
			continue
		}
		if _, ok := seen[r.Nationality]; ok {
			continue
		}
		seen[r.Nationality] = struct{}{}
		values = append(values, r.Nationality)
	}
	slices.Sort(values)
	return NationalityIndex{values: values}
}

// Values returns a copy of the indexed nationalities in sorted order.
func (i NationalityIndex) Values() []string {
	return slices.Clone(i.values)
}

// Contains reports whether v is one of the indexed nationalities.
func (i NationalityIndex) Contains(v string) bool {
	_, found := slices.BinarySearch(i.values, v)
	return found
}

// Len returns the number of distinct nationalities.
func (i NationalityIndex) Len() int {
	return len(i.values)
}

// Snapshot is a read-only view of the directory state at a point in time.
type Snapshot struct {
	Status        Status
	Records       []UserRecord
	Nationalities NationalityIndex
	LoadedAt      time.Time
	LoadError     error
}

// Loading reports whether the one-time fetch is still in flight.
func (s Snapshot) Loading() bool {
	return s.Status == StatusLoading
}
