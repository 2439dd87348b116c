package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewUserRecord(t *testing.T) {
	dob := time.Date(1990, 5, 4, 0, 0, 0, 0, time.UTC)
	r := NewUserRecord("John", "Smith", "john.smith@example.com", "United States", dob, "large.jpg", "thumb.jpg")

	assert.Equal(t, "John Smith", r.FullName)
	assert.Equal(t, dob, r.DateOfBirth)
	assert.Equal(t, "large.jpg", r.PictureURL)
	assert.Equal(t, "thumb.jpg", r.ThumbnailURL)
}

func TestFilterCriteria_IsEmpty(t *testing.T) {
	now := time.Now()
	assert.True(t, FilterCriteria{}.IsEmpty())
	assert.False(t, FilterCriteria{Query: "a"}.IsEmpty())
	assert.False(t, FilterCriteria{StartDate: &now}.IsEmpty())
	assert.False(t, FilterCriteria{EndDate: &now}.IsEmpty())
	assert.False(t, FilterCriteria{Nationality: "Norway"}.IsEmpty())
}

func TestNationalityIndex(t *testing.T) {
	records := []UserRecord{
		{Nationality: "Norway"},
		{Nationality: "Brazil"},
		{Nationality: "Norway"},
		{Nationality: ""},
		{Nationality: "Canada"},
	}

	idx := NewNationalityIndex(records)

	t.Run("distinct and sorted", func(t *testing.T) {
		assert.Equal(t, []string{"Brazil", "Canada", "Norway"}, idx.Values())
		assert.Equal(t, 3, idx.Len())
	})

	t.Run("every value occurs in a record", func(t *testing.T) {
		for _, v := range idx.Values() {
			found := false
			for _, r := range records {
				if r.Nationality == v {
					found = true
					break
				}
			}
			assert.True(t, found, v)
		}
	})

	t.Run("contains", func(t *testing.T) {
		assert.True(t, idx.Contains("Canada"))
		assert.False(t, idx.Contains("Germany"))
		assert.False(t, idx.Contains(""))
	})

	t.Run("values are a copy", func(t *testing.T) {
		v := idx.Values()
		v[0] = "Mutated"
		assert.Equal(t, "Brazil", idx.Values()[0])
	})

	t.Run("empty input", func(t *testing.T) {
		empty := NewNationalityIndex(nil)
		assert.Equal(t, 0, empty.Len())
		assert.Empty(t, empty.Values())
	})
}

func TestSnapshot_Loading(t *testing.T) {
	assert.True(t, Snapshot{Status: StatusLoading}.Loading())
	assert.False(t, Snapshot{Status: StatusLoaded}.Loading())
}
