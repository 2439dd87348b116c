package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"userdir/internal/directory/models"
)

// FixedNow is the reference clock used by directory tests.
var FixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// RecordBuilder provides a fluent interface for building test user records.
type RecordBuilder struct {
	first, last string
	email       string
	nationality string
	dob         time.Time
	picture     string
	thumbnail   string
}

// NewRecordBuilder creates a RecordBuilder with sensible defaults and a unique email.
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{
		first:       "Test",
		last:        "User",
		email:       fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		nationality: "United States",
		dob:         time.Date(1990, 1, 15, 8, 30, 0, 0, time.UTC),
		picture:     "https://randomuser.me/api/portraits/men/1.jpg",
		thumbnail:   "https://randomuser.me/api/portraits/thumb/men/1.jpg",
	}
}

func (b *RecordBuilder) WithName(first, last string) *RecordBuilder {
	b.first = first
	b.last = last
	return b
}

func (b *RecordBuilder) WithEmail(email string) *RecordBuilder {
	b.email = email
	return b
}

func (b *RecordBuilder) WithNationality(nationality string) *RecordBuilder {
	b.nationality = nationality
	return b
}

func (b *RecordBuilder) WithDateOfBirth(dob time.Time) *RecordBuilder {
	b.dob = dob
	return b
}

// BornOn sets the date of birth to midnight UTC of the given calendar day.
func (b *RecordBuilder) BornOn(year int, month time.Month, day int) *RecordBuilder {
	b.dob = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return b
}

func (b *RecordBuilder) Build() models.UserRecord {
	return models.NewUserRecord(b.first, b.last, b.email, b.nationality, b.dob, b.picture, b.thumbnail)
}

var (
	sampleFirstNames = []string{"John", "Emma", "Liam", "Olivia", "Noah", "Ava", "Johnny", "Mia", "Lucas", "Sofia"}
	sampleLastNames  = []string{"Smith", "Johnson", "Brown", "Garcia", "Miller", "Davis", "Wilson", "Moore", "Taylor", "Anderson"}
	sampleCountries  = []string{"US", "Norway", "Brazil", "US", "Germany", "Canada", "US"}
)

// SampleRecords returns n deterministic records with a spread of names, countries and birth dates.
func SampleRecords(n int) []models.UserRecord {
	records := make([]models.UserRecord, 0, n)
	for i := 0; i < n; i++ {
		first := sampleFirstNames[i%len(sampleFirstNames)]
		last := sampleLastNames[(i/len(sampleFirstNames))%len(sampleLastNames)]
		dob := time.Date(1960+(i*37)%50, time.Month(1+i%12), 1+(i*7)%28, (i*5)%24, 0, 0, 0, time.UTC)
		records = append(records, models.NewUserRecord(
			first,
			last,
			fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
			sampleCountries[i%len(sampleCountries)],
			dob,
			fmt.Sprintf("https://randomuser.me/api/portraits/women/%d.jpg", i),
			fmt.Sprintf("https://randomuser.me/api/portraits/thumb/women/%d.jpg", i),
		))
	}
	return records
}
