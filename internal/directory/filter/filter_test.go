package filter_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"userdir/internal/directory/filter"
	"userdir/internal/directory/models"
	"userdir/pkg/testutil"
)

type FilterSuite struct {
	suite.Suite
	records []models.UserRecord
	now     time.Time
}

func TestFilterSuite(t *testing.T) {
	suite.Run(t, new(FilterSuite))
}

func (s *FilterSuite) SetupTest() {
	s.records = testutil.SampleRecords(50)
	s.now = testutil.FixedNow
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func (s *FilterSuite) TestEmptyCriteriaIsIdentity() {
	got := filter.Apply(s.records, models.FilterCriteria{}, s.now)
	s.Equal(s.records, got)
}

func (s *FilterSuite) TestDoesNotAliasInput() {
	got := filter.Apply(s.records, models.FilterCriteria{}, s.now)
	got[0].FullName = "Changed"
	s.NotEqual("Changed", s.records[0].FullName)
}

func (s *FilterSuite) TestTextQuery() {
	s.Run("full email matches case-insensitively", func() {
		target := s.records[7]
		got := filter.Apply(s.records, models.FilterCriteria{Query: strings.ToUpper(target.Email)}, s.now)
		s.Require().Len(got, 1)
		s.Equal(target.Email, got[0].Email)
	})

	s.Run("matches first and last name together", func() {
		r := testutil.NewRecordBuilder().WithName("Ada", "Lovelace").WithEmail("countess@example.com").Build()
		got := filter.Apply([]models.UserRecord{r}, models.FilterCriteria{Query: "ada love"}, s.now)
		s.Len(got, 1)
	})

	s.Run("email-only match", func() {
		r := testutil.NewRecordBuilder().WithName("Ada", "Lovelace").WithEmail("countess@example.com").Build()
		got := filter.Apply([]models.UserRecord{r}, models.FilterCriteria{Query: "COUNTESS"}, s.now)
		s.Len(got, 1)
	})

	s.Run("disjoint record does not match", func() {
		r := testutil.NewRecordBuilder().WithName("Ada", "Lovelace").WithEmail("countess@example.com").Build()
		got := filter.Apply([]models.UserRecord{r}, models.FilterCriteria{Query: "john"}, s.now)
		s.Empty(got)
	})

	s.Run("whitespace is part of the query", func() {
		johnny := testutil.NewRecordBuilder().WithName("Johnny", "Silva").WithEmail("johnny.silva@example.com").Build()
		john := testutil.NewRecordBuilder().WithName("John", "Walker").WithEmail("jw@example.com").Build()
		got := filter.Apply([]models.UserRecord{johnny, john}, models.FilterCriteria{Query: "john "}, s.now)
		s.Require().Len(got, 1)
		s.Equal("John Walker", got[0].FullName)

		got = filter.Apply([]models.UserRecord{johnny, john}, models.FilterCriteria{Query: "   "}, s.now)
		s.Empty(got)
	})
}

func (s *FilterSuite) TestNationality() {
	got := filter.Apply(s.records, models.FilterCriteria{Nationality: "US"}, s.now)

	s.NotEmpty(got)
	for _, r := range got {
		s.Equal("US", r.Nationality)
	}
	s.Subset(s.records, got)

	s.Run("match is exact", func() {
		s.Empty(filter.Apply(s.records, models.FilterCriteria{Nationality: "us"}, s.now))
		s.Empty(filter.Apply(s.records, models.FilterCriteria{Nationality: "U"}, s.now))
	})
}

func (s *FilterSuite) TestDateRangeInclusiveBounds() {
	onStart := testutil.NewRecordBuilder().BornOn(1990, 1, 1).Build()
	onEnd := testutil.NewRecordBuilder().BornOn(2000, 1, 1).Build()
	lateOnEnd := testutil.NewRecordBuilder().WithDateOfBirth(time.Date(2000, 1, 1, 23, 59, 59, 0, time.UTC)).Build()
	before := testutil.NewRecordBuilder().WithDateOfBirth(time.Date(1989, 12, 31, 23, 59, 59, 0, time.UTC)).Build()
	after := testutil.NewRecordBuilder().BornOn(2000, 1, 2).Build()

	records := []models.UserRecord{onStart, onEnd, lateOnEnd, before, after}
	got := filter.Apply(records, models.FilterCriteria{
		StartDate: day(1990, 1, 1),
		EndDate:   day(2000, 1, 1),
	}, s.now)

	s.Equal([]models.UserRecord{onStart, onEnd, lateOnEnd}, got)
}

func (s *FilterSuite) TestDateDefaults() {
	old := testutil.NewRecordBuilder().BornOn(1850, 3, 3).Build()
	future := testutil.NewRecordBuilder().WithDateOfBirth(s.now.Add(time.Hour)).Build()
	atNow := testutil.NewRecordBuilder().WithDateOfBirth(s.now).Build()

	s.Run("no start is unbounded", func() {
		got := filter.Apply([]models.UserRecord{old}, models.FilterCriteria{}, s.now)
		s.Len(got, 1)
	})

	s.Run("no end is bounded by now inclusive", func() {
		got := filter.Apply([]models.UserRecord{future, atNow}, models.FilterCriteria{}, s.now)
		s.Equal([]models.UserRecord{atNow}, got)
	})

	s.Run("only start", func() {
		got := filter.Apply([]models.UserRecord{old, atNow}, models.FilterCriteria{StartDate: day(1900, 1, 1)}, s.now)
		s.Equal([]models.UserRecord{atNow}, got)
	})
}

func (s *FilterSuite) TestAndAcrossDimensions() {
	target := s.records[0]
	got := filter.Apply(s.records, models.FilterCriteria{
		Query:       target.Email,
		Nationality: "Atlantis",
	}, s.now)
	s.Empty(got)
}

func (s *FilterSuite) TestCombinedScenario() {
	criteria := models.FilterCriteria{
		Query:       "john",
		StartDate:   day(1990, 1, 1),
		EndDate:     day(2000, 1, 1),
		Nationality: "US",
	}
	got := filter.Apply(s.records, criteria, s.now)

	start := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
	endExclusive := time.Date(2000, 1, 2, 0, 0, 0, 0, time.UTC)
	var want []models.UserRecord
	for _, r := range s.records {
		text := strings.Contains(strings.ToLower(r.FullName), "john") || strings.Contains(strings.ToLower(r.Email), "john")
		date := !r.DateOfBirth.Before(start) && r.DateOfBirth.Before(endExclusive)
		if text && date && r.Nationality == "US" {
			want = append(want, r)
		}
	}

	s.Require().NotEmpty(want, "fixture should contain at least one match")
	s.Equal(want, got)
}

func TestApply_NilRecords(t *testing.T) {
	got := filter.Apply(nil, models.FilterCriteria{Query: "x"}, time.Now())
	require.NotNil(t, got)
	assert.Empty(t, got)
}
