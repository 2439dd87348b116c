package filter

import (
	"net/url"
	"strings"
	"time"

	"userdir/internal/directory/models"
	dErrors "userdir/pkg/domain-errors"
	"userdir/pkg/validation"
)

// DateLayout is the wire format of the start and end parameters, as sent by an HTML date input.
const DateLayout = "2006-01-02"

// MaxQueryLength caps the free text query.
const MaxQueryLength = 200

// Params are the raw filter inputs as received from a form or query string.
type Params struct {
	Query       string `form:"q" validate:"max=200"`
	StartDate   string `form:"start" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string `form:"end" validate:"omitempty,datetime=2006-01-02"`
	Nationality string `form:"nationality" validate:"max=200"`
}

// ParamsFromQuery reads filter parameters from URL query values.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Query:       q.Get("q"),
		StartDate:   q.Get("start"),
		EndDate:     q.Get("end"),
		Nationality: q.Get("nationality"),
	}
}

// Normalize trims surrounding whitespace from the date and nationality parameters.
// The query is matched as typed, so its whitespace is kept.
func (p *Params) Normalize() {
	p.StartDate = strings.TrimSpace(p.StartDate)
	p.EndDate = strings.TrimSpace(p.EndDate)
	p.Nationality = strings.TrimSpace(p.Nationality)
}

// Encode renders the non-empty parameters back into a query string.
func (p Params) Encode() string {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("q", p.Query)
	set("start", p.StartDate)
	set("end", p.EndDate)
	set("nationality", p.Nationality)
	return v.Encode()
}

// ParseCriteria validates raw parameters and converts them into criteria.
// Malformed or partial dates and an inverted range are rejected with a validation
// error rather than silently widening the window.
func ParseCriteria(p Params) (models.FilterCriteria, error) {
	p.Normalize()
	if err := validation.Validate(p); err != nil {
		return models.FilterCriteria{}, err
	}

	c := models.FilterCriteria{
		Query:       p.Query,
		Nationality: p.Nationality,
	}
	if p.StartDate != "" {
		start, _ := time.Parse(DateLayout, p.StartDate)
		c.StartDate = &start
	}
	if p.EndDate != "" {
		end, _ := time.Parse(DateLayout, p.EndDate)
		c.EndDate = &end
	}
	if c.StartDate != nil && c.EndDate != nil && c.StartDate.After(*c.EndDate) {
		return models.FilterCriteria{}, dErrors.New(dErrors.CodeValidation, "start must not be after end")
	}
	return c, nil
}
