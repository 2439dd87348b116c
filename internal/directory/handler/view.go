package handler

import (
	"embed"
	"html/template"

	"userdir/internal/directory/filter"
	"userdir/internal/directory/models"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html.tmpl"))

const loadingRefreshSeconds = 1

type pageData struct {
	Params         filter.Params
	Nationalities  []string
	Loading        bool
	RefreshSeconds int
	Locale         string
	Error          string
	Total          int
	Count          int
	Cards          []card
}

type card struct {
	FullName    string
	Email       string
	Nationality string
	Picture     string
	DateOfBirth string
	// BirthDate is the machine-readable date for the <time> element.
	BirthDate string
}

func newCards(records []models.UserRecord, loc Locale) []card {
	cards := make([]card, 0, len(records))
	for _, r := range records {
		cards = append(cards, card{
			FullName:    r.FullName,
			Email:       r.Email,
			Nationality: r.Nationality,
			Picture:     r.PictureURL,
			DateOfBirth: loc.Format(r.DateOfBirth),
			BirthDate:   r.DateOfBirth.UTC().Format(filter.DateLayout),
		})
	}
	return cards
}
