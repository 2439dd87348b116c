package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestMatchLocale(t *testing.T) {
	tests := []struct {
		name           string
		acceptLanguage string
		expected       language.Tag
	}{
		{name: "empty header falls back to en-US", acceptLanguage: "", expected: language.AmericanEnglish},
		{name: "malformed header falls back to en-US", acceptLanguage: "!!;q=x", expected: language.AmericanEnglish},
		{name: "unsupported language falls back to en-US", acceptLanguage: "tlh", expected: language.AmericanEnglish},
		{name: "bare english is en-US", acceptLanguage: "en", expected: language.AmericanEnglish},
		{name: "british english", acceptLanguage: "en-GB", expected: language.BritishEnglish},
		{name: "regional german", acceptLanguage: "de-AT,de;q=0.9", expected: language.German},
		{name: "quality ordering", acceptLanguage: "fr;q=0.5,ja;q=0.9", expected: language.Japanese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchLocale(tt.acceptLanguage).Tag)
		})
	}
}

func TestLocaleFormat(t *testing.T) {
	// Late in the day UTC: formatting must not shift the calendar day.
	dob := time.Date(1988, 11, 5, 23, 30, 0, 0, time.UTC)

	tests := []struct {
		acceptLanguage string
		expected       string
	}{
		{acceptLanguage: "en-US", expected: "11/5/88"},
		{acceptLanguage: "en-GB", expected: "05/11/1988"},
		{acceptLanguage: "de-DE", expected: "05.11.88"},
		{acceptLanguage: "fr-FR", expected: "05/11/1988"},
		{acceptLanguage: "nl-NL", expected: "05-11-1988"},
		{acceptLanguage: "ja", expected: "1988/11/05"},
		{acceptLanguage: "sv-SE", expected: "1988-11-05"},
	}
	for _, tt := range tests {
		t.Run(tt.acceptLanguage, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchLocale(tt.acceptLanguage).Format(dob))
		})
	}

	loc := time.FixedZone("UTC+3", 3*60*60)
	assert.Equal(t, "11/5/88", DefaultLocale().Format(dob.In(loc)), "dates render in UTC")
}
