package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en_GB"
	"github.com/go-playground/locales/en_US"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/ja"
	"github.com/go-playground/locales/ko"
	"github.com/go-playground/locales/nb"
	"github.com/go-playground/locales/nl"
	"github.com/go-playground/locales/pt_BR"
	"github.com/go-playground/locales/ru"
	"github.com/go-playground/locales/sv"
	"github.com/go-playground/locales/zh"
	"golang.org/x/text/language"
)

// Locale pairs a language tag with the CLDR translator that formats its dates.
type Locale struct {
	Tag        language.Tag
	translator locales.Translator
}

// Format renders t as the locale's CLDR short date, in UTC.
func (l Locale) Format(t time.Time) string {
	return l.translator.FmtDateShort(t.UTC())
}

// The first entry is the fallback when nothing in Accept-Language matches.
var supportedLocales = []Locale{
	{Tag: language.AmericanEnglish, translator: en_US.New()},
	{Tag: language.BritishEnglish, translator: en_GB.New()},
	{Tag: language.German, translator: de.New()},
	{Tag: language.French, translator: fr.New()},
	{Tag: language.Spanish, translator: es.New()},
	{Tag: language.Italian, translator: it.New()},
	{Tag: language.Dutch, translator: nl.New()},
	{Tag: language.BrazilianPortuguese, translator: pt_BR.New()},
	{Tag: language.Russian, translator: ru.New()},
	{Tag: language.Swedish, translator: sv.New()},
	{Tag: language.MustParse("nb"), translator: nb.New()},
	{Tag: language.Japanese, translator: ja.New()},
	{Tag: language.Chinese, translator: zh.New()},
	{Tag: language.Korean, translator: ko.New()},
}

var localeMatcher = language.NewMatcher(localeTags())

func localeTags() []language.Tag {
	tags := make([]language.Tag, len(supportedLocales))
	for i, l := range supportedLocales {
		tags[i] = l.Tag
	}
	return tags
}

// DefaultLocale is used when the request carries no usable Accept-Language header.
func DefaultLocale() Locale {
	return supportedLocales[0]
}

// LocaleFromRequest matches the request's Accept-Language header against the
// supported locales.
func LocaleFromRequest(r *http.Request) Locale {
	return MatchLocale(r.Header.Get("Accept-Language"))
}

// MatchLocale picks the best supported locale for an Accept-Language value.
func MatchLocale(acceptLanguage string) Locale {
	if acceptLanguage == "" {
		return DefaultLocale()
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLocale()
	}
	_, idx, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale()
	}
	return supportedLocales[idx]
}
