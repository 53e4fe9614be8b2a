package core

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Supported calendar locales.
const (
	LocaleRussian = "ru"
	LocaleEnglish = "en"
)

// DefaultLocale is used when none is configured.
const DefaultLocale = LocaleRussian

type localeTable struct {
	tag      language.Tag
	months   [12]string
	weekdays [DaysPerWeek]string
}

// Month names are the standalone (nominative) forms, stored lower case.
var locales = map[string]localeTable{
	LocaleRussian: {
		tag: language.Russian,
		months: [12]string{
			"январь", "февраль", "март", "апрель", "май", "июнь",
			"июль", "август", "сентябрь", "октябрь", "ноябрь", "декабрь",
		},
		weekdays: [DaysPerWeek]string{"Пн", "Вт", "Ср", "Чт", "Пт", "Сб", "Вс"},
	},
	LocaleEnglish: {
		tag: language.English,
		months: [12]string{
			"january", "february", "march", "april", "may", "june",
			"july", "august", "september", "october", "november", "december",
		},
		weekdays: [DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
	},
}

// IsSupportedLocale reports whether names exist for locale.
func IsSupportedLocale(locale string) bool {
	_, ok := locales[strings.ToLower(locale)]
	return ok
}

func lookupLocale(locale string) (localeTable, error) {
	t, ok := locales[strings.ToLower(locale)]
	if !ok {
		return localeTable{}, fmt.Errorf("unsupported locale %q", locale)
	}
	return t, nil
}

// MonthNames returns the twelve month names for locale, index 0 = January,
// with the first letter capitalised by the locale's casing rules.
func MonthNames(locale string) ([12]string, error) {
	var out [12]string
	t, err := lookupLocale(locale)
	if err != nil {
		return out, err
	}
	caser := cases.Title(t.tag)
	for i, name := range t.months {
		out[i] = caser.String(name)
	}
	return out, nil
}

// MonthName returns a single capitalised month name (month 1..12).
func MonthName(locale string, month int) (string, error) {
	if month < 1 || month > 12 {
		return "", &DateRangeError{Month: month}
	}
	names, err := MonthNames(locale)
	if err != nil {
		return "", err
	}
	return names[month-1], nil
}

// WeekdayNames returns Monday-first short weekday headers.
func WeekdayNames(locale string) ([DaysPerWeek]string, error) {
	t, err := lookupLocale(locale)
	if err != nil {
		return [DaysPerWeek]string{}, err
	}
	return t.weekdays, nil
}
