package workout

import (
	"fmt"
	"strings"
	"time"
)

// Locale selects the language used for descriptions.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleRussian Locale = "ru"
)

// ParseLocale accepts "en" and "ru"; empty means English.
func ParseLocale(raw string) (Locale, error) {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case "", LocaleEnglish:
		return LocaleEnglish, nil
	case LocaleRussian:
		return LocaleRussian, nil
	default:
		return "", fmt.Errorf("unsupported locale %q", raw)
	}
}

var englishMonths = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// Genitive forms, as used after a day number.
var russianMonths = [12]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// Describe builds the display title for a workout of kind created at t.
func Describe(locale Locale, kind Kind, t time.Time) string {
	month := int(t.Month()) - 1
	switch locale {
	case LocaleRussian:
		title := "Пробежка"
		if kind == KindCycling {
			title = "Велотренировка"
		}
		return fmt.Sprintf("%s %d %s", title, t.Day(), russianMonths[month])
	default:
		title := "Running"
		if kind == KindCycling {
			title = "Cycling"
		}
		return fmt.Sprintf("%s on %s %d", title, englishMonths[month], t.Day())
	}
}

// Icon returns the emoji used in popups and list entries.
func Icon(kind Kind) string {
	if kind == KindCycling {
		return "🚴‍♀️"
	}
	return "🏃‍♂️"
}

// MetricUnit is the unit of the derived metric.
func MetricUnit(kind Kind) string {
	if kind == KindCycling {
		return "km/h"
	}
	return "min/km"
}

// SecondaryUnit is the unit of the kind-specific input.
func SecondaryUnit(kind Kind) string {
	if kind == KindCycling {
		return "m"
	}
	return "spm"
}

// SecondaryLabel names the kind-specific input field.
func SecondaryLabel(kind Kind) string {
	if kind == KindCycling {
		return "Elev Gain"
	}
	return "Cadence"
}
