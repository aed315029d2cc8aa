package metadata

import (
	"time"

	"github.com/presscorpus/presscorpus/pkg/domain"
)

// monthTables maps locale month tokens to months. Keys are lowercase
// ASCII with abbreviation dots stripped, matching monthKey. Full names
// and the common print abbreviations are both accepted.
var monthTables = map[domain.Locale]map[string]time.Month{
	domain.LocaleEnglish: {
		"january": time.January, "february": time.February, "march": time.March,
		"april": time.April, "may": time.May, "june": time.June,
		"july": time.July, "august": time.August, "september": time.September,
		"october": time.October, "november": time.November, "december": time.December,
		"jan": time.January, "feb": time.February, "mar": time.March,
		"apr": time.April, "jun": time.June, "jul": time.July,
		"aug": time.August, "sep": time.September, "sept": time.September,
		"oct": time.October, "nov": time.November, "dec": time.December,
	},
	domain.LocaleDutch: {
		"januari": time.January, "februari": time.February, "maart": time.March,
		"april": time.April, "mei": time.May, "juni": time.June,
		"juli": time.July, "augustus": time.August, "september": time.September,
		"oktober": time.October, "november": time.November, "december": time.December,
		"jan": time.January, "feb": time.February, "mrt": time.March,
		"apr": time.April, "jun": time.June, "jul": time.July,
		"aug": time.August, "sep": time.September, "sept": time.September,
		"okt": time.October, "nov": time.November, "dec": time.December,
	},
	domain.LocaleFrench: {
		// keys are diacritic-folded: fevrier matches both "février" and "fevrier"
		"janvier": time.January, "fevrier": time.February, "mars": time.March,
		"avril": time.April, "mai": time.May, "juin": time.June,
		"juillet": time.July, "aout": time.August, "septembre": time.September,
		"octobre": time.October, "novembre": time.November, "decembre": time.December,
		"janv": time.January, "fevr": time.February, "avr": time.April,
		"juil": time.July, "sept": time.September, "oct": time.October,
		"nov": time.November, "dec": time.December,
	},
}
