package models

import "strings"

// countryNames maps ISO-3166 alpha-2 codes to English country names. This is
// the single table shared by every component; nothing else may carry its own
// copy of the mapping.
var countryNames = map[string]string{
	"AT": "Austria",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"CH": "Switzerland",
	"CZ": "Czechia",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GB": "United Kingdom",
	"GR": "Greece",
	"HR": "Croatia",
	"HU": "Hungary",
	"IE": "Ireland",
	"IT": "Italy",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"NL": "Netherlands",
	"NO": "Norway",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"SE": "Sweden",
	"SI": "Slovenia",
	"SK": "Slovakia",
	"US": "United States",
}

// countryCodes is the reverse index, keyed by lowercased name.
var countryCodes = func() map[string]string {
	m := make(map[string]string, len(countryNames))
	for code, name := range countryNames {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// CountryName returns the English name for an ISO alpha-2 code, or "" when
// the code is unknown.
func CountryName(code string) string {
	return countryNames[strings.ToUpper(strings.TrimSpace(code))]
}

// CountryCode returns the ISO alpha-2 code for an English country name, or ""
// when the name is unknown. Matching is case-insensitive.
func CountryCode(name string) string {
	return countryCodes[strings.ToLower(strings.TrimSpace(name))]
}
