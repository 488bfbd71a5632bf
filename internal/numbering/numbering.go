// Package numbering formats the human-readable FIR and case numbers.
// Sequence allocation itself lives in repository.SequenceRepository.
package numbering

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	PrefixFir  = "FIR"
	PrefixCase = "CASE"
)

var courtTypeCodes = map[string]string{
	"supreme court":               "SC",
	"high court":                  "HC",
	"federal shariat court":       "FSC",
	"district court":              "DC",
	"sessions court":              "SSC",
	"district and sessions court": "DSC",
	"civil court":                 "CC",
	"magistrate court":            "MC",
	"traffic court":               "TC",
	"environmental court":         "EC",
	"environmental tribunal":      "ET",
}

var cityCodes = map[string]string{
	"lahore":     "LHR",
	"karachi":    "KHI",
	"islamabad":  "ISB",
	"rawalpindi": "RWP",
	"faisalabad": "FSD",
	"multan":     "MUX",
	"peshawar":   "PEW",
	"quetta":     "UET",
	"sialkot":    "SKT",
	"gujranwala": "GRW",
	"hyderabad":  "HDD",
	"bahawalpur": "BHV",
	"sargodha":   "SGD",
	"abbottabad": "ABT",
}

// Format renders "{prefix}-{scopeCode}-{year}-{sequence:04d}".
func Format(prefix, scopeCode string, year, sequence int) string {
	return fmt.Sprintf("%s%04d", ScopePrefix(prefix, scopeCode, year), sequence)
}

// ScopePrefix is the part of a number shared by every document of one scope and year,
// e.g. "FIR-TSB01-2025-".
func ScopePrefix(prefix, scopeCode string, year int) string {
	return fmt.Sprintf("%s-%s-%d-", prefix, scopeCode, year)
}

// StationCode strips everything but letters and digits from a station's code and uppercases it.
func StationCode(code string) string {
	return alphanumericUpper(code)
}

// CourtCode combines the court-type and city abbreviations, e.g. "HC-LHR".
func CourtCode(courtType, city string) string {
	return CourtTypeCode(courtType) + "-" + CityCode(city)
}

// CourtTypeCode looks the court type up in the fixed table and falls back to the
// initials of its words.
func CourtTypeCode(courtType string) string {
	key := normalizeKey(courtType)
	if code, ok := courtTypeCodes[key]; ok {
		return code
	}
	var b strings.Builder
	for _, word := range strings.Fields(key) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	if b.Len() == 0 {
		return "CT"
	}
	return b.String()
}

// CityCode looks the city up in the fixed table and falls back to the first three
// letters of the name, uppercased.
func CityCode(city string) string {
	key := normalizeKey(city)
	if code, ok := cityCodes[key]; ok {
		return code
	}
	var b strings.Builder
	for _, r := range key {
		if r < unicode.MaxASCII && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	letters := b.String()
	if len(letters) > 3 {
		return letters[:3]
	}
	if letters == "" {
		return "XXX"
	}
	return letters
}

func normalizeKey(value string) string {
	return strings.Join(strings.Fields(strings.ToLower(value)), " ")
}

func alphanumericUpper(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
