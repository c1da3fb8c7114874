package clean

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Literal markers the source systems use for missing values.
var nullLiterals = map[string]struct{}{
	"":     {},
	"NULL": {},
	"N/A":  {},
	"None": {},
	"NaN":  {},
}

// normalizeNull maps null-literal strings to nil and trims the rest.
func normalizeNull(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if _, ok := nullLiterals[trimmed]; ok {
		return nil
	}
	return &trimmed
}

// stringValue unwraps a normalized pointer, returning "" for nil.
func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// isNullLiteral reports whether a plain string is a missing-value marker.
func isNullLiteral(s string) bool {
	_, ok := nullLiterals[strings.TrimSpace(s)]
	return ok
}

// parseDate coerces the many date spellings in the source data
// ("2013-10-14", "July 2005 17", "2006/09/03") into a time.Time.
// Rows whose dates cannot be coerced are dropped by the cleaners.
func parseDate(s string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if isNullLiteral(trimmed) {
		return time.Time{}, false
	}
	t, err := dateparse.ParseAny(trimmed)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// parseUUID accepts only well-formed UUIDs; the source tables use
// random text in corrupted rows, so this doubles as a junk-row filter.
func parseUUID(s string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// digitsOnly strips every non-digit character, e.g. "J78" -> "78"
// for typo'd staff numbers and "??4654492346226715" card numbers.
func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parsePrice converts a "£1.99"-style price into a decimal.
func parsePrice(s string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(s)
	trimmed = strings.TrimPrefix(trimmed, "£")
	trimmed = strings.ReplaceAll(trimmed, ",", "")
	if trimmed == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseWeightKG normalizes a weight expression to kilograms.
//
// Supported spellings: "1.2kg", "500g", "16oz", "100ml", "2l" and
// multipacks such as "12 x 100g". Volumes convert 1:1 (ml as g,
// l as kg). Trailing junk like "77g ." is tolerated.
func parseWeightKG(s string) (float64, bool) {
	w := strings.ToLower(strings.TrimSpace(s))
	w = strings.TrimRight(w, " .")
	if w == "" || isNullLiteral(w) {
		return 0, false
	}

	// Multipack: "12 x 100g" means 12 units of 100g.
	if left, right, found := strings.Cut(w, "x"); found {
		count, err := strconv.ParseFloat(strings.TrimSpace(left), 64)
		if err != nil {
			return 0, false
		}
		unit, ok := parseWeightKG(right)
		if !ok {
			return 0, false
		}
		return count * unit, true
	}

	// Unit suffixes ordered so "kg" and "ml" match before "g" and "l".
	for _, unit := range []struct {
		suffix string
		factor float64
	}{
		{"kg", 1},
		{"ml", 1.0 / 1000},
		{"oz", 0.0283495},
		{"g", 1.0 / 1000},
		{"l", 1},
	} {
		if strings.HasSuffix(w, unit.suffix) {
			number := strings.TrimSpace(strings.TrimSuffix(w, unit.suffix))
			value, err := strconv.ParseFloat(number, 64)
			if err != nil || value < 0 {
				return 0, false
			}
			return value * unit.factor, true
		}
	}

	return 0, false
}

// weightClass buckets a kilogram weight for the delivery team.
func weightClass(kg float64) string {
	switch {
	case kg < 2:
		return "Light"
	case kg < 40:
		return "Mid_Sized"
	case kg < 140:
		return "Heavy"
	default:
		return "Truck_Required"
	}
}

// validCountryCodes are the markets the business operates in.
var validCountryCodes = map[string]struct{}{
	"GB": {},
	"DE": {},
	"US": {},
}

// normalizeCountryCode fixes the known "GGB" typo and rejects codes
// outside the operated markets.
func normalizeCountryCode(s string) (string, bool) {
	code := strings.ToUpper(strings.TrimSpace(s))
	if code == "GGB" {
		code = "GB"
	}
	if _, ok := validCountryCodes[code]; !ok {
		return "", false
	}
	return code, true
}

// normalizeContinent fixes the known "eeEurope"/"eeAmerica" typos
// and rejects anything else.
func normalizeContinent(s string) (string, bool) {
	continent := strings.TrimPrefix(strings.TrimSpace(s), "ee")
	if continent != "Europe" && continent != "America" {
		return "", false
	}
	return continent, true
}

// parseFloat converts a coordinate string, treating null literals as
// absent rather than invalid.
func parseFloat(s string) *float64 {
	if isNullLiteral(s) {
		return nil
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &value
}
