package clean

import (
	"strings"

	"github.com/datacentral/retail-etl/internal/extract"
)

// Users cleans the legacy user rows.
//
// Rules:
//   - "NULL" literals become nulls; rows missing identity fields drop
//   - user_uuid must be a well-formed UUID (junk-row filter), deduped
//   - date_of_birth and join_date are coerced, uncoercible rows drop
//   - country_code gets the GGB typo fix and must be a known market
//   - email_address must at least contain an @
//
// Returns the cleaned rows and how many were dropped.
func Users(raw []extract.RawUser) ([]User, int) {
	users := make([]User, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		id, ok := parseUUID(stringValue(normalizeNull(r.UserUUID)))
		if !ok {
			continue
		}
		if _, dup := seen[id.String()]; dup {
			continue
		}

		firstName := stringValue(normalizeNull(r.FirstName))
		lastName := stringValue(normalizeNull(r.LastName))
		if firstName == "" || lastName == "" {
			continue
		}

		dateOfBirth, ok := parseDate(stringValue(normalizeNull(r.DateOfBirth)))
		if !ok {
			continue
		}
		joinDate, ok := parseDate(stringValue(normalizeNull(r.JoinDate)))
		if !ok {
			continue
		}

		email := stringValue(normalizeNull(r.EmailAddress))
		if !strings.Contains(email, "@") {
			continue
		}

		countryCode, ok := normalizeCountryCode(stringValue(normalizeNull(r.CountryCode)))
		if !ok {
			continue
		}

		seen[id.String()] = struct{}{}
		users = append(users, User{
			UserUUID:     id,
			FirstName:    firstName,
			LastName:     lastName,
			DateOfBirth:  dateOfBirth,
			Company:      normalizeNull(r.Company),
			EmailAddress: email,
			Address:      normalizeNull(r.Address),
			Country:      normalizeNull(r.Country),
			CountryCode:  countryCode,
			PhoneNumber:  normalizeNull(r.PhoneNumber),
			JoinDate:     joinDate,
		})
	}

	return users, len(raw) - len(users)
}
