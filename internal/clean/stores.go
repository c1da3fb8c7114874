package clean

import (
	"strconv"
	"strings"

	"github.com/datacentral/retail-etl/internal/extract"
)

// Stores cleans the store records fetched from the API.
//
// Rules:
//   - rows without a store code drop; duplicates (by code) drop
//   - the junk "lat" column is discarded entirely
//   - staff_numbers loses letter typos ("J78" -> 78); rows left
//     without digits drop
//   - opening_date is coerced, uncoercible rows drop
//   - continent gets the "ee" prefix typo fix; country_code must be
//     a known market
//   - N/A coordinates (the web store) become nulls, not drops
func Stores(raw []extract.StoreRecord) ([]Store, int) {
	stores := make([]Store, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		code := strings.TrimSpace(r.StoreCode)
		if code == "" || isNullLiteral(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}

		staffDigits := digitsOnly(r.StaffNumbers)
		if staffDigits == "" {
			continue
		}
		staff, err := strconv.ParseInt(staffDigits, 10, 16)
		if err != nil {
			continue
		}

		openingDate, ok := parseDate(r.OpeningDate)
		if !ok {
			continue
		}

		storeType := strings.TrimSpace(r.StoreType)
		if storeType == "" || isNullLiteral(storeType) {
			continue
		}

		countryCode, ok := normalizeCountryCode(r.CountryCode)
		if !ok {
			continue
		}

		continent, ok := normalizeContinent(r.Continent)
		if !ok {
			continue
		}

		seen[code] = struct{}{}
		stores = append(stores, Store{
			StoreCode:    code,
			Address:      normalizeNull(&r.Address),
			Longitude:    parseFloat(r.Longitude),
			Latitude:     parseFloat(r.Latitude),
			Locality:     normalizeNull(&r.Locality),
			StaffNumbers: int16(staff),
			OpeningDate:  openingDate,
			StoreType:    storeType,
			CountryCode:  countryCode,
			Continent:    continent,
		})
	}

	return stores, len(raw) - len(stores)
}
