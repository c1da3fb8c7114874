package clean

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/datacentral/retail-etl/internal/extract"
)

// Availability spellings used by the products extract, typo included.
const (
	removedMarker = "Removed"
)

var availableMarkers = map[string]struct{}{
	"Still_avaliable": {},
	"Still_available": {},
}

// Products cleans the product rows from the CSV extract.
//
// Rules:
//   - rows without a product code drop; duplicates (by code) drop
//   - product_price loses its £ sign and must parse as a
//     non-negative decimal
//   - weight is normalized to kilograms (kg/g/oz/ml/l, multipacks)
//     and rows with unparseable weights drop; a weight class is
//     derived for the delivery team
//   - the removed column becomes a still_available boolean; rows
//     with any other marker are junk and drop
//   - uuid must be well-formed; date_added is coerced
//   - EAN keeps only digit strings, null otherwise
func Products(raw []extract.ProductRecord) ([]Product, int) {
	products := make([]Product, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		code := strings.TrimSpace(r.ProductCode)
		if code == "" || isNullLiteral(code) {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}

		name := strings.TrimSpace(r.ProductName)
		if name == "" || isNullLiteral(name) {
			continue
		}

		price, ok := parsePrice(r.ProductPrice)
		if !ok {
			continue
		}

		kg, ok := parseWeightKG(r.Weight)
		if !ok {
			continue
		}

		category := strings.TrimSpace(r.Category)
		if category == "" || isNullLiteral(category) {
			continue
		}

		dateAdded, ok := parseDate(r.DateAdded)
		if !ok {
			continue
		}

		id, ok := parseUUID(r.UUID)
		if !ok {
			continue
		}

		removed := strings.TrimSpace(r.Removed)
		stillAvailable := false
		if _, available := availableMarkers[removed]; available {
			stillAvailable = true
		} else if removed != removedMarker {
			continue
		}

		var ean *string
		if digits := digitsOnly(r.EAN); digits != "" && digits == strings.TrimSpace(r.EAN) {
			ean = &digits
		}

		seen[code] = struct{}{}
		products = append(products, Product{
			ProductCode:    code,
			ProductName:    name,
			ProductPrice:   price,
			WeightKG:       decimal.NewFromFloat(kg).Round(4),
			WeightClass:    weightClass(kg),
			Category:       category,
			EAN:            ean,
			DateAdded:      dateAdded,
			ProductUUID:    id,
			StillAvailable: stillAvailable,
		})
	}

	return products, len(raw) - len(products)
}
