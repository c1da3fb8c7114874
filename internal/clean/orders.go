package clean

import (
	"strings"

	"github.com/datacentral/retail-etl/internal/extract"
)

// Orders cleans the legacy order rows.
//
// The legacy first_name, last_name and "1" columns are simply not
// carried over. Rows with malformed foreign keys (uuids, card
// number, store/product codes) or non-positive quantities drop so
// referential integrity holds at load time.
func Orders(raw []extract.RawOrder) ([]Order, int) {
	orders := make([]Order, 0, len(raw))

	for _, r := range raw {
		dateUUID, ok := parseUUID(stringValue(normalizeNull(r.DateUUID)))
		if !ok {
			continue
		}
		userUUID, ok := parseUUID(stringValue(normalizeNull(r.UserUUID)))
		if !ok {
			continue
		}

		cardNumber := strings.TrimLeft(stringValue(normalizeNull(r.CardNumber)), "?")
		if cardNumber == "" || digitsOnly(cardNumber) != cardNumber {
			continue
		}

		storeCode := stringValue(normalizeNull(r.StoreCode))
		productCode := stringValue(normalizeNull(r.ProductCode))
		if storeCode == "" || productCode == "" {
			continue
		}

		if r.ProductQuantity == nil || *r.ProductQuantity <= 0 || *r.ProductQuantity > 32767 {
			continue
		}

		orders = append(orders, Order{
			DateUUID:        dateUUID,
			UserUUID:        userUUID,
			CardNumber:      cardNumber,
			StoreCode:       storeCode,
			ProductCode:     productCode,
			ProductQuantity: int16(*r.ProductQuantity),
		})
	}

	return orders, len(raw) - len(orders)
}

// OrderRefs holds the key sets of the loaded dimension tables.
type OrderRefs struct {
	Users    map[string]struct{}
	Cards    map[string]struct{}
	Stores   map[string]struct{}
	Products map[string]struct{}
	Dates    map[string]struct{}
}

// FilterOrderRefs drops orders that reference dimension rows which
// did not survive cleaning (a card with a bad expiry, a user with a
// junk email). Their keys are well-formed but absent from the target
// tables, so without this filter they would break the foreign keys
// at load time.
func FilterOrderRefs(orders []Order, refs OrderRefs) ([]Order, int) {
	kept := make([]Order, 0, len(orders))

	for _, o := range orders {
		if _, ok := refs.Dates[o.DateUUID.String()]; !ok {
			continue
		}
		if _, ok := refs.Users[o.UserUUID.String()]; !ok {
			continue
		}
		if _, ok := refs.Cards[o.CardNumber]; !ok {
			continue
		}
		if _, ok := refs.Stores[o.StoreCode]; !ok {
			continue
		}
		if _, ok := refs.Products[o.ProductCode]; !ok {
			continue
		}
		kept = append(kept, o)
	}

	return kept, len(orders) - len(kept)
}
