package clean

import (
	"regexp"
	"strings"

	"github.com/datacentral/retail-etl/internal/extract"
)

// expiryPattern is the MM/YY expiry format on the card PDF.
var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// Cards cleans the card rows extracted from the PDF.
//
// Rules:
//   - "NULL" rows drop
//   - card numbers lose their "??" scan artifacts and must then be
//     all digits; duplicates (by card number) drop
//   - expiry_date must be MM/YY
//   - date_payment_confirmed is coerced, uncoercible rows drop
func Cards(raw []extract.CardRecord) ([]Card, int) {
	cards := make([]Card, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		number := strings.TrimLeft(strings.TrimSpace(r.CardNumber), "?")
		if number == "" || isNullLiteral(number) || digitsOnly(number) != number {
			continue
		}
		if _, dup := seen[number]; dup {
			continue
		}

		expiry := strings.TrimSpace(r.ExpiryDate)
		if !expiryPattern.MatchString(expiry) {
			continue
		}

		provider := strings.TrimSpace(r.CardProvider)
		if provider == "" || isNullLiteral(provider) {
			continue
		}

		confirmed, ok := parseDate(r.DatePaymentConfirmed)
		if !ok {
			continue
		}

		seen[number] = struct{}{}
		cards = append(cards, Card{
			CardNumber:           number,
			ExpiryDate:           expiry,
			CardProvider:         provider,
			DatePaymentConfirmed: confirmed,
		})
	}

	return cards, len(raw) - len(cards)
}
