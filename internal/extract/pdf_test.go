package extract

import (
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragment(s string, x, w float64) pdf.Text {
	return pdf.Text{S: s, X: x, W: w}
}

func TestAssembleRowTokens(t *testing.T) {
	// Fragments deliberately out of X order; every gap here is wider
	// than columnGap so each fragment is its own token.
	row := &pdf.Row{Content: pdf.TextHorizontal{
		fragment("09/26", 120, 20),
		fragment("4971858637664481", 10, 80),
		fragment("Diners", 200, 25),
		fragment("Club", 228, 18),
		fragment("2015-11-25", 320, 40),
	}}

	tokens := assembleRowTokens(row)
	assert.Equal(t, []string{"4971858637664481", "09/26", "Diners", "Club", "2015-11-25"}, tokens)
}

func TestAssembleRowTokensMergesAdjacentFragments(t *testing.T) {
	// PDF text often arrives in sub-word fragments; anything within
	// the column gap is one token.
	row := &pdf.Row{Content: pdf.TextHorizontal{
		fragment("497185", 10, 30),
		fragment("8637664481", 40.5, 50),
	}}

	tokens := assembleRowTokens(row)
	assert.Equal(t, []string{"4971858637664481"}, tokens)
}

func TestParseCardRow(t *testing.T) {
	record, ok := parseCardRow([]string{"4971858637664481", "09/26", "VISA", "16", "digit", "2015-11-25"})
	require.True(t, ok)
	assert.Equal(t, "4971858637664481", record.CardNumber)
	assert.Equal(t, "09/26", record.ExpiryDate)
	assert.Equal(t, "VISA 16 digit", record.CardProvider)
	assert.Equal(t, "2015-11-25", record.DatePaymentConfirmed)
}

func TestParseCardRowSkipsHeaderAndShortRows(t *testing.T) {
	_, ok := parseCardRow([]string{"card_number", "expiry_date", "card_provider", "date_payment_confirmed"})
	assert.False(t, ok)

	_, ok = parseCardRow([]string{"4971858637664481", "09/26"})
	assert.False(t, ok)
}
