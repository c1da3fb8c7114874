package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/extract"
)

func TestCardsCleaning(t *testing.T) {
	raw := []extract.CardRecord{
		{CardNumber: "4971858637664481", ExpiryDate: "09/26", CardProvider: "VISA 16 digit", DatePaymentConfirmed: "2015-11-25"},
		{CardNumber: "??4654492346226715", ExpiryDate: "06/27", CardProvider: "Diners Club / Carte Blanche", DatePaymentConfirmed: "2021-04-04"},
		{CardNumber: "4971858637664481", ExpiryDate: "09/26", CardProvider: "VISA 16 digit", DatePaymentConfirmed: "2015-11-25"},
		{CardNumber: "NULL", ExpiryDate: "NULL", CardProvider: "NULL", DatePaymentConfirmed: "NULL"},
		{CardNumber: "4222069242355461965", ExpiryDate: "13/26", CardProvider: "VISA 19 digit", DatePaymentConfirmed: "2017-01-01"},
		{CardNumber: "OMZSBN2XG3", ExpiryDate: "10/25", CardProvider: "Maestro", DatePaymentConfirmed: "2019-08-22"},
	}

	cards, dropped := Cards(raw)

	require.Len(t, cards, 2)
	assert.Equal(t, 4, dropped)

	assert.Equal(t, "4971858637664481", cards[0].CardNumber)
	assert.Equal(t, "4654492346226715", cards[1].CardNumber, "?? scan artifacts should be stripped")
	assert.Equal(t, "Diners Club / Carte Blanche", cards[1].CardProvider)
	assert.Equal(t, 2021, cards[1].DatePaymentConfirmed.Year())
}

func TestCardsRejectsBadExpiry(t *testing.T) {
	raw := []extract.CardRecord{
		{CardNumber: "30060773296197", ExpiryDate: "9/26", CardProvider: "Maestro", DatePaymentConfirmed: "2015-11-25"},
		{CardNumber: "30060773296198", ExpiryDate: "09/2026", CardProvider: "Maestro", DatePaymentConfirmed: "2015-11-25"},
	}

	cards, dropped := Cards(raw)
	assert.Empty(t, cards)
	assert.Equal(t, 2, dropped)
}
