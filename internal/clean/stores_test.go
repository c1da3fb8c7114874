package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/extract"
)

func validStoreRecord() extract.StoreRecord {
	return extract.StoreRecord{
		Address:      "Flat 72W, Sally isle, East Deantown",
		Longitude:    "-0.1257",
		Lat:          "NULL",
		Locality:     "East Deantown",
		StoreCode:    "EA-71F8B83E",
		StaffNumbers: "38",
		OpeningDate:  "2002-06-29",
		StoreType:    "Super Store",
		Latitude:     "51.5085",
		CountryCode:  "GB",
		Continent:    "Europe",
	}
}

func TestStoresCleaning(t *testing.T) {
	good := validStoreRecord()

	typos := validStoreRecord()
	typos.StoreCode = "DE-2A3EBC08"
	typos.StaffNumbers = "J78"
	typos.CountryCode = "DE"
	typos.Continent = "eeEurope"

	junk := validStoreRecord()
	junk.StoreCode = "XX-BADBAD00"
	junk.OpeningDate = "1WZB1TE1WL"

	stores, dropped := Stores([]extract.StoreRecord{good, typos, junk})

	require.Len(t, stores, 2)
	assert.Equal(t, 1, dropped)

	assert.Equal(t, int16(38), stores[0].StaffNumbers)
	assert.Equal(t, int16(78), stores[1].StaffNumbers, "letter typos should be stripped from staff numbers")
	assert.Equal(t, "Europe", stores[1].Continent, "ee prefix typo should be fixed")
}

func TestStoresWebPortalKeepsNullCoordinates(t *testing.T) {
	web := validStoreRecord()
	web.StoreCode = "WEB-1388012W"
	web.Address = "N/A"
	web.Longitude = "N/A"
	web.Latitude = "N/A"
	web.Locality = "N/A"
	web.StoreType = "Web Portal"

	stores, dropped := Stores([]extract.StoreRecord{web})

	require.Len(t, stores, 1)
	assert.Zero(t, dropped)
	assert.Nil(t, stores[0].Address)
	assert.Nil(t, stores[0].Longitude)
	assert.Nil(t, stores[0].Latitude)
	assert.Nil(t, stores[0].Locality)
	assert.Equal(t, "Web Portal", stores[0].StoreType)
}

func TestStoresDeduplicatesByCode(t *testing.T) {
	stores, dropped := Stores([]extract.StoreRecord{validStoreRecord(), validStoreRecord()})
	require.Len(t, stores, 1)
	assert.Equal(t, 1, dropped)
}
