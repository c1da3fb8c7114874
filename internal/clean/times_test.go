package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datacentral/retail-etl/internal/extract"
)

func validDateEventRecord() extract.DateEventRecord {
	return extract.DateEventRecord{
		Timestamp:  "22:00:05",
		Month:      "7",
		Year:       "2012",
		Day:        "19",
		TimePeriod: "Evening",
		DateUUID:   "19c04c99-bb6b-4ac6-87f1-0c0eccfa6493",
	}
}

func TestDateEventsCleaning(t *testing.T) {
	good := validDateEventRecord()

	badMonth := validDateEventRecord()
	badMonth.DateUUID = "277d47e6-6ad1-4c6d-a9af-6f07c1a95b8e"
	badMonth.Month = "ZRH2YT3FR9"

	badTime := validDateEventRecord()
	badTime.DateUUID = "8fe96c3a-d62d-4eb5-b313-cf12d9126a49"
	badTime.Timestamp = "25:99:99"

	badPeriod := validDateEventRecord()
	badPeriod.DateUUID = "fc461df4-b919-48b2-909e-55c95a03fe6b"
	badPeriod.TimePeriod = "Twilight"

	events, dropped := DateEvents([]extract.DateEventRecord{good, badMonth, badTime, badPeriod})

	require.Len(t, events, 1)
	assert.Equal(t, 3, dropped)

	assert.Equal(t, int16(7), events[0].Month)
	assert.Equal(t, int16(2012), events[0].Year)
	assert.Equal(t, 22, events[0].EventTime.Hour())
	assert.Equal(t, 5, events[0].EventTime.Second())
}

func TestDateEventsRejectsImpossibleDates(t *testing.T) {
	feb30 := validDateEventRecord()
	feb30.Month = "2"
	feb30.Day = "30"

	leapDay := validDateEventRecord()
	leapDay.DateUUID = "277d47e6-6ad1-4c6d-a9af-6f07c1a95b8e"
	leapDay.Year = "2012"
	leapDay.Month = "2"
	leapDay.Day = "29"

	nonLeapDay := validDateEventRecord()
	nonLeapDay.DateUUID = "8fe96c3a-d62d-4eb5-b313-cf12d9126a49"
	nonLeapDay.Year = "2013"
	nonLeapDay.Month = "2"
	nonLeapDay.Day = "29"

	events, dropped := DateEvents([]extract.DateEventRecord{feb30, leapDay, nonLeapDay})

	require.Len(t, events, 1, "only the real leap day survives")
	assert.Equal(t, 2, dropped)
	assert.Equal(t, int16(29), events[0].Day)
	assert.Equal(t, int16(2012), events[0].Year)
}

func TestDateEventsDeduplicatesByUUID(t *testing.T) {
	events, dropped := DateEvents([]extract.DateEventRecord{validDateEventRecord(), validDateEventRecord()})
	require.Len(t, events, 1)
	assert.Equal(t, 1, dropped)
}
