package clean

import (
	"strconv"
	"strings"
	"time"

	"github.com/datacentral/retail-etl/internal/extract"
)

// timePeriods are the trading periods used by the date-event extract.
var timePeriods = map[string]struct{}{
	"Morning":    {},
	"Midday":     {},
	"Evening":    {},
	"Late_Hours": {},
}

// DateEvents cleans the sale-time rows from the date-details extract.
//
// Rules:
//   - "NULL" rows drop
//   - day, month and year must be numeric and in calendar range
//   - timestamp must be a valid HH:MM:SS clock time
//   - time_period must be one of the trading periods
//   - date_uuid must be well-formed, deduped
func DateEvents(raw []extract.DateEventRecord) ([]DateEvent, int) {
	events := make([]DateEvent, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, r := range raw {
		id, ok := parseUUID(r.DateUUID)
		if !ok {
			continue
		}
		if _, dup := seen[id.String()]; dup {
			continue
		}

		day, okD := parseCalendarComponent(r.Day, 1, 31)
		month, okM := parseCalendarComponent(r.Month, 1, 12)
		year, okY := parseCalendarComponent(r.Year, 1900, 2100)
		if !okD || !okM || !okY || !validCalendarDate(year, month, day) {
			continue
		}

		eventTime, err := time.Parse("15:04:05", strings.TrimSpace(r.Timestamp))
		if err != nil {
			continue
		}

		period := strings.TrimSpace(r.TimePeriod)
		if _, ok := timePeriods[period]; !ok {
			continue
		}

		seen[id.String()] = struct{}{}
		events = append(events, DateEvent{
			DateUUID:   id,
			EventTime:  eventTime,
			Day:        day,
			Month:      month,
			Year:       year,
			TimePeriod: period,
		})
	}

	return events, len(raw) - len(events)
}

// parseCalendarComponent parses a numeric day/month/year string and
// range-checks it.
func parseCalendarComponent(s string, min, max int64) (int16, bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 16)
	if err != nil || value < min || value > max {
		return 0, false
	}
	return int16(value), true
}

// validCalendarDate reports whether the day exists in that month and
// year, rejecting combinations like February 30 that the per-field
// ranges cannot catch. time.Date normalizes overflow, so a changed
// component after the round trip means the date was impossible.
func validCalendarDate(year, month, day int16) bool {
	d := time.Date(int(year), time.Month(month), int(day), 0, 0, 0, 0, time.UTC)
	return d.Year() == int(year) && d.Month() == time.Month(month) && d.Day() == int(day)
}
