package timeutil

import (
	"time"
)

// Berlin is the station's local time zone, used for report headers and
// day boundaries.
var Berlin *time.Location

func init() {
	var err error
	Berlin, err = time.LoadLocation("Europe/Berlin")
	if err != nil {
		// Fallback: fixed CET if the tz database is unavailable
		Berlin = time.FixedZone("CET", 1*60*60)
	}
}

// Now returns the current time in Berlin local time.
func Now() time.Time {
	return time.Now().In(Berlin)
}

// ToLocal converts any time to Berlin local time.
func ToLocal(t time.Time) time.Time {
	return t.In(Berlin)
}

// StartOfDay returns 00:00:00 local time for the given time's day.
func StartOfDay(t time.Time) time.Time {
	local := t.In(Berlin)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Berlin)
}

// EndOfDay returns 23:59:59.999999999 local time for the given time's day.
func EndOfDay(t time.Time) time.Time {
	local := t.In(Berlin)
	return time.Date(local.Year(), local.Month(), local.Day(), 23, 59, 59, 999999999, Berlin)
}

// Common layouts for display formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02.01.2006 15:04"
)
