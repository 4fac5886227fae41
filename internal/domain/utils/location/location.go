package location

import (
	"time"
)

// LocalEventOffset is the civil offset all event dates and times are authored in
// (UTC+5, no daylight saving).
const LocalEventOffset = 5 * time.Hour

var local = time.FixedZone("UTC+5", int(LocalEventOffset/time.Second))

// Location returns the fixed zone matching LocalEventOffset.
func Location() *time.Location {
	return local
}

// Resolve combines a naive calendar date and a naive wall-clock time that are known
// to be expressed at the given offset and returns the equivalent UTC instant.
//
// Only the year/month/day of date and the hour/minute/second/nanosecond of clock
// are used; their locations are ignored.
func Resolve(date, clock time.Time, offset time.Duration) time.Time {
	naive := time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(),
		time.UTC,
	)
	return naive.Add(-offset)
}

// ToLocal returns the naive wall-clock reading of instant at the given offset,
// tagged UTC so it can be formatted without further conversion.
func ToLocal(instant time.Time, offset time.Duration) time.Time {
	return instant.UTC().Add(offset)
}
