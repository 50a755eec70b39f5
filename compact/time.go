package compact

import (
	"fmt"
	"time"

	// Embedded zone data: Europe/Paris must resolve on hosts without tzdata.
	_ "time/tzdata"
)

// ParisLayout is the naive local-time layout used by disruption timestamps.
const ParisLayout = "20060102T150405"

// rfc3339Millis formats with millisecond precision and a Z suffix for UTC.
const rfc3339Millis = "2006-01-02T15:04:05.000Z07:00"

var paris = func() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic(fmt.Sprintf("compact: load Europe/Paris: %v", err))
	}
	return loc
}()

// TimestampParis is a unix-seconds timestamp parsed from a naive local time
// in the Europe/Paris zone. Ambiguous local times around a DST fold resolve
// to the offset time.ParseInLocation picks; parse followed by Format is the
// identity on the textual form either way.
type TimestampParis int64

// ParseParis parses a 20060102T150405 naive local time in Europe/Paris.
func ParseParis(s string) (TimestampParis, error) {
	t, err := time.ParseInLocation(ParisLayout, s, paris)
	if err != nil {
		return 0, fmt.Errorf("compact: parse %q as Paris local time: %w", s, err)
	}
	return TimestampParis(t.Unix()), nil
}

// Format renders the timestamp back as a Paris naive local time.
func (t TimestampParis) Format() string {
	return time.Unix(int64(t), 0).In(paris).Format(ParisLayout)
}

// TimestampMillis is a unix-milliseconds timestamp parsed from an RFC 3339
// string with millisecond precision.
type TimestampMillis int64

// ParseRFC3339Millis parses an RFC 3339 timestamp.
func ParseRFC3339Millis(s string) (TimestampMillis, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, fmt.Errorf("compact: parse %q as RFC 3339: %w", s, err)
	}
	return TimestampMillis(t.UnixMilli()), nil
}

// Format renders the timestamp as RFC 3339 with millisecond precision in
// UTC, which is the textual form the corpus uses.
func (t TimestampMillis) Format() string {
	return time.UnixMilli(int64(t)).UTC().Format(rfc3339Millis)
}
