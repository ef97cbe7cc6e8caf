// Package datetime converts date and time literals to and from the integer
// representations stored in binary rows: days since the epoch for dates,
// milliseconds of the day for times and milliseconds since the epoch for
// compact timestamps. All conversions are done in UTC.
package datetime

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const (
	dateLayout      = "2006-01-02"
	timeLayout      = "15:04:05.000"
	timestampLayout = "2006-01-02 15:04:05.000"

	millisPerDay = 24 * 60 * 60 * 1000
)

// ParseDate parses a YYYY-MM-DD literal and returns the number of days since
// 1970-01-01.
func ParseDate(s string) (int32, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing date %q", s)
	}
	return int32(floorDiv(t.Unix(), 24*60*60)), nil
}

// FormatDate is the inverse of ParseDate.
func FormatDate(days int32) string {
	return time.Unix(int64(days)*24*60*60, 0).UTC().Format(dateLayout)
}

// ParseTime parses a hh:mm:ss[.fff] literal and returns the number of
// milliseconds since midnight.
func ParseTime(s string) (int32, error) {
	t, err := time.ParseInLocation(layoutOf(timeLayout, s), s, time.UTC)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing time %q", s)
	}
	millis := t.Hour()*3600000 + t.Minute()*60000 + t.Second()*1000 + t.Nanosecond()/1e6
	return int32(millis), nil
}

// FormatTime is the inverse of ParseTime.
func FormatTime(millis int32) string {
	return time.UnixMilli(int64(millis)).UTC().Format(timeLayout)
}

// ParseTimestamp parses a "YYYY-MM-DD hh:mm:ss[.fff]" or RFC 3339 literal and
// returns the number of milliseconds since the epoch.
func ParseTimestamp(s string) (int64, error) {
	layout := layoutOf(timestampLayout, s)
	if strings.Contains(s, "T") {
		layout = time.RFC3339Nano
	}
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return 0, errors.Wrapf(err, "parsing timestamp %q", s)
	}
	return t.UnixMilli(), nil
}

// FormatTimestamp is the inverse of ParseTimestamp.
func FormatTimestamp(millis int64) string {
	return time.UnixMilli(millis).UTC().Format(timestampLayout)
}

// layoutOf truncates layout to the length of s so that optional trailing
// components (such as fractional seconds) may be omitted.
func layoutOf(layout, s string) string {
	if len(s) < len(layout) {
		return layout[:len(s)]
	}
	return layout
}

func floorDiv(x, y int64) int64 {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}
