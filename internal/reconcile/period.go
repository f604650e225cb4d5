package reconcile

import (
	"time"

	"github.com/GoEnrollSync/GoEnrollSync/internal/db/models"
	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
)

const dateLayout = "2006-01-02"

// endOfDay is the offset from midnight to the last represented instant of a
// day, used to anchor end dates inclusively.
const endOfDay = 23*time.Hour + 59*time.Minute + 59*time.Second + 999*time.Millisecond

// Sentinel timestamps for unparseable period text. A far-future start and a
// far-past end make every "start <= now <= end" comparison evaluate false
// without the normalizer having to fail.
var (
	invalidStart = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC) //nolint:gochecknoglobals
	invalidEnd   = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)      //nolint:gochecknoglobals
)

// NormalizePeriod converts a raw validity interval to a canonical window.
// The start is truncated to its date and anchored to 00:00:00.000 UTC, the
// end to 23:59:59.999 UTC of its date. A nil interval yields an open window,
// an absent end an open-ended one. Malformed date text degrades to sentinel
// timestamps instead of an error.
func NormalizePeriod(raw *registry.ValidityPeriod) models.Period {
	if raw == nil {
		return models.Period{}
	}

	var out models.Period

	if start, ok := parseUpstreamDate(raw.Start); ok {
		out.Start = &start
	} else {
		start = invalidStart
		out.Start = &start
	}

	if raw.End == nil {
		return out
	}

	if end, ok := parseUpstreamDate(*raw.End); ok {
		end = end.Add(endOfDay)
		out.End = &end
	} else {
		end = invalidEnd
		out.End = &end
	}

	return out
}

// parseUpstreamDate truncates a date or date-time string to its date portion
// and parses it as a UTC midnight timestamp.
func parseUpstreamDate(raw string) (time.Time, bool) {
	if len(raw) < len(dateLayout) {
		return time.Time{}, false
	}

	t, err := time.Parse(dateLayout, raw[:len(dateLayout)])
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}
