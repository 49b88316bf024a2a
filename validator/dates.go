package validator

import "time"

// dateLayouts are attempted in order when parsing scheduled pricing dates.
// The ambiguous slash forms resolve in favor of month-first, matching the
// feeds observed in production.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"02/01/2006",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// parseDate parses s against the supported layouts. Returns false when no
// layout matches.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dateWindow is one scheduled pricing interval. A window without an end date
// collapses to the single day of its start.
type dateWindow struct {
	start time.Time
	end   time.Time
}

func newDateWindow(start time.Time, end time.Time, hasEnd bool) dateWindow {
	if !hasEnd {
		end = start
	}
	return dateWindow{start: start, end: end}
}

// overlaps reports whether two inclusive windows share at least one day.
func (w dateWindow) overlaps(other dateWindow) bool {
	return !w.start.After(other.end) && !other.start.After(w.end)
}
