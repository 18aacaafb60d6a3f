package display

import (
	"context"
	"strings"
	"time"

	"dreamlog/internal/dream"
	"dreamlog/internal/logging"
)

type Criteria struct {
	Search string
	Filter FilterType
	Start  time.Time
	End    time.Time
}

// FilterDreams keeps records matching c, in input order. Date bounds are
// widened to the start and end of their day and are inclusive; a record
// whose timestamp does not parse never matches a date bound. Records with
// no id or timestamp are dropped and logged.
func FilterDreams(ctx context.Context, log logging.Logger, records []dream.Dream, c Criteria) []dream.Dream {
	term := strings.ToLower(strings.TrimSpace(c.Search))
	var start, end time.Time
	if !c.Start.IsZero() {
		start = startOfDay(c.Start)
	}
	if !c.End.IsZero() {
		end = endOfDay(c.End)
	}

	out := make([]dream.Dream, 0, len(records))
	for _, d := range records {
		if d.ID == "" || strings.TrimSpace(d.Timestamp) == "" {
			log.Warn(ctx, "skipping malformed dream", "id", d.ID, "timestamp", d.Timestamp)
			continue
		}
		if term != "" && !strings.Contains(d.SearchText(), term) {
			continue
		}
		switch c.Filter {
		case FilterLucid:
			if !d.IsLucid {
				continue
			}
		case FilterNonLucid:
			if d.IsLucid {
				continue
			}
		}
		if !start.IsZero() || !end.IsZero() {
			t, ok := d.Time()
			if !ok {
				continue
			}
			if !start.IsZero() && t.Before(start) {
				continue
			}
			if !end.IsZero() && t.After(end) {
				continue
			}
		}
		out = append(out, d)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
