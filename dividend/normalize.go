package dividend

import (
	"time"

	"golang.org/x/exp/slices"
)

// DateLayout is the DD/MM/YYYY display format used by the calendar
const DateLayout = "02/01/2006"

// ParseDate parses a display date. ok is false for anything that is not a
// valid calendar date in DD/MM/YYYY form.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in the display format
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Normalize prepares a period for export: records whose ex-date does not
// parse are dropped, the rest are sorted ascending by ex-date (stable), the
// ex-date is re-rendered and exact duplicates are removed.
func Normalize(records []Record) []Record {
	type dated struct {
		exDate time.Time
		record Record
	}

	rows := make([]dated, 0, len(records))
	for _, r := range records {
		t, ok := ParseDate(r.ExDate)
		if !ok {
			continue
		}
		rows = append(rows, dated{exDate: t, record: r})
	}

	slices.SortStableFunc(rows, func(a, b dated) int {
		return a.exDate.Compare(b.exDate)
	})

	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		row.record.ExDate = FormatDate(row.exDate)
		out = append(out, row.record)
	}
	return Dedup(out)
}

// Dedup removes records whose Key was already seen, keeping the first one
func Dedup(records []Record) []Record {
	seen := make(map[Key]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		k := r.Key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
