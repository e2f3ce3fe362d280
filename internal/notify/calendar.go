package notify

import (
	"time"

	"github.com/nekoplan/nekoplan/internal/store"
)

// CalendarDays is how far ahead the calendar view looks, today
// included.
const CalendarDays = 7

// Day groups the titles of tasks whose deadline falls on one calendar
// date. Days with no tasks keep an empty Titles slice so the view can
// render them.
type Day struct {
	Date   time.Time
	Titles []string
}

// Calendar buckets task titles by deadline date for the next `days`
// days starting at now's date. Tasks outside the range are omitted.
func Calendar(s *store.Store, now time.Time, days int) []Day {
	y, m, d := now.Date()
	first := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	out := make([]Day, days)
	for i := range out {
		out[i] = Day{Date: first.AddDate(0, 0, i), Titles: []string{}}
	}
	// Match on calendar date, not elapsed duration: a DST day is not
	// 24 hours long.
	for _, t := range s.Tasks() {
		dy, dm, dd := t.Deadline.In(now.Location()).Date()
		for i := range out {
			oy, om, od := out[i].Date.Date()
			if oy == dy && om == dm && od == dd {
				out[i].Titles = append(out[i].Titles, t.Title)
				break
			}
		}
	}
	return out
}
