package leetcode

import (
	"fmt"
	"testing"
)

// calendarFor builds a submissionCalendar JSON with one count per day offset
// (0 = today) relative to now.
func calendarFor(now int64, dayOffsets ...int) string {
	todayStart := now - now%daySeconds
	out := "{"
	for i, off := range dayOffsets {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%q:1", fmt.Sprint(todayStart-int64(off)*daySeconds))
	}
	return out + "}"
}

func TestStreakFromCalendar(t *testing.T) {
	now := int64(1767225600 + 3600) // some day at 01:00 UTC

	tests := []struct {
		name     string
		calendar string
		want     int
	}{
		{"empty calendar", "", 0},
		{"invalid json", "not json", 0},
		{"today only", calendarFor(now, 0), 0},
		{"today and yesterday", calendarFor(now, 0, 1), 1},
		{"three consecutive days", calendarFor(now, 0, 1, 2), 2},
		{"yesterday only keeps grace", calendarFor(now, 1, 2, 3), 3},
		{"gap breaks the streak", calendarFor(now, 0, 1, 3, 4), 1},
		{"last activity three days ago", calendarFor(now, 3, 4, 5), 0},
		{"zero counts ignored", fmt.Sprintf("{%q:0}", fmt.Sprint(now-now%daySeconds)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StreakFromCalendar(tt.calendar, now)
			if got != tt.want {
				t.Errorf("StreakFromCalendar() = %d, want %d", got, tt.want)
			}
		})
	}
}
