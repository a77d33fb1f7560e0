package leetcode

import (
	"encoding/json"
	"sort"
	"strconv"
)

const daySeconds = 86400

// StreakFromCalendar computes the current login streak from LeetCode's
// submissionCalendar, a JSON object mapping unix-day timestamps (as strings)
// to submission counts. Days are bucketed into 86400-second slots. A streak
// survives as long as each preceding day is contiguous; activity on the
// literal current day is not required if yesterday was active (a one-day
// grace for timezones).
func StreakFromCalendar(calendarJSON string, now int64) int {
	if calendarJSON == "" {
		return 0
	}

	var calendar map[string]int
	if err := json.Unmarshal([]byte(calendarJSON), &calendar); err != nil {
		return 0
	}

	timestamps := make([]int64, 0, len(calendar))
	for k, count := range calendar {
		if count <= 0 {
			continue
		}
		ts, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			continue
		}
		timestamps = append(timestamps, ts)
	}
	if len(timestamps) == 0 {
		return 0
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] > timestamps[j] })

	todayStart := now - now%daySeconds

	// Inactive since before yesterday means no current streak.
	if timestamps[0] < todayStart-daySeconds {
		return 0
	}

	streak := 0
	currentDay := todayStart
	for _, ts := range timestamps {
		dayStart := ts - ts%daySeconds
		if dayStart == currentDay || dayStart == currentDay-daySeconds {
			if dayStart < currentDay {
				streak++
				currentDay = dayStart
			}
		} else {
			break
		}
	}
	return streak
}
