package domain

import (
	"strconv"
	"strings"
	"time"
)

// scheduleToleranceMinutes is how far the wall clock may drift from a
// configured "HH:MM" slot and still count as a match. External cron triggers
// fire every few minutes, so the window must cover at least one cadence.
const scheduleToleranceMinutes = 15

// IsTimeToSend reports whether now falls within the tolerance window of any
// configured "HH:MM" slot, evaluated in the given IANA zone. devMode bypasses
// time matching entirely for manual triggers.
func IsTimeToSend(slots []string, tz string, now time.Time, devMode bool) bool {
	if devMode {
		return true
	}
	if len(slots) == 0 {
		return false
	}
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	local := now.In(loc)
	currentM := local.Hour()*60 + local.Minute()
	for _, slot := range slots {
		m, ok := parseClock(slot)
		if !ok {
			continue
		}
		diff := currentM - m
		if diff < 0 {
			diff = -diff
		}
		if diff <= scheduleToleranceMinutes {
			return true
		}
	}
	return false
}

// parseClock parses "HH:MM" into minutes since midnight.
func parseClock(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// ShouldSkipDay reports whether no sends of any channel should happen today:
// weekends when skip_weekends is set (server-local weekday), or an explicit
// skip date matching today.
func ShouldSkipDay(s *Setting, now time.Time) bool {
	if s.SkipWeekends {
		switch now.Weekday() {
		case time.Saturday, time.Sunday:
			return true
		}
	}
	today := now.Format("2006-01-02")
	for _, d := range s.CustomSkipDates {
		if d == today {
			return true
		}
	}
	return false
}

// SameCalendarDay reports whether a and b fall on the same calendar date in
// the given location.
func SameCalendarDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
