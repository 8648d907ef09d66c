package utils

import "time"

// Streaks and daily goals are anchored to calendar days in France regardless
// of where the request lands.
var paris = mustLoadParis()

func mustLoadParis() *time.Location {
	loc, err := time.LoadLocation("Europe/Paris")
	if err != nil {
		panic("failed to load Europe/Paris tzdata: " + err.Error())
	}
	return loc
}

// ParisDay truncates t to its calendar date in Europe/Paris, returned at
// midnight Paris time.
func ParisDay(t time.Time) time.Time {
	local := t.In(paris)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, paris)
}

// DaysBetween returns the number of whole Paris calendar days from a to b.
// DST transitions make naive hour division off by one twice a year, so the
// dates are compared as epoch day counts instead.
func DaysBetween(a, b time.Time) int {
	return int(epochDays(b) - epochDays(a))
}

func epochDays(t time.Time) int64 {
	local := t.In(paris)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC).Unix() / 86400
}
