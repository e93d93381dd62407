package timetricks

import (
	"time"
)

const dayFormat = "20060102"

// SameDay reports whether t and t2 fall on the same calendar date, each read
// in its own location.
func SameDay(t time.Time, t2 time.Time) bool {
	return UniqueDay(t) == UniqueDay(t2)
}

// TrimClock returns midnight at the start of t's calendar day in t's location.
func TrimClock(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SetClock returns t's calendar day at the given wall clock time.
func SetClock(t time.Time, hour, minute int) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, t.Location())
}

// UniqueDay returns a string representation of t that is unique by the day.
// For instance, two seperate times on the same calendar day return identical
// strings. The strings sort in calendar order.
func UniqueDay(t time.Time) string {
	return t.Format(dayFormat)
}
