package util

import "time"

// SameDate reports whether a and b fall on the same calendar date, each in
// its own location.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DateKey formats the calendar date of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(time.DateOnly)
}
