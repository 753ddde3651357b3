package view

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ClockLayout is a 12-hour clock with seconds, e.g. "09:05:03 PM".
const ClockLayout = "03:04:05 PM"

// FormatClock renders t in loc using ClockLayout.
func FormatClock(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(ClockLayout)
}

// FormatCount groups digits the en-US way: 1247 -> "1,247".
func FormatCount(n int) string {
	return message.NewPrinter(language.AmericanEnglish).Sprintf("%d", n)
}
