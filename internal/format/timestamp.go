// Package format implements the pure FormatPipeline functions (spec
// §4.5): timestamp humanization, reaction compaction, Slack markup
// cleaning, and recursive empty-field stripping.
package format

import (
	"fmt"
	"strconv"
	"time"
)

// RelativeTime parses a Slack "sec.usec" timestamp and renders it
// relative to now, per the classification in spec §4.5. Non-numeric
// input is returned unchanged.
func RelativeTime(ts string, now time.Time) string {
	secs, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return ts
	}

	t := time.Unix(0, int64(secs*float64(time.Second))).In(now.Location())
	d := now.Sub(t)

	switch {
	case d < 60*time.Second:
		return "just now"
	case d < time.Hour:
		mins := int(d / time.Minute)
		return fmt.Sprintf("%d min ago", mins)
	}

	hour, minute := hour12(t)

	nowMidnight := midnight(now)
	tMidnight := midnight(t)
	dayDiff := int(nowMidnight.Sub(tMidnight).Hours() / 24)

	switch {
	case dayDiff == 0:
		return fmt.Sprintf("today at %d:%02d %s", hour, minute, ampm(t))
	case dayDiff == 1:
		return fmt.Sprintf("yesterday at %d:%02d %s", hour, minute, ampm(t))
	case dayDiff >= 2 && dayDiff <= 6:
		return fmt.Sprintf("%s at %d:%02d %s", t.Weekday().String(), hour, minute, ampm(t))
	case t.Year() == now.Year():
		return fmt.Sprintf("%s %d at %d:%02d %s", t.Month().String()[:3], t.Day(), hour, minute, ampm(t))
	default:
		return fmt.Sprintf("%s %d, %d at %d:%02d %s", t.Month().String()[:3], t.Day(), t.Year(), hour, minute, ampm(t))
	}
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func ampm(t time.Time) string {
	if t.Hour() < 12 {
		return "AM"
	}
	return "PM"
}

// hour12 returns the 12-hour-clock hour (12 for midnight/noon) and the
// zero-padded minute.
func hour12(t time.Time) (int, int) {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	return h, t.Minute()
}
