package schedule

import (
	"strconv"
	"strings"
)

// ParseClock converts a 12-hour "H:MM AM/PM" string into minutes since
// midnight. Anything it cannot read, including hours outside 1..12, is
// treated as midnight.
func ParseClock(s string) int {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return 0
	}
	clock, period := parts[0], strings.ToUpper(parts[1])

	hourStr, minStr, _ := strings.Cut(clock, ":")
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 1 || hour > 12 {
		return 0
	}
	minute := 0
	if minStr != "" {
		minute, err = strconv.Atoi(minStr)
		if err != nil || minute < 0 || minute > 59 {
			return 0
		}
	}

	switch {
	case period == "PM" && hour != 12:
		hour += 12
	case period == "AM" && hour == 12:
		hour = 0
	}
	return hour*60 + minute
}

// FormatClock renders minutes since midnight back into "H:MM AM/PM".
func FormatClock(minutes int) string {
	minutes = ((minutes % 1440) + 1440) % 1440
	h, m := minutes/60, minutes%60
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	h %= 12
	if h == 0 {
		h = 12
	}
	return strconv.Itoa(h) + ":" + pad2(m) + " " + period
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
