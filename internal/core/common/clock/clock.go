// Package clock parses the informal time notations used on schedule grids and
// time sheets: 12-hour labels like "9am" or "9:30pm" and 24-hour "HH:MM"
// punches. All results are minutes from midnight.
package clock

import (
	"strconv"
	"strings"

	"github.com/bpohub/workforce/internal"
)

const MinutesPerDay = 24 * 60

// ParseLabel parses a 12-hour clock label ("9am", "12pm", "9:30pm") or a
// 24-hour "HH:MM" value into minutes from midnight.
func ParseLabel(s string) (int, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return 0, internal.NewValidationError("empty time value", internal.ErrCodeInvalidShift)
	}

	var meridiem string
	switch {
	case strings.HasSuffix(v, "am"):
		meridiem = "am"
		v = strings.TrimSpace(strings.TrimSuffix(v, "am"))
	case strings.HasSuffix(v, "pm"):
		meridiem = "pm"
		v = strings.TrimSpace(strings.TrimSuffix(v, "pm"))
	}

	hourPart := v
	minutePart := "0"
	if idx := strings.Index(v, ":"); idx >= 0 {
		hourPart = v[:idx]
		minutePart = v[idx+1:]
	}

	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, internal.NewValidationError("invalid time value: "+s, internal.ErrCodeInvalidShift)
	}
	minute, err := strconv.Atoi(minutePart)
	if err != nil || minute < 0 || minute > 59 {
		return 0, internal.NewValidationError("invalid time value: "+s, internal.ErrCodeInvalidShift)
	}

	switch meridiem {
	case "am":
		if hour < 1 || hour > 12 {
			return 0, internal.NewValidationError("invalid time value: "+s, internal.ErrCodeInvalidShift)
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return 0, internal.NewValidationError("invalid time value: "+s, internal.ErrCodeInvalidShift)
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour < 0 || hour > 23 {
			return 0, internal.NewValidationError("invalid time value: "+s, internal.ErrCodeInvalidShift)
		}
	}

	return hour*60 + minute, nil
}

// ParseShiftLabel splits a "<start> to <end>" shift label into minutes from
// midnight for both ends. The end may be numerically before the start for
// shifts that cross midnight; callers adjust with a day of minutes.
func ParseShiftLabel(label string) (start, end int, err error) {
	parts := strings.Split(label, " to ")
	if len(parts) != 2 {
		return 0, 0, internal.NewValidationError("invalid shift label: "+label, internal.ErrCodeInvalidShift)
	}

	start, err = ParseLabel(parts[0])
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseLabel(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// FormatMinutes renders minutes from midnight as 24-hour "HH:MM".
func FormatMinutes(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	h := m / 60
	return pad2(h) + ":" + pad2(m%60)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
