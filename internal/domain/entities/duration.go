package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxDurationMinutes is the longest duration a single record may carry.
const MaxDurationMinutes = 12 * 60

// Duration is a picked work duration. TotalMinutes is the source of truth;
// the hour/minute split is derived from it.
type Duration struct {
	total int
}

// DurationFromMinutes builds a duration from a total minute count.
func DurationFromMinutes(total int) Duration {
	return Duration{total: total}
}

// NewDuration builds a duration from an hour/minute pair.
func NewDuration(hours, minutes int) Duration {
	return Duration{total: hours*60 + minutes}
}

// ParseClock parses an "HH:mm" picker value: two digits on each side of the
// colon, no sign.
func ParseClock(s string) (Duration, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || !twoDigits(h) || !twoDigits(m) {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	if minutes > 59 {
		return Duration{}, fmt.Errorf("%w: %q", ErrInvalidDuration, s)
	}
	return NewDuration(hours, minutes), nil
}

func twoDigits(s string) bool {
	return len(s) == 2 && s[0] >= '0' && s[0] <= '9' && s[1] >= '0' && s[1] <= '9'
}

// TotalMinutes returns hours*60+minutes.
func (d Duration) TotalMinutes() int { return d.total }

// Hours returns the whole-hour part.
func (d Duration) Hours() int { return d.total / 60 }

// Minutes returns the minute part (0-59).
func (d Duration) Minutes() int { return d.total % 60 }

// Validate checks the duration against the 12 hour cap and the picker step.
func (d Duration) Validate(step int) error {
	if d.total < 0 {
		return ErrInvalidDuration
	}
	if d.total > MaxDurationMinutes {
		return ErrDurationTooLong
	}
	if step > 0 && d.Minutes()%step != 0 {
		return ErrDurationStep
	}
	return nil
}

// Clock formats the duration as "HH:mm".
func (d Duration) Clock() string {
	return fmt.Sprintf("%02d:%02d", d.Hours(), d.Minutes())
}

// String formats the duration as "1h 30m".
func (d Duration) String() string {
	return FormatMinutes(d.total)
}

// FormatMinutes renders a minute count the way the record table shows it.
func FormatMinutes(total int) string {
	if total <= 0 {
		return "0h 0m"
	}
	return fmt.Sprintf("%dh %dm", total/60, total%60)
}
