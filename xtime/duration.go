package xtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Units supported by ParseDuration and FormatDuration, in addition to the
// ones of time.ParseDuration.
var units = []struct {
	symbol string
	dur    time.Duration
}{
	{"Y", 365 * 24 * time.Hour},
	{"M", 30 * 24 * time.Hour},
	{"w", 7 * 24 * time.Hour},
	{"d", 24 * time.Hour},
}

// ParseDuration parses a duration string that can also contain the units "d"
// (day), "w" (week), "M" (30 days) and "Y" (365 days), e.g. "7d", "1w12h" or
// "-1.5w". These units must precede the standard ones.
func ParseDuration(s string) (time.Duration, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return 0, fmt.Errorf("invalid duration '%s'", orig)
	}

	var total time.Duration
	for s != "" {
		i := strings.IndexFunc(s, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.'
		})
		if i == 0 {
			return 0, fmt.Errorf("invalid duration '%s'", orig)
		}
		if i < 0 {
			// Bare numbers are only allowed for 0, like in time.ParseDuration.
			if s == "0" {
				break
			}
			return 0, fmt.Errorf("missing unit in duration '%s'", orig)
		}

		num, rest := s[:i], s[i:]
		if dur, n, ok := parseUnit(num, rest); ok {
			total += dur
			s = rest[n:]
			continue
		}

		// Let the standard library handle the remaining units.
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration '%s': %w", orig, err)
		}
		total += d
		break
	}

	if neg {
		total = -total
	}

	return total, nil
}

func parseUnit(num, rest string) (time.Duration, int, bool) {
	for _, u := range units {
		if !strings.HasPrefix(rest, u.symbol) {
			continue
		}
		// "ms" is handled by time.ParseDuration.
		if u.symbol == "M" && strings.HasPrefix(rest, "Ms") {
			continue
		}
		f, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, 0, false
		}
		return time.Duration(f * float64(u.dur)), len(u.symbol), true
	}

	return 0, 0, false
}

// FormatDuration formats a duration using the largest units that fit, down to
// seconds, e.g. "1w2d", "3h20m" or "-1Y". Sub-second precision is dropped.
func FormatDuration(d time.Duration) string {
	d = d.Truncate(time.Second)
	if d == 0 {
		return "0s"
	}

	var sb strings.Builder
	if d < 0 {
		sb.WriteByte('-')
		d = -d
	}

	for _, u := range units {
		if n := d / u.dur; n > 0 {
			fmt.Fprintf(&sb, "%d%s", n, u.symbol)
			d -= n * u.dur
		}
	}
	for _, u := range []struct {
		symbol string
		dur    time.Duration
	}{{"h", time.Hour}, {"m", time.Minute}, {"s", time.Second}} {
		if n := d / u.dur; n > 0 {
			fmt.Fprintf(&sb, "%d%s", n, u.symbol)
			d -= n * u.dur
		}
	}

	return sb.String()
}

// ErrNegative is returned by ParsePositiveDuration for durations below zero.
var ErrNegative = errors.New("duration must not be negative")

// ParsePositiveDuration is like ParseDuration, but rejects negative values.
func ParsePositiveDuration(s string) (time.Duration, error) {
	d, err := ParseDuration(s)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, ErrNegative
	}

	return d, nil
}
