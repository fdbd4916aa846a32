// Package timewindow parses the "minutes.seconds" bounds accepted on the
// command line into a window measured in minutes.
package timewindow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tauraamui/xerror"
)

const (
	StartLiteral = "start"
	EndLiteral   = "end"
)

var ErrMalformedTime = errors.New("malformed time value")

// Window bounds are in minutes, a nil bound is open.
type Window struct {
	Start *float64
	End   *float64
}

func All() Window { return Window{} }

func Minutes(v float64) *float64 { return &v }

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", boundString(w.Start, StartLiteral), boundString(w.End, EndLiteral))
}

func boundString(b *float64, open string) string {
	if b == nil {
		return open
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}

// Parse builds a window from the raw --from/--to values. Empty strings mean
// the flag was not given, and all discards both bounds.
func Parse(from, to string, all bool) (Window, error) {
	if all {
		return All(), nil
	}

	var w Window
	switch from {
	case "":
	case StartLiteral:
		w.Start = Minutes(0)
	default:
		start, err := ParseBound(from)
		if err != nil {
			return Window{}, err
		}
		w.Start = &start
	}

	switch to {
	case "", EndLiteral:
	default:
		end, err := ParseBound(to)
		if err != nil {
			return Window{}, err
		}
		w.End = &end
	}

	return w, nil
}

// ParseBound converts "m.s" into m + s/60 minutes. The part after the dot is
// read as a whole number of seconds, so "1.5" and "1.05" are equal.
func ParseBound(value string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(value), ".")
	if len(parts) > 2 {
		return 0, malformed(value)
	}

	minutes, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, malformed(value)
	}

	if len(parts) == 1 {
		return minutes, nil
	}

	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, malformed(value)
	}

	return minutes + seconds/60, nil
}

func malformed(value string) error {
	return xerror.Errorf("%w: %q, expected minutes.seconds", ErrMalformedTime, value)
}
