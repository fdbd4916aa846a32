// Package framerange turns a window of minutes into a half-open range of
// frame indexes for a specific video.
package framerange

import (
	"errors"
	"fmt"
	"math"

	"github.com/tauraamui/framextract/pkg/timewindow"
	"github.com/tauraamui/xerror"
)

var (
	ErrOutOfRange      = errors.New("frame range is out of bounds")
	ErrStartOutOfRange = fmt.Errorf("start time is out of range: %w", ErrOutOfRange)
	ErrEndOutOfRange   = fmt.Errorf("end time is out of range: %w", ErrOutOfRange)
	ErrInvalidFPS      = fmt.Errorf("video reports unusable frame rate: %w", ErrOutOfRange)
)

// Range is [Start, End) over the frames of a video.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int { return r.End - r.Start }

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Contains reports whether index falls inside the range.
func (r Range) Contains(index int) bool {
	return index >= r.Start && index < r.End
}

// FrameIndex converts minutes to a frame index as floor(minutes * 60 * fps).
func FrameIndex(minutes, fps float64) int {
	return int(math.Floor(minutes * 60 * fps))
}

// Resolve validates the window against the video's frame count. A missing or
// negative bound is treated as open on that side.
func Resolve(fps float64, totalFrames int, w timewindow.Window) (Range, error) {
	if fps <= 0 || math.IsNaN(fps) || math.IsInf(fps, 0) {
		return Range{}, xerror.Errorf("%w: %v", ErrInvalidFPS, fps)
	}

	r := Range{Start: 0, End: totalFrames}
	if w.Start != nil && *w.Start >= 0 {
		r.Start = FrameIndex(*w.Start, fps)
	}
	if w.End != nil && *w.End >= 0 {
		r.End = FrameIndex(*w.End, fps)
	}

	if r.Start < 0 || r.Start >= totalFrames {
		return Range{}, xerror.Errorf(
			"%w: frame %d not in [0, %d)", ErrStartOutOfRange, r.Start, totalFrames,
		)
	}

	if r.End <= r.Start || r.End > totalFrames {
		return Range{}, xerror.Errorf(
			"%w: frame %d not in (%d, %d]", ErrEndOutOfRange, r.End, r.Start, totalFrames,
		)
	}

	return r, nil
}
