package videobackend

import (
	"context"

	"github.com/spf13/afero"
	"github.com/tauraamui/framextract/pkg/video/videoframe"
)

var fs = afero.NewOsFs()

// Source is an open video which is read one frame at a time from
// wherever it was last seeked to.
type Source interface {
	UUID() string
	FPS() float64
	FrameCount() int
	Seek(int) error
	Read(videoframe.Frame) error
	Close() error
}

// FrameWriter encodes a single frame to an image file, the format
// is picked from the file extension.
type FrameWriter interface {
	Write(string, videoframe.Frame) error
}

type Backend interface {
	Open(context.Context, string) (Source, error)
	NewFrame() videoframe.Frame
	NewWriter() FrameWriter
}

const (
	OpenCVName = "opencv"
	MockName   = "mock"
)

func Default() Backend {
	return OpenCV()
}

func OpenCV() Backend {
	return &openCVBackend{}
}

func Mock(settings MockSettings) Backend {
	return &mockVideoBackend{settings: settings}
}

func Resolve(t string, mock MockSettings) Backend {
	switch t {
	case MockName:
		return Mock(mock)
	default:
		return Default()
	}
}
