package videobackend

import (
	"image/jpeg"

	"github.com/tauraamui/framextract/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
)

// jpegFrameWriter encodes image frames onto the package fs.
type jpegFrameWriter struct{}

func (w *jpegFrameWriter) Write(path string, frame videoframe.Frame) error {
	ref, ok := frame.DataRef().(*videoframe.ImageFrame)
	if !ok {
		return xerror.New("must pass image frame to JPEG writer")
	}
	if ref.Img == nil {
		return xerror.New("cannot write empty frame")
	}

	file, err := fs.Create(path)
	if err != nil {
		return xerror.Errorf("unable to create/open file: %w", err)
	}

	if err := jpeg.Encode(file, ref.Img, nil); err != nil {
		file.Close()
		return xerror.Errorf("unable to encode frame to %s: %w", path, err)
	}
	return file.Close()
}
