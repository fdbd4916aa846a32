package videoframe

import "image"

type Dimensions struct {
	W, H int
}

// Frame is a decode target. Backends fill the value behind DataRef
// in place so a single frame can be reused for a whole extraction.
type Frame interface {
	DataRef() interface{}
	Dimensions() Dimensions
	Close()
}

// ImageFrame holds a decoded frame as a Go image.
type ImageFrame struct {
	Img *image.RGBA
}

func NewImageFrame() *ImageFrame {
	return &ImageFrame{}
}

func (f *ImageFrame) DataRef() interface{} {
	return f
}

func (f *ImageFrame) Dimensions() Dimensions {
	if f.Img == nil {
		return Dimensions{}
	}
	b := f.Img.Bounds()
	return Dimensions{W: b.Dx(), H: b.Dy()}
}

func (f *ImageFrame) Close() {
	f.Img = nil
}
