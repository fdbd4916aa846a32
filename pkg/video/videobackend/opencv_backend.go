package videobackend

import (
	"context"

	"github.com/google/uuid"
	"github.com/tauraamui/framextract/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"gocv.io/x/gocv"
)

type openCVFrame struct {
	isClosed bool
	mat      gocv.Mat
}

func (frame *openCVFrame) DataRef() interface{} {
	return &frame.mat
}

func (frame *openCVFrame) Dimensions() videoframe.Dimensions {
	return videoframe.Dimensions{W: frame.mat.Cols(), H: frame.mat.Rows()}
}

func (frame *openCVFrame) Close() {
	if !frame.isClosed {
		frame.mat.Close()
		frame.isClosed = true
	}
}

type openCVBackend struct{}

func (b *openCVBackend) Open(cancel context.Context, addr string) (Source, error) {
	src := openCVSource{}
	if err := src.connect(cancel, addr); err != nil {
		return nil, err
	}
	return &src, nil
}

func (b *openCVBackend) NewFrame() videoframe.Frame {
	return &openCVFrame{mat: gocv.NewMat()}
}

func (b *openCVBackend) NewWriter() FrameWriter {
	return &openCVFrameWriter{}
}

type openCVFrameWriter struct{}

var writeImage = func(path string, mat gocv.Mat) bool {
	return gocv.IMWrite(path, mat)
}

func (w *openCVFrameWriter) Write(path string, frame videoframe.Frame) error {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to OpenCV writer")
	}
	if mat.Empty() {
		return xerror.New("cannot write empty frame")
	}
	if ok := writeImage(path, *mat); !ok {
		return xerror.Errorf("unable to encode frame to %s", path)
	}
	return nil
}

type openCVSource struct {
	uuid string
	vc   *gocv.VideoCapture
}

func (s *openCVSource) connect(cancel context.Context, addr string) error {
	connAndError := make(chan openVideoStreamResult, 1)
	go openVideoStream(addr, connAndError)
	select {
	case r := <-connAndError:
		if r.err != nil {
			if r.vc != nil {
				closeVideoCapture(r.vc)
			}
			return r.err
		}
		s.vc = r.vc
		return nil
	case <-cancel.Done():
		go releaseAbandonedStream(connAndError)
		return xerror.Errorf("open cancelled: %w", cancel.Err())
	}
}

type openVideoStreamResult struct {
	vc  *gocv.VideoCapture
	err error
}

func openVideoStream(addr string, d chan openVideoStreamResult) {
	vc, err := openVideoCapture(addr)
	d <- openVideoStreamResult{vc: vc, err: err}
}

func releaseAbandonedStream(d chan openVideoStreamResult) {
	if r := <-d; r.vc != nil {
		closeVideoCapture(r.vc)
	}
}

var openVideoCapture = func(addr string) (*gocv.VideoCapture, error) {
	return gocv.OpenVideoCapture(addr)
}

var closeVideoCapture = func(vc *gocv.VideoCapture) error {
	return vc.Close()
}

var readFromVideoCapture = func(vc *gocv.VideoCapture, mat *gocv.Mat) bool {
	if vc.IsOpened() {
		return vc.Read(mat)
	}
	return false
}

var getCaptureProperty = func(vc *gocv.VideoCapture, prop gocv.VideoCaptureProperties) float64 {
	return vc.Get(prop)
}

var setCaptureProperty = func(vc *gocv.VideoCapture, prop gocv.VideoCaptureProperties, v float64) {
	vc.Set(prop, v)
}

func (s *openCVSource) UUID() string {
	if len(s.uuid) == 0 {
		s.uuid = uuid.NewString()
	}
	return s.uuid
}

func (s *openCVSource) FPS() float64 {
	return getCaptureProperty(s.vc, gocv.VideoCaptureFPS)
}

func (s *openCVSource) FrameCount() int {
	return int(getCaptureProperty(s.vc, gocv.VideoCaptureFrameCount))
}

func (s *openCVSource) Seek(index int) error {
	if index < 0 {
		return xerror.Errorf("cannot seek to negative frame %d", index)
	}
	setCaptureProperty(s.vc, gocv.VideoCapturePosFrames, float64(index))
	return nil
}

func (s *openCVSource) Read(frame videoframe.Frame) error {
	mat, ok := frame.DataRef().(*gocv.Mat)
	if !ok {
		return xerror.New("must pass OpenCV frame to OpenCV source read")
	}
	if ok = readFromVideoCapture(s.vc, mat); !ok {
		return xerror.New("unable to read from video source")
	}
	return nil
}

func (s *openCVSource) Close() error {
	return closeVideoCapture(s.vc)
}
