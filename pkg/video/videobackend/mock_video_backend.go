package videobackend

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/google/uuid"
	"github.com/tauraamui/framextract/pkg/video/videoframe"
	"github.com/tauraamui/xerror"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// MockSettings describes the synthetic footage served by the mock backend.
// Decodable caps how many frames can actually be read, zero means all of
// FrameCount, which lets a source overstate its length like real containers do.
type MockSettings struct {
	FPS        float64
	FrameCount int
	Decodable  int
}

const (
	mockFrameW = 320
	mockFrameH = 180
)

type mockVideoBackend struct {
	settings MockSettings
}

func (b *mockVideoBackend) Open(cancel context.Context, addr string) (Source, error) {
	if err := cancel.Err(); err != nil {
		return nil, xerror.Errorf("open cancelled: %w", err)
	}
	if len(addr) == 0 {
		return nil, xerror.New("mock source address is undefined")
	}

	decodable := b.settings.Decodable
	if decodable <= 0 || decodable > b.settings.FrameCount {
		decodable = b.settings.FrameCount
	}

	return &mockVideoSource{
		title:     addr,
		fps:       b.settings.FPS,
		count:     b.settings.FrameCount,
		decodable: decodable,
	}, nil
}

func (b *mockVideoBackend) NewFrame() videoframe.Frame {
	return videoframe.NewImageFrame()
}

func (b *mockVideoBackend) NewWriter() FrameWriter {
	return &jpegFrameWriter{}
}

type mockVideoSource struct {
	uuid      string
	title     string
	fps       float64
	count     int
	decodable int
	pos       int
	closed    bool
	canvas    image.Image
}

func (mvs *mockVideoSource) UUID() string {
	if len(mvs.uuid) == 0 {
		mvs.uuid = uuid.NewString()
	}
	return mvs.uuid
}

func (mvs *mockVideoSource) FPS() float64 { return mvs.fps }

func (mvs *mockVideoSource) FrameCount() int { return mvs.count }

func (mvs *mockVideoSource) Seek(index int) error {
	if index < 0 || index > mvs.count {
		return xerror.Errorf("cannot seek to frame %d of %d", index, mvs.count)
	}
	mvs.pos = index
	return nil
}

func (mvs *mockVideoSource) Read(frame videoframe.Frame) error {
	ref, ok := frame.DataRef().(*videoframe.ImageFrame)
	if !ok {
		return xerror.New("must pass image frame to mock source read")
	}
	if mvs.closed {
		return xerror.New("unable to read from closed mock source")
	}
	if mvs.pos >= mvs.decodable {
		return xerror.New("unable to read from mock source: end of stream")
	}

	if mvs.canvas == nil {
		mvs.canvas = renderBaseFrameCanvas(mockFrameW, mockFrameH)
	}

	img := cloneImage(mvs.canvas)
	if err := drawText(img, 8, 60, fmt.Sprintf("FRAME %06d", mvs.pos)); err != nil {
		return xerror.Errorf("unable to draw text onto mock frame: %w", err)
	}
	if err := drawText(img, 8, 140, mvs.title); err != nil {
		return xerror.Errorf("unable to draw text onto mock frame: %w", err)
	}

	ref.Img = img
	mvs.pos++
	return nil
}

func (mvs *mockVideoSource) Close() error {
	mvs.closed = true
	mvs.canvas = nil
	return nil
}

func renderBaseFrameCanvas(w, h int) image.Image {
	hw, hh := float64(w/2), float64(h/2)
	r := float64(h) / 2
	θ := 2 * math.Pi / 3
	cr := &circle{hw - r*math.Sin(0), hh - r*math.Cos(0), float64(h) * 0.75}
	cg := &circle{hw - r*math.Sin(θ), hh - r*math.Cos(θ), float64(h) * 0.75}
	cb := &circle{hw - r*math.Sin(-θ), hh - r*math.Cos(-θ), float64(h) * 0.75}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{
				cr.Brightness(float64(x), float64(y)),
				cg.Brightness(float64(x), float64(y)),
				cb.Brightness(float64(x), float64(y)),
				255,
			})
		}
	}
	return img
}

func cloneImage(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

var (
	fontOnce   sync.Once
	parsedFont *truetype.Font
	fontErr    error
)

func mockFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		parsedFont, fontErr = freetype.ParseFont(goregular.TTF)
	})
	return parsedFont, fontErr
}

func drawText(canvas *image.RGBA, x, y int, text string) error {
	fontFace, err := mockFont()
	if err != nil {
		return err
	}

	fontDrawer := &font.Drawer{
		Dst: canvas,
		Src: image.White,
		Face: truetype.NewFace(fontFace, &truetype.Options{
			Size:    28,
			Hinting: font.HintingFull,
		}),
	}
	fontDrawer.Dot = fixed.Point26_6{
		X: fixed.I(x),
		Y: fixed.I(y),
	}
	fontDrawer.DrawString(text)
	return nil
}

type circle struct {
	X, Y, R float64
}

func (c *circle) Brightness(x, y float64) uint8 {
	var dx, dy float64 = c.X - x, c.Y - y
	if math.Sqrt(dx*dx+dy*dy)/c.R > 1 {
		return 0
	}
	return 255
}
