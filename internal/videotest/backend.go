// Package videotest holds scripted video backends for tests which need to
// observe exactly how a source and writer were driven.
package videotest

import (
	"context"
	"errors"
	"sync"

	"github.com/tauraamui/framextract/pkg/video/videobackend"
	"github.com/tauraamui/framextract/pkg/video/videoframe"
)

var (
	ErrOpen      = errors.New("scripted open failure")
	ErrExhausted = errors.New("scripted end of stream")
	ErrWrite     = errors.New("scripted write failure")
)

// Script controls what the backend reports and where it fails.
type Script struct {
	FPS        float64
	FrameCount int
	// Decodable frames from zero, reads past it fail. Zero means FrameCount.
	Decodable int
	FailOpen  bool
	FailSeek  bool
	// FailWrites lists frame indexes whose write is rejected.
	FailWrites map[int]bool
	// AfterWrite runs once a frame has been recorded as written.
	AfterWrite func(index int)
}

// Backend records every call made against it.
type Backend struct {
	Script Script

	mu      sync.Mutex
	Opened  []string
	Closes  int
	Seeks   []int
	Reads   []int
	Written []string
}

func New(s Script) *Backend {
	return &Backend{Script: s}
}

func (b *Backend) Open(_ context.Context, addr string) (videobackend.Source, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Script.FailOpen {
		return nil, ErrOpen
	}
	b.Opened = append(b.Opened, addr)
	return &source{b: b}, nil
}

func (b *Backend) NewFrame() videoframe.Frame {
	return &Frame{}
}

func (b *Backend) NewWriter() videobackend.FrameWriter {
	return writer{b: b}
}

func (b *Backend) decodable() int {
	if b.Script.Decodable <= 0 || b.Script.Decodable > b.Script.FrameCount {
		return b.Script.FrameCount
	}
	return b.Script.Decodable
}

// Frame carries the index of the last frame decoded into it.
type Frame struct {
	Index  int
	Closed bool
}

func (f *Frame) DataRef() interface{}              { return f }
func (f *Frame) Dimensions() videoframe.Dimensions { return videoframe.Dimensions{W: 1, H: 1} }
func (f *Frame) Close()                            { f.Closed = true }

type source struct {
	b   *Backend
	pos int
}

func (s *source) UUID() string    { return "videotest" }
func (s *source) FPS() float64    { return s.b.Script.FPS }
func (s *source) FrameCount() int { return s.b.Script.FrameCount }

func (s *source) Seek(index int) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if s.b.Script.FailSeek {
		return errors.New("scripted seek failure")
	}
	s.b.Seeks = append(s.b.Seeks, index)
	s.pos = index
	return nil
}

func (s *source) Read(frame videoframe.Frame) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	if s.pos >= s.b.decodable() {
		return ErrExhausted
	}
	f, ok := frame.(*Frame)
	if !ok {
		return errors.New("must pass videotest frame")
	}
	f.Index = s.pos
	s.b.Reads = append(s.b.Reads, s.pos)
	s.pos++
	return nil
}

func (s *source) Close() error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	s.b.Closes++
	return nil
}

type writer struct {
	b *Backend
}

func (w writer) Write(path string, frame videoframe.Frame) error {
	f, ok := frame.(*Frame)
	if !ok {
		return errors.New("must pass videotest frame")
	}

	w.b.mu.Lock()
	if w.b.Script.FailWrites[f.Index] {
		w.b.mu.Unlock()
		return ErrWrite
	}
	w.b.Written = append(w.b.Written, path)
	w.b.mu.Unlock()

	if w.b.Script.AfterWrite != nil {
		w.b.Script.AfterWrite(f.Index)
	}
	return nil
}
