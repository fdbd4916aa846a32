// Package extract decodes a range of frames from a video and writes each
// one to a numbered JPEG file.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/tauraamui/framextract/pkg/framerange"
	"github.com/tauraamui/framextract/pkg/log"
	"github.com/tauraamui/framextract/pkg/timewindow"
	"github.com/tauraamui/framextract/pkg/video/videobackend"
	"github.com/tauraamui/xerror"
)

var fs = afero.NewOsFs()

var ErrOpen = errors.New("cannot open video file")

const frameNameFormat = "frame_%06d.jpg"

// FrameFileName gives the output name for an absolute frame index.
func FrameFileName(index int) string {
	return fmt.Sprintf(frameNameFormat, index)
}

type Request struct {
	VideoPath string
	DestDir   string
	Window    timewindow.Window
}

// Result describes a finished extraction. Exhausted is set when the
// source ran out of frames before Range.End, which is not an error.
type Result struct {
	SourceID     string
	DestDir      string
	Range        framerange.Range
	Written      int
	FailedWrites int
	LastIndex    int
	Exhausted    bool
}

// Progress is called after every frame that was handed to the writer.
type Progress func(index, done, total int)

type Extractor struct {
	backend  videobackend.Backend
	progress Progress
}

func New(backend videobackend.Backend) *Extractor {
	return &Extractor{backend: backend}
}

func (e *Extractor) OnProgress(p Progress) *Extractor {
	e.progress = p
	return e
}

func (e *Extractor) Extract(ctx context.Context, req Request) (Result, error) {
	src, err := e.backend.Open(ctx, req.VideoPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{}, err
		}
		return Result{}, xerror.Errorf("%w %s: %v", ErrOpen, req.VideoPath, err)
	}
	defer func() {
		if err := src.Close(); err != nil {
			log.Warn("unable to release video %s: %v", req.VideoPath, err)
		}
	}()

	fps, total := src.FPS(), src.FrameCount()
	log.Debug("Opened %s [%s] fps: %v, frames: %d", req.VideoPath, src.UUID(), fps, total)

	r, err := framerange.Resolve(fps, total, req.Window)
	if err != nil {
		return Result{}, err
	}

	if err := ensureDirectoryPathExists(req.DestDir); err != nil {
		return Result{}, xerror.Errorf("unable to create destination %s: %w", req.DestDir, err)
	}

	if err := src.Seek(r.Start); err != nil {
		return Result{}, xerror.Errorf("unable to seek to frame %d: %w", r.Start, err)
	}

	result := Result{
		SourceID:  src.UUID(),
		DestDir:   req.DestDir,
		Range:     r,
		LastIndex: r.Start - 1,
	}

	frame := e.backend.NewFrame()
	defer frame.Close()
	writer := e.backend.NewWriter()

	for index := r.Start; index < r.End; index++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := src.Read(frame); err != nil {
			log.Info("Stream exhausted at frame %d of %s: %v", index, r, err)
			result.Exhausted = true
			break
		}
		result.LastIndex = index

		path := filepath.Join(req.DestDir, FrameFileName(index))
		if err := writer.Write(path, frame); err != nil {
			log.Warn("Unable to write frame %d to %s: %v", index, path, err)
			result.FailedWrites++
		} else {
			result.Written++
		}

		if e.progress != nil {
			e.progress(index, index-r.Start+1, r.Len())
		}
	}

	log.Info(
		"Extracted %d frames of %s from %s to %s",
		result.Written, r, req.VideoPath, req.DestDir,
	)
	return result, nil
}

func ensureDirectoryPathExists(path string) error {
	err := fs.MkdirAll(path, os.ModePerm|os.ModeDir)
	if err == nil || os.IsExist(err) {
		return nil
	}
	return err
}
