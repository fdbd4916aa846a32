package videobackend_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tauraamui/framextract/pkg/video/videobackend"
)

func TestVideoBackendDefaultBackend(t *testing.T) {
	is := is.New(t)
	is.True(videobackend.Default() != nil)
}

func TestResolvePicksMockByName(t *testing.T) {
	is := is.New(t)
	mock := videobackend.Resolve(videobackend.MockName, videobackend.MockSettings{FPS: 30, FrameCount: 10})
	is.Equal(mock, videobackend.Mock(videobackend.MockSettings{FPS: 30, FrameCount: 10}))
}

func TestResolveFallsBackToOpenCV(t *testing.T) {
	is := is.New(t)
	is.Equal(videobackend.Resolve("", videobackend.MockSettings{}), videobackend.OpenCV())
	is.Equal(videobackend.Resolve("unknown", videobackend.MockSettings{}), videobackend.OpenCV())
}
