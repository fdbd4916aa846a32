package log_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/framextract/pkg/log"
)

func TestSetLevelMapsKnownNames(t *testing.T) {
	is := is.New(t)
	defer log.SetLevel("warn")

	log.SetLevel("INFO")
	is.Equal(logging.CurrentLoggingLevel, logging.InfoLevel)

	log.SetLevel("debug")
	is.Equal(logging.CurrentLoggingLevel, logging.DebugLevel)
	is.True(logging.CallbackLabel)

	log.SetLevel("silent")
	is.Equal(logging.CurrentLoggingLevel, logging.SilentLevel)
}

func TestSetLevelFallsBackToWarn(t *testing.T) {
	is := is.New(t)
	log.SetLevel("nonsense")
	is.Equal(logging.CurrentLoggingLevel, logging.WarnLevel)
	is.True(!logging.CallbackLabel)
}
