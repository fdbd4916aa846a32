package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/tauraamui/framextract/internal/config"
	"github.com/tauraamui/framextract/pkg/extract"
	"github.com/tauraamui/framextract/pkg/framerange"
	"github.com/tauraamui/framextract/pkg/log"
	"github.com/tauraamui/framextract/pkg/timewindow"
	"github.com/tauraamui/framextract/pkg/video/videobackend"
	"golang.org/x/term"
)

const (
	name        = "framextract"
	description = "Extract a range of frames from a video file as numbered JPEG images"
)

var Version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var resolveConfig = config.DefaultResolver().Resolve

var resolveBackend = videobackend.Resolve

var isTerminal = func(fd int) bool {
	return term.IsTerminal(fd)
}

type options struct {
	videoPath string
	destDir   string
	from      string
	to        string
	backend   string
	all       bool
	version   bool
}

func usage(w io.Writer, flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(w, "%s: %s\n\n", name, description)
		fmt.Fprintf(w, "Usage:\n  %s [--all] [--from m.ss|start] [--to m.ss|end] <video_path> <dest_dir>\n\n", name)
		flags.PrintDefaults()
	}
}

// parseArgs accepts flags before, between or after the two positional
// arguments.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	opts := options{}
	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = usage(stderr, flags)
	flags.BoolVar(&opts.all, "all", false, "extract every frame, overrides --from and --to")
	flags.StringVar(&opts.from, "from", "", "start time in minutes.seconds format or 'start' for the beginning")
	flags.StringVar(&opts.to, "to", "", "end time in minutes.seconds format or 'end' for the end")
	flags.StringVar(&opts.backend, "backend", "", "video backend to decode with (opencv|mock), overrides config")
	flags.BoolVar(&opts.version, "version", false, "print version and exit")

	positional := []string{}
	for {
		if err := flags.Parse(args); err != nil {
			return opts, err
		}
		args = flags.Args()
		if len(args) == 0 {
			break
		}
		positional = append(positional, args[0])
		args = args[1:]
	}

	if opts.version {
		return opts, nil
	}

	if len(positional) != 2 {
		fmt.Fprintf(stderr, "Error: expected <video_path> and <dest_dir>, got %d arguments\n", len(positional))
		flags.Usage()
		return opts, flag.ErrHelp
	}

	switch opts.backend {
	case "", videobackend.OpenCVName, videobackend.MockName:
	default:
		fmt.Fprintf(stderr, "Error: unknown backend %q\n", opts.backend)
		return opts, flag.ErrHelp
	}

	opts.videoPath, opts.destDir = positional[0], positional[1]
	return opts, nil
}

// progressReporter returns a nil Progress when w is not a terminal. The
// returned finish func terminates the progress line if anything was drawn.
func progressReporter(w io.Writer) (extract.Progress, func()) {
	f, ok := w.(*os.File)
	if !ok || !isTerminal(int(f.Fd())) {
		return nil, func() {}
	}
	drawn := false
	return func(index, done, total int) {
			drawn = true
			fmt.Fprintf(f, "\rExtracting frame %06d (%d/%d)", index, done, total)
		}, func() {
			if drawn {
				fmt.Fprint(f, "\n")
			}
		}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) && len(args) > 0 && isHelpFlag(args) {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, Version)
		return exitOK
	}

	cfg, err := resolveConfig()
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return exitFailure
	}
	log.SetLevel(cfg.LoggingLevel)

	backendName := cfg.Backend
	if len(opts.backend) > 0 {
		backendName = opts.backend
	}

	window, err := timewindow.Parse(opts.from, opts.to, opts.all)
	if err != nil {
		fmt.Fprintf(stdout, "Error: %v\n", err)
		return exitFailure
	}
	log.Debug("Extracting %s from %s using %s backend", window, opts.videoPath, backendName)

	backend := resolveBackend(backendName, videobackend.MockSettings{
		FPS:        cfg.Mock.FPS,
		FrameCount: cfg.Mock.FrameCount,
		Decodable:  cfg.Mock.Decodable,
	})

	progress, finishProgress := progressReporter(stderr)
	result, err := extract.New(backend).OnProgress(progress).Extract(ctx, extract.Request{
		VideoPath: opts.videoPath,
		DestDir:   opts.destDir,
		Window:    window,
	})
	finishProgress()
	if err != nil {
		log.Error("%v", err)
		fmt.Fprintln(stdout, describeFailure(opts, result, err))
		return exitFailure
	}

	if result.Exhausted {
		log.Warn("Video ended at frame %d, before the requested end of %d", result.LastIndex+1, result.Range.End)
	}
	if result.FailedWrites > 0 {
		log.Warn("%d of %d frames could not be written", result.FailedWrites, result.Written+result.FailedWrites)
	}

	fmt.Fprintf(stdout, "Frames extracted to %s\n", opts.destDir)
	return exitOK
}

func describeFailure(opts options, result extract.Result, err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return fmt.Sprintf("Interrupted after extracting %d frames to %s", result.Written, opts.destDir)
	case errors.Is(err, extract.ErrOpen):
		return fmt.Sprintf("Error: Cannot open video file %s", opts.videoPath)
	case errors.Is(err, framerange.ErrStartOutOfRange):
		return "Error: Start time is out of range"
	case errors.Is(err, framerange.ErrEndOutOfRange):
		return "Error: End time is out of range"
	case errors.Is(err, framerange.ErrInvalidFPS):
		return "Error: Video reports an unusable frame rate"
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func isHelpFlag(args []string) bool {
	for _, a := range args {
		switch a {
		case "-h", "-help", "--help", "--h":
			return true
		}
	}
	return false
}

func init() {
	log.SetLevel(os.Getenv("FRAMEX_LOGGING_LEVEL"))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
