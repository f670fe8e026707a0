// Package video turns a still image into a short vertical reel by driving
// an external ffmpeg process.
package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reelforge/reelforge/internal/log"
)

// Output geometry and caption styling. The reel is always 1080x1920; the
// source image is scaled to fit and padded with black bars.
const (
	outputWidth  = 1080
	outputHeight = 1920

	captionFontSize  = 40
	captionBoxAlpha  = "0.6"
	captionBoxBorder = 20
	captionBottomPad = 200
)

// DefaultDuration is the reel length when the caller does not set one.
const DefaultDuration = 8 * time.Second

// Error reports a failed transcode. ExitCode is the encoder's exit status,
// or -1 when the process could not be started at all.
type Error struct {
	ExitCode int
	Err      error
}

func (e *Error) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("transcode failed: encoder exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("transcode failed: %v", e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Options configure a single render.
type Options struct {
	// Duration is the reel length. Zero means DefaultDuration.
	Duration time.Duration

	// CaptionOverlay, when non-empty, is burned into the video near the
	// bottom edge. The text is model-provided and therefore untrusted; it
	// is escaped before it enters the encoder's filter argument.
	CaptionOverlay string
}

// Transcoder renders still images into reels via an ffmpeg subprocess.
type Transcoder struct {
	ffmpeg string
	logger log.Logger
}

// New creates a Transcoder that invokes the given ffmpeg binary.
// ffmpegPath may be a bare command name resolved via PATH.
func New(ffmpegPath string, logger log.Logger) *Transcoder {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Transcoder{ffmpeg: ffmpegPath, logger: logger}
}

// Render loops the image into an H.264 reel and returns the encoded bytes.
// All temporary files live in a private per-call directory that is removed
// on every exit path.
func (t *Transcoder) Render(ctx context.Context, image []byte, opts Options) (_ []byte, retErr error) {
	duration := opts.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}

	tempDir, err := os.MkdirTemp("", "reelforge-")
	if err != nil {
		return nil, &Error{ExitCode: -1, Err: fmt.Errorf("creating temp dir: %w", err)}
	}
	defer func() {
		if err := os.RemoveAll(tempDir); err != nil && retErr == nil {
			t.logger.Warn("removing transcode temp dir", "dir", tempDir, "error", err)
		}
	}()

	inputPath := filepath.Join(tempDir, uuid.NewString()+".png")
	outputPath := filepath.Join(tempDir, uuid.NewString()+".mp4")

	if err := os.WriteFile(inputPath, image, 0o600); err != nil {
		return nil, &Error{ExitCode: -1, Err: fmt.Errorf("writing input image: %w", err)}
	}

	args := buildArgs(inputPath, outputPath, duration, opts.CaptionOverlay)

	cmd := exec.CommandContext(ctx, t.ffmpeg, args...)
	t.logger.Debug("starting encoder", "binary", t.ffmpeg, "duration", duration)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &Error{ExitCode: exitErr.ExitCode(), Err: err}
		}
		return nil, &Error{ExitCode: -1, Err: fmt.Errorf("starting encoder: %w", err)}
	}

	out, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, &Error{ExitCode: -1, Err: fmt.Errorf("reading encoder output: %w", err)}
	}

	t.logger.Debug("encoder finished", "output_bytes", len(out))
	return out, nil
}

// buildArgs assembles the full ffmpeg argument list. The caption reaches
// the filter chain as a single exec argument, never through a shell.
func buildArgs(inputPath, outputPath string, duration time.Duration, caption string) []string {
	seconds := strconv.Itoa(int(duration / time.Second))
	return []string{
		"-y",
		"-loop", "1",
		"-i", inputPath,
		"-c:v", "libx264",
		"-t", seconds,
		"-pix_fmt", "yuv420p",
		"-vf", buildFilter(caption),
		"-movflags", "+faststart",
		outputPath,
	}
}

// buildFilter assembles the -vf filter chain: scale to fit 1080x1920,
// pad with black bars, and optionally burn in the caption.
func buildFilter(caption string) string {
	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", outputWidth, outputHeight),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black", outputWidth, outputHeight),
	}

	if caption != "" {
		filters = append(filters, fmt.Sprintf(
			"drawtext=text='%s':fontcolor=white:fontsize=%d:box=1:boxcolor=black@%s:boxborderw=%d:x=(w-text_w)/2:y=h-%d",
			escapeDrawtext(caption), captionFontSize, captionBoxAlpha, captionBoxBorder, captionBottomPad,
		))
	}

	return strings.Join(filters, ",")
}

// escapeDrawtext escapes single quotes so untrusted caption text cannot
// terminate the quoted drawtext value.
func escapeDrawtext(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
