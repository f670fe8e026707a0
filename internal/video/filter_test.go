package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildFilter_NoCaption(t *testing.T) {
	t.Parallel()

	got := buildFilter("")
	assert.Equal(t,
		"scale=1080:1920:force_original_aspect_ratio=decrease,"+
			"pad=1080:1920:(ow-iw)/2:(oh-ih)/2:black",
		got)
}

func TestBuildFilter_WithCaption(t *testing.T) {
	t.Parallel()

	got := buildFilter("Autumn latte")
	assert.Contains(t, got, "drawtext=text='Autumn latte'")
	assert.Contains(t, got, "fontcolor=white")
	assert.Contains(t, got, "fontsize=40")
	assert.Contains(t, got, "boxcolor=black@0.6")
	assert.Contains(t, got, "boxborderw=20")
	assert.Contains(t, got, "x=(w-text_w)/2")
	assert.Contains(t, got, "y=h-200")
}

func TestBuildFilter_EscapesSingleQuotes(t *testing.T) {
	t.Parallel()

	got := buildFilter("it's pumpkin o'clock")
	assert.Contains(t, got, `text='it\'s pumpkin o\'clock'`)
}

func TestEscapeDrawtext(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `plain`, escapeDrawtext("plain"))
	assert.Equal(t, `don\'t`, escapeDrawtext("don't"))
	assert.Equal(t, `\'\'`, escapeDrawtext("''"))
}

func TestBuildArgs(t *testing.T) {
	t.Parallel()

	args := buildArgs("/tmp/in.png", "/tmp/out.mp4", 8*time.Second, "")

	assert.Equal(t, []string{
		"-y",
		"-loop", "1",
		"-i", "/tmp/in.png",
		"-c:v", "libx264",
		"-t", "8",
		"-pix_fmt", "yuv420p",
		"-vf", buildFilter(""),
		"-movflags", "+faststart",
		"/tmp/out.mp4",
	}, args)
}
