package video_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reelforge/reelforge/internal/log"
	"github.com/reelforge/reelforge/internal/video"
)

// writeStubEncoder writes a shell script standing in for ffmpeg. It records
// its arguments to argsPath, writes marker bytes to the output path (the
// last argument) and exits 0.
func writeStubEncoder(t *testing.T, argsPath string) string {
	t.Helper()

	script := "#!/bin/sh\n" +
		`printf '%s\n' "$@" > "` + argsPath + `"` + "\n" +
		`for a in "$@"; do out="$a"; done` + "\n" +
		`printf 'stub-video-bytes' > "$out"` + "\n"

	path := filepath.Join(t.TempDir(), "stub-ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// writeFailingEncoder writes a stub that exits with the given code.
func writeFailingEncoder(t *testing.T, code string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "failing-ffmpeg")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\nexit "+code+"\n"), 0o755))
	return path
}

func TestRender_Success(t *testing.T) {
	argsPath := filepath.Join(t.TempDir(), "args.txt")
	tc := video.New(writeStubEncoder(t, argsPath), log.NewNop())

	// Route temp files to a known directory so cleanup can be asserted.
	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	out, err := tc.Render(context.Background(), []byte("png-bytes"), video.Options{})
	require.NoError(t, err)
	assert.Equal(t, []byte("stub-video-bytes"), out)

	// The per-call temp directory must be gone.
	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)

	raw, err := os.ReadFile(argsPath)
	require.NoError(t, err)
	args := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Contains(t, args, "-loop")
	assert.Contains(t, args, "yuv420p")
	assert.Contains(t, args, "+faststart")
	assert.Contains(t, args, "8") // default duration in seconds
}

func TestRender_QuotedCaptionReachesEncoderEscaped(t *testing.T) {
	argsPath := filepath.Join(t.TempDir(), "args.txt")
	tc := video.New(writeStubEncoder(t, argsPath), log.NewNop())

	_, err := tc.Render(context.Background(), []byte("png-bytes"), video.Options{
		CaptionOverlay: "it's cozy season",
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(argsPath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `it\'s cozy season`)
}

func TestRender_EncoderFailureCarriesExitCode(t *testing.T) {
	tc := video.New(writeFailingEncoder(t, "3"), log.NewNop())

	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	_, err := tc.Render(context.Background(), []byte("png-bytes"), video.Options{})
	require.Error(t, err)

	var verr *video.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, 3, verr.ExitCode)

	// Temp files are released on the failure path too.
	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRender_SpawnFailure(t *testing.T) {
	tc := video.New(filepath.Join(t.TempDir(), "missing-binary"), log.NewNop())

	scratch := t.TempDir()
	t.Setenv("TMPDIR", scratch)

	_, err := tc.Render(context.Background(), []byte("png-bytes"), video.Options{})
	require.Error(t, err)

	var verr *video.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, -1, verr.ExitCode)

	entries, err := os.ReadDir(scratch)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
