package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
)

// Style string passed to the subtitles filter on the first render attempt.
// force_style syntax is fragile across ffmpeg builds, so a failed styled
// attempt falls back to an unstyled overlay.
const burnStyle = "FontName=Arial,FontSize=40,PrimaryColour=&H00FFFFFF,OutlineColour=&H00000000,BorderStyle=1,Outline=3"

// stderr kept on failure, newest lines win
const maxDiagnostics = 4096

// FFmpeg is the production Transcoder backed by the ffmpeg binary.
type FFmpeg struct {
	binary string
	logger *logger.Logger
}

// NewFFmpeg creates an ffmpeg-backed transcoder. binary may be a bare name
// resolved via PATH or an absolute path.
func NewFFmpeg(binary string, log *logger.Logger) *FFmpeg {
	if binary == "" {
		binary = "ffmpeg"
	}
	return &FFmpeg{binary: binary, logger: log}
}

// Available reports whether the configured ffmpeg binary can be resolved.
func (f *FFmpeg) Available() bool {
	_, err := exec.LookPath(f.binary)
	return err == nil
}

// ExtractAudio implements Transcoder using "-q:a 0 -map a": single audio
// stream, best VBR quality, video discarded.
func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := swapExt(videoPath, ".mp3")

	f.logger.WithFields(map[string]interface{}{
		"input":  filepath.Base(videoPath),
		"output": filepath.Base(audioPath),
	}).Info("Extracting audio")

	if err := f.run(ctx, "-y", "-i", videoPath, "-q:a", "0", "-map", "a", audioPath); err != nil {
		return "", errors.ExtractionError("Audio extraction failed", err)
	}

	return audioPath, nil
}

// BurnCaptions implements Transcoder with the styled-then-plain fallback.
func (f *FFmpeg) BurnCaptions(ctx context.Context, videoPath, trackPath string) (string, error) {
	if _, err := os.Stat(trackPath); err != nil {
		return "", errors.MissingTrack(trackPath)
	}

	ext := filepath.Ext(videoPath)
	outPath := strings.TrimSuffix(videoPath, ext) + "_final" + ext

	// ffmpeg filter arguments want forward slashes even on Windows
	track := filepath.ToSlash(trackPath)

	styled := fmt.Sprintf("subtitles=%s:force_style='%s'", track, burnStyle)
	err := f.run(ctx, "-y", "-i", videoPath, "-vf", styled, "-c:a", "copy", outPath)
	if err == nil {
		return outPath, nil
	}

	f.logger.WithError(err).Warn("Styled caption overlay failed, retrying without style")

	plain := fmt.Sprintf("subtitles=%s", track)
	if err := f.run(ctx, "-y", "-i", videoPath, "-vf", plain, "-c:a", "copy", outPath); err != nil {
		// Partial output from a failed encode is useless, do not leave it behind
		_ = os.Remove(outPath)
		return "", errors.RenderError("Caption burn-in failed", err)
	}

	return outPath, nil
}

// run executes ffmpeg and returns an error carrying the exit status and the
// tail of stderr.
func (f *FFmpeg) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, f.binary, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		diag := stderr.String()
		if len(diag) > maxDiagnostics {
			diag = diag[len(diag)-maxDiagnostics:]
		}
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg timed out: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg exited with %w: %s", err, strings.TrimSpace(diag))
	}

	return nil
}

func swapExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
