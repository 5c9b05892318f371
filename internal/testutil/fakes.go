package testutil

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/clipcap/clipcap/internal/billing"
	"github.com/clipcap/clipcap/internal/subtitle"
)

// FakeTranscoder is a media.Transcoder that writes placeholder files instead
// of invoking ffmpeg.
type FakeTranscoder struct {
	ExtractError error
	BurnError    error

	ExtractCalls int
	BurnCalls    int
}

func (f *FakeTranscoder) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	f.ExtractCalls++
	if f.ExtractError != nil {
		return "", f.ExtractError
	}
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".mp3"
	if err := os.WriteFile(audioPath, []byte("audio"), 0o644); err != nil {
		return "", err
	}
	return audioPath, nil
}

func (f *FakeTranscoder) BurnCaptions(ctx context.Context, videoPath, trackPath string) (string, error) {
	f.BurnCalls++
	if f.BurnError != nil {
		return "", f.BurnError
	}
	ext := filepath.Ext(videoPath)
	outPath := strings.TrimSuffix(videoPath, ext) + "_final" + ext
	if err := os.WriteFile(outPath, []byte("rendered"), 0o644); err != nil {
		return "", err
	}
	return outPath, nil
}

// FakeEngine is a transcribe.Engine returning canned segments.
type FakeEngine struct {
	Segments []subtitle.Segment
	Err      error

	Calls int
}

func (f *FakeEngine) Transcribe(ctx context.Context, audioPath string) ([]subtitle.Segment, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Segments, nil
}

// FakeVerifier is a billing.Verifier with a fixed outcome.
type FakeVerifier struct {
	Event *billing.Event
	Err   error
}

func (f *FakeVerifier) VerifyAndDecode(payload []byte, sigHeader string) (*billing.Event, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Event, nil
}
