// Package media wraps the external transcoder used for audio extraction and
// caption burn-in.
package media

import "context"

// Transcoder is the external transcoding capability the pipeline depends on.
// The production implementation shells out to ffmpeg; tests substitute an
// in-memory fake.
type Transcoder interface {
	// ExtractAudio pulls the audio stream out of the video container into a
	// standalone audio file and returns its path. The output path is derived
	// from the input path by swapping the extension for .mp3.
	ExtractAudio(ctx context.Context, videoPath string) (string, error)

	// BurnCaptions composites the caption track into the video stream and
	// returns the output path <stem>_final<ext>. A styled overlay is attempted
	// first, then a plain overlay; if both fail the render fails.
	BurnCaptions(ctx context.Context, videoPath, trackPath string) (string, error)
}
