// Package transcribe turns an audio file into ordered, timed text segments.
package transcribe

import (
	"context"

	"github.com/clipcap/clipcap/internal/subtitle"
)

// Engine is the speech-to-text collaborator. Implementations return segments
// in ascending, non-overlapping start order.
type Engine interface {
	Transcribe(ctx context.Context, audioPath string) ([]subtitle.Segment, error)
}
