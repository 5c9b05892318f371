// Package subtitle builds and parses SRT caption tracks from timed text
// segments.
package subtitle

import (
	"fmt"
	"strings"

	"github.com/clipcap/clipcap/internal/pkg/errors"
)

// Segment is one timed caption cue. Index is the 1-based ordinal within the
// track; Start and End are offsets in seconds from the start of playback.
type Segment struct {
	Index int     `json:"index"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Validate enforces the segment invariants: non-negative start and
// end >= start. A violation is a data-quality bug in the upstream engine.
func (s Segment) Validate() error {
	if s.Start < 0 || s.End < s.Start {
		return errors.MalformedSegment(s.Index, s.Start, s.End)
	}
	return nil
}

// BuildTrack serializes ordered segments into an SRT document. Segments are
// assumed to arrive in ascending start order and are not re-sorted. Zero
// segments produce an empty document.
func BuildTrack(segments []Segment) (string, error) {
	var b strings.Builder

	for i, seg := range segments {
		seg.Index = i + 1
		if err := seg.Validate(); err != nil {
			return "", err
		}

		text := strings.TrimSpace(seg.Text)
		text = strings.ReplaceAll(text, "\r\n", " ")
		text = strings.ReplaceAll(text, "\n", " ")

		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			seg.Index,
			FormatTimestamp(seg.Start),
			FormatTimestamp(seg.End),
			text,
		)
	}

	return b.String(), nil
}

// ParseTrack parses an SRT document back into segments. It accepts the output
// of BuildTrack and tolerates trailing whitespace.
func ParseTrack(doc string) ([]Segment, error) {
	var segments []Segment

	blocks := strings.Split(strings.ReplaceAll(doc, "\r\n", "\n"), "\n\n")
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.SplitN(block, "\n", 3)
		if len(lines) < 2 {
			return nil, fmt.Errorf("malformed caption block: %q", block)
		}

		var seg Segment
		if _, err := fmt.Sscanf(lines[0], "%d", &seg.Index); err != nil {
			return nil, fmt.Errorf("invalid ordinal %q: %w", lines[0], err)
		}

		times := strings.Split(lines[1], " --> ")
		if len(times) != 2 {
			return nil, fmt.Errorf("invalid time range %q", lines[1])
		}

		var err error
		if seg.Start, err = ParseTimestamp(times[0]); err != nil {
			return nil, err
		}
		if seg.End, err = ParseTimestamp(times[1]); err != nil {
			return nil, err
		}

		if len(lines) == 3 {
			seg.Text = strings.TrimSpace(lines[2])
		}

		segments = append(segments, seg)
	}

	return segments, nil
}
