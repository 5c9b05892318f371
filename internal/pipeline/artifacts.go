package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Job owns the per-request artifact namespace: a freshly named directory
// holding the uploaded video, extracted audio, caption track, and rendered
// output. No two jobs share a directory, so concurrent requests cannot race
// on files.
type Job struct {
	ID  string
	Dir string
}

// NewJob allocates a job directory under workDir.
func NewJob(workDir string) (*Job, error) {
	id := uuid.New().String()
	dir := filepath.Join(workDir, id)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create job directory: %w", err)
	}

	return &Job{ID: id, Dir: dir}, nil
}

// SaveInput streams the uploaded video into the job directory, keeping the
// original extension (defaulting to .mp4).
func (j *Job) SaveInput(r io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext == "" {
		ext = ".mp4"
	}

	path := filepath.Join(j.Dir, "input"+ext)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create input file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write input file: %w", err)
	}

	return path, nil
}

// WriteTrack writes the caption track document next to the input video.
func (j *Job) WriteTrack(videoPath, doc string) (string, error) {
	path := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ".srt"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return "", fmt.Errorf("write caption track: %w", err)
	}
	return path, nil
}

// Cleanup removes the whole job directory.
func (j *Job) Cleanup() error {
	return os.RemoveAll(j.Dir)
}
