// Package pipeline sequences the caption burn-in stages for one uploaded
// video: quota gate, audio extraction, transcription, caption track build,
// render, usage record.
package pipeline

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/domain/account"
	"github.com/clipcap/clipcap/internal/domain/usage"
	"github.com/clipcap/clipcap/internal/media"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/pkg/metrics"
	"github.com/clipcap/clipcap/internal/subtitle"
	"github.com/clipcap/clipcap/internal/transcribe"
)

// Request is one inbound processing request.
type Request struct {
	Email    string
	FileName string
	Video    io.Reader
}

// Result describes a delivered run. Cleanup removes the job artifacts and
// should be called once the output has been fully streamed to the client.
type Result struct {
	JobID      string
	OutputPath string
	Plan       account.Plan
	Segments   int

	job *Job
}

// Cleanup removes the job's artifact directory.
func (r *Result) Cleanup() {
	if r.job != nil {
		_ = r.job.Cleanup()
	}
}

// Service orchestrates the pipeline. Stages run strictly in sequence; each
// external call is bounded by the configured stage timeout. A failed run
// leaves its artifacts on disk for the sweeper to reclaim.
type Service struct {
	accounts   account.Service
	quota      usage.Service
	transcoder media.Transcoder
	engine     transcribe.Engine
	cfg        config.MediaConfig
	logger     *logger.Logger
}

// NewService creates a pipeline service
func NewService(
	accounts account.Service,
	quota usage.Service,
	transcoder media.Transcoder,
	engine transcribe.Engine,
	cfg config.MediaConfig,
	log *logger.Logger,
) *Service {
	return &Service{
		accounts:   accounts,
		quota:      quota,
		transcoder: transcoder,
		engine:     engine,
		cfg:        cfg,
		logger:     log,
	}
}

// Process runs the full pipeline for one request. The quota gate is
// evaluated before any file is written or any external process starts.
func (s *Service) Process(ctx context.Context, req Request) (*Result, error) {
	plan, err := s.accounts.Resolve(ctx, req.Email)
	if err != nil {
		return nil, err
	}

	limit := plan.Allowance()
	if err := s.quota.Reserve(ctx, req.Email, string(plan), limit); err != nil {
		metrics.RecordQuotaRejection(string(plan))
		return nil, err
	}

	committed := false
	defer func() {
		if !committed {
			s.quota.Release(req.Email)
			metrics.RecordJob("failed")
		}
	}()

	job, err := NewJob(s.cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithFields(map[string]interface{}{
		"job_id": job.ID,
		"email":  req.Email,
	})
	log.Info("Pipeline started")

	inputPath, err := job.SaveInput(req.Video, req.FileName)
	if err != nil {
		return nil, err
	}

	var audioPath string
	if err := s.stage(ctx, "extract", func(ctx context.Context) error {
		audioPath, err = s.transcoder.ExtractAudio(ctx, inputPath)
		return err
	}); err != nil {
		return nil, err
	}

	var segments []subtitle.Segment
	if err := s.stage(ctx, "transcribe", func(ctx context.Context) error {
		segments, err = s.engine.Transcribe(ctx, audioPath)
		return err
	}); err != nil {
		return nil, err
	}

	for _, seg := range segments {
		log.Debugf("Recognized segment %d: %s", seg.Index, seg.Text)
	}

	doc, err := subtitle.BuildTrack(segments)
	if err != nil {
		return nil, err
	}

	trackPath, err := job.WriteTrack(inputPath, doc)
	if err != nil {
		return nil, err
	}

	var outputPath string
	if err := s.stage(ctx, "render", func(ctx context.Context) error {
		outputPath, err = s.transcoder.BurnCaptions(ctx, inputPath, trackPath)
		return err
	}); err != nil {
		return nil, err
	}

	if err := s.quota.Commit(ctx, req.Email, filepath.Base(inputPath), string(plan)); err != nil {
		return nil, err
	}
	committed = true
	metrics.RecordJob("delivered")

	log.WithFields(map[string]interface{}{
		"segments": len(segments),
		"output":   filepath.Base(outputPath),
	}).Info("Pipeline delivered")

	return &Result{
		JobID:      job.ID,
		OutputPath: outputPath,
		Plan:       plan,
		Segments:   len(segments),
		job:        job,
	}, nil
}

// stage runs fn under the configured stage timeout and records its duration.
func (s *Service) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	stageCtx := ctx
	if s.cfg.StageTimeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, s.cfg.StageTimeout)
		defer cancel()
	}

	start := time.Now()
	err := fn(stageCtx)
	metrics.RecordStageDuration(name, time.Since(start))
	return err
}
