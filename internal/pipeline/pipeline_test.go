package pipeline

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/services"
	"github.com/clipcap/clipcap/internal/subtitle"
	"github.com/clipcap/clipcap/internal/testutil"
)

type pipelineFixture struct {
	service     *Service
	accountRepo *testutil.MockAccountRepository
	usageRepo   *testutil.MockUsageRepository
	usage       *services.UsageService
	transcoder  *testutil.FakeTranscoder
	engine      *testutil.FakeEngine
	workDir     string
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	log := logger.New(logger.Config{Level: "error", Format: "json"})
	accountRepo := testutil.NewMockAccountRepository()
	usageRepo := testutil.NewMockUsageRepository()
	accounts := services.NewAccountService(accountRepo, log)
	quota := services.NewUsageService(usageRepo, log)

	transcoder := &testutil.FakeTranscoder{}
	engine := &testutil.FakeEngine{
		Segments: []subtitle.Segment{
			{Index: 1, Start: 0, End: 2, Text: "hello"},
			{Index: 2, Start: 2, End: 4.5, Text: "world"},
		},
	}

	workDir := t.TempDir()
	cfg := config.MediaConfig{
		WorkDir:      workDir,
		StageTimeout: 30 * time.Second,
	}

	return &pipelineFixture{
		service:     NewService(accounts, quota, transcoder, engine, cfg, log),
		accountRepo: accountRepo,
		usageRepo:   usageRepo,
		usage:       quota,
		transcoder:  transcoder,
		engine:      engine,
		workDir:     workDir,
	}
}

func TestPipeline_Delivers(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	result, err := f.service.Process(ctx, Request{
		Email:    "a@b.com",
		FileName: "clip.mp4",
		Video:    strings.NewReader("video-bytes"),
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	defer result.Cleanup()

	if result.Segments != 2 {
		t.Errorf("result segments = %d, want 2", result.Segments)
	}
	if result.Plan != "free" {
		t.Errorf("result plan = %q, want free", result.Plan)
	}
	if !strings.HasSuffix(result.OutputPath, "_final.mp4") {
		t.Errorf("output path %q does not carry the _final suffix", result.OutputPath)
	}
	if _, err := os.Stat(result.OutputPath); err != nil {
		t.Errorf("rendered output missing: %v", err)
	}

	// Exactly one ledger record for the delivered run
	if len(f.usageRepo.Records) != 1 {
		t.Fatalf("ledger has %d records, want 1", len(f.usageRepo.Records))
	}
	rec := f.usageRepo.Records[0]
	if rec.Email != "a@b.com" || rec.Plan != "free" {
		t.Errorf("ledger record = %+v, want email a@b.com plan free", rec)
	}

	used, err := f.usage.UsedThisMonth(ctx, "a@b.com")
	if err != nil {
		t.Fatalf("UsedThisMonth returned error: %v", err)
	}
	if used != 1 {
		t.Errorf("UsedThisMonth = %d, want 1", used)
	}

	// The track written for the render carries both captions
	track, err := os.ReadFile(strings.TrimSuffix(result.OutputPath, "_final.mp4") + ".srt")
	if err != nil {
		t.Fatalf("reading caption track: %v", err)
	}
	if !strings.Contains(string(track), "hello") || !strings.Contains(string(track), "world") {
		t.Errorf("caption track %q missing expected text", track)
	}
}

func TestPipeline_CleanupRemovesArtifacts(t *testing.T) {
	f := newPipelineFixture(t)

	result, err := f.service.Process(context.Background(), Request{
		Email:    "a@b.com",
		FileName: "clip.mp4",
		Video:    strings.NewReader("video-bytes"),
	})
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	jobDir := filepath.Join(f.workDir, result.JobID)
	if _, err := os.Stat(jobDir); err != nil {
		t.Fatalf("job directory missing before cleanup: %v", err)
	}

	result.Cleanup()

	if _, err := os.Stat(jobDir); !os.IsNotExist(err) {
		t.Errorf("job directory still present after cleanup")
	}
}

func TestPipeline_QuotaGateFailsBeforeWork(t *testing.T) {
	f := newPipelineFixture(t)
	ctx := context.Background()

	// Exhaust the free allowance
	for i := 0; i < 3; i++ {
		result, err := f.service.Process(ctx, Request{
			Email:    "a@b.com",
			FileName: "clip.mp4",
			Video:    strings.NewReader("video-bytes"),
		})
		if err != nil {
			t.Fatalf("Process %d returned error: %v", i+1, err)
		}
		result.Cleanup()
	}

	extractCalls := f.transcoder.ExtractCalls
	_, err := f.service.Process(ctx, Request{
		Email:    "a@b.com",
		FileName: "clip.mp4",
		Video:    strings.NewReader("video-bytes"),
	})
	if err == nil {
		t.Fatal("Process over quota succeeded")
	}

	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) || appErr.Code != errors.ErrCodeQuotaExceeded {
		t.Fatalf("error = %v, want code %s", err, errors.ErrCodeQuotaExceeded)
	}
	if !strings.Contains(appErr.Message, "free") || !strings.Contains(appErr.Message, "3") {
		t.Errorf("quota message %q does not name plan and limit", appErr.Message)
	}

	// The rejection happened before any stage ran
	if f.transcoder.ExtractCalls != extractCalls {
		t.Errorf("extraction ran %d extra times for a rejected request", f.transcoder.ExtractCalls-extractCalls)
	}
	if len(f.usageRepo.Records) != 3 {
		t.Errorf("ledger has %d records, want 3", len(f.usageRepo.Records))
	}
}

func TestPipeline_FailedRunWritesNoRecord(t *testing.T) {
	tests := []struct {
		name     string
		breakage func(f *pipelineFixture)
		wantCode string
	}{
		{
			name: "extraction failure",
			breakage: func(f *pipelineFixture) {
				f.transcoder.ExtractError = errors.ExtractionError("Audio extraction failed", stderrors.New("exit status 1"))
			},
			wantCode: errors.ErrCodeExtraction,
		},
		{
			name: "transcription failure",
			breakage: func(f *pipelineFixture) {
				f.engine.Err = errors.TranscriptionError("Transcription request failed", stderrors.New("upstream 500"))
			},
			wantCode: errors.ErrCodeTranscription,
		},
		{
			name: "render failure",
			breakage: func(f *pipelineFixture) {
				f.transcoder.BurnError = errors.RenderError("Caption burn-in failed", stderrors.New("exit status 1"))
			},
			wantCode: errors.ErrCodeRender,
		},
		{
			name: "malformed segment from engine",
			breakage: func(f *pipelineFixture) {
				f.engine.Segments = []subtitle.Segment{{Start: 2, End: 1, Text: "backwards"}}
			},
			wantCode: errors.ErrCodeMalformedSegment,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			tt.breakage(f)

			_, err := f.service.Process(context.Background(), Request{
				Email:    "a@b.com",
				FileName: "clip.mp4",
				Video:    strings.NewReader("video-bytes"),
			})
			if err == nil {
				t.Fatal("Process succeeded, want error")
			}

			var appErr *errors.AppError
			if !stderrors.As(err, &appErr) || appErr.Code != tt.wantCode {
				t.Fatalf("error = %v, want code %s", err, tt.wantCode)
			}

			if len(f.usageRepo.Records) != 0 {
				t.Errorf("ledger has %d records after a failed run, want 0", len(f.usageRepo.Records))
			}

			// The reservation was released: a retry passes the gate
			if err := f.usage.Reserve(context.Background(), "a@b.com", "free", 3); err != nil {
				t.Errorf("Reserve after failed run returned error: %v", err)
			}
		})
	}
}

func TestJobSaveInput(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		expected string
	}{
		{name: "keeps mp4 extension", fileName: "clip.mp4", expected: "input.mp4"},
		{name: "keeps mov extension", fileName: "Clip.MOV", expected: "input.mov"},
		{name: "defaults to mp4", fileName: "noext", expected: "input.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := NewJob(t.TempDir())
			if err != nil {
				t.Fatalf("NewJob returned error: %v", err)
			}
			defer job.Cleanup()

			path, err := job.SaveInput(strings.NewReader("bytes"), tt.fileName)
			if err != nil {
				t.Fatalf("SaveInput returned error: %v", err)
			}
			if filepath.Base(path) != tt.expected {
				t.Errorf("SaveInput path = %q, want base %q", path, tt.expected)
			}
		})
	}
}
