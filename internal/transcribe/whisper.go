package transcribe

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"github.com/clipcap/clipcap/internal/config"
	"github.com/clipcap/clipcap/internal/pkg/errors"
	"github.com/clipcap/clipcap/internal/pkg/logger"
	"github.com/clipcap/clipcap/internal/subtitle"
)

// WhisperEngine implements Engine on the OpenAI transcription API.
type WhisperEngine struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewWhisperEngine creates a Whisper-backed engine from config.
func NewWhisperEngine(cfg config.TranscribeConfig, log *logger.Logger) *WhisperEngine {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.Whisper1
	}

	return &WhisperEngine{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		logger: log,
	}
}

// Transcribe requests a verbose-JSON transcription and maps the returned
// segments onto caption segments with 1-based ordinals.
func (e *WhisperEngine) Transcribe(ctx context.Context, audioPath string) ([]subtitle.Segment, error) {
	resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    e.model,
		FilePath: audioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return nil, errors.TranscriptionError("Transcription request failed", err)
	}

	segments := make([]subtitle.Segment, 0, len(resp.Segments))
	for i, s := range resp.Segments {
		segments = append(segments, subtitle.Segment{
			Index: i + 1,
			Start: s.Start,
			End:   s.End,
			Text:  s.Text,
		})
	}

	e.logger.WithFields(map[string]interface{}{
		"segments": len(segments),
		"language": resp.Language,
	}).Debug("Transcription completed")

	return segments, nil
}
