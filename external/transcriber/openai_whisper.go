package transcriber

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/foxseedlab/motives/internal/transcriber"
	"github.com/sashabaranov/go-openai"
)

type WhisperConfig struct {
	APIKey   string
	Language string
	// BaseURL overrides the API endpoint; empty means the public OpenAI API.
	BaseURL string
}

// WhisperTranscriber uploads each window as a temporary WAV file to the
// OpenAI audio transcription endpoint.
type WhisperTranscriber struct {
	client   *openai.Client
	language string
}

func NewWhisperTranscriber(cfg WhisperConfig) transcriber.Transcriber {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &WhisperTranscriber{
		client:   openai.NewClientWithConfig(clientCfg),
		language: strings.TrimSpace(cfg.Language),
	}
}

func (t *WhisperTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if len(samples) == 0 {
		return "", nil
	}
	path, err := writeTempWAV(samples, sampleRate)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			slog.Warn("failed to remove temp wav", "error", err, "path", path)
		}
	}()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: path,
		Language: t.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return resp.Text, nil
}
