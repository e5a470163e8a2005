package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/foxseedlab/motives/internal/config"
	"github.com/joho/godotenv"
)

type envConfig struct {
	Env                        string        `env:"ENV" envDefault:"production"`
	SampleRate                 int           `env:"SAMPLE_RATE" envDefault:"16000"`
	WindowSeconds              int           `env:"WINDOW_SECONDS" envDefault:"5"`
	RetainSeconds              int           `env:"RETAIN_SECONDS" envDefault:"1"`
	ChunkFrames                int           `env:"CHUNK_FRAMES" envDefault:"1600"`
	QueueDepth                 int           `env:"QUEUE_DEPTH" envDefault:"256"`
	TranscribeTimeout          time.Duration `env:"TRANSCRIBE_TIMEOUT" envDefault:"30s"`
	TranscribeBackend          string        `env:"TRANSCRIBE_BACKEND" envDefault:"openai"`
	TranscribeLanguage         string        `env:"TRANSCRIBE_LANGUAGE" envDefault:"en"`
	CustomerSpeaker            string        `env:"CUSTOMER_SPEAKER" envDefault:"Customer"`
	InterviewerSpeaker         string        `env:"INTERVIEWER_SPEAKER" envDefault:"You"`
	InputDevice                string        `env:"INPUT_DEVICE"`
	SeedMockTranscript         bool          `env:"SEED_MOCK_TRANSCRIPT" envDefault:"true"`
	SuggestionCount            int           `env:"SUGGESTION_COUNT" envDefault:"2"`
	OpenAIAPIKey               string        `env:"OPENAI_API_KEY"`
	OpenAIChatModel            string        `env:"OPENAI_CHAT_MODEL" envDefault:"gpt-4o-mini"`
	GoogleCloudProjectID       string        `env:"GOOGLE_CLOUD_PROJECT_ID"`
	GoogleCloudCredentialsJSON string        `env:"GOOGLE_CLOUD_CREDENTIALS_JSON"`
	GoogleCloudSpeechLocation  string        `env:"GOOGLE_CLOUD_SPEECH_LOCATION" envDefault:"us-central1"`
	GoogleCloudSpeechModel     string        `env:"GOOGLE_CLOUD_SPEECH_MODEL" envDefault:"chirp_2"`
	DatabaseURL                string        `env:"DATABASE_URL"`
	NotionToken                string        `env:"NOTION_TOKEN"`
	NotionDatabaseID           string        `env:"NOTION_DATABASE_ID"`
	MetricsAddr                string        `env:"METRICS_ADDR"`
	TranscriptWebhookURL       string        `env:"TRANSCRIPT_WEBHOOK_URL"`
}

// Load reads an optional .env file from the working directory, then parses
// the process environment. Variables already set in the environment win.
func Load() (*internalconfig.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:                        raw.Env,
		SampleRate:                 raw.SampleRate,
		WindowSeconds:              raw.WindowSeconds,
		RetainSeconds:              raw.RetainSeconds,
		ChunkFrames:                raw.ChunkFrames,
		QueueDepth:                 raw.QueueDepth,
		TranscribeTimeout:          raw.TranscribeTimeout,
		TranscribeBackend:          raw.TranscribeBackend,
		TranscribeLanguage:         raw.TranscribeLanguage,
		CustomerSpeaker:            raw.CustomerSpeaker,
		InterviewerSpeaker:         raw.InterviewerSpeaker,
		InputDevice:                raw.InputDevice,
		SeedMockTranscript:         raw.SeedMockTranscript,
		SuggestionCount:            raw.SuggestionCount,
		OpenAIAPIKey:               raw.OpenAIAPIKey,
		OpenAIChatModel:            raw.OpenAIChatModel,
		GoogleCloudProjectID:       raw.GoogleCloudProjectID,
		GoogleCloudCredentialsJSON: raw.GoogleCloudCredentialsJSON,
		GoogleCloudSpeechLocation:  raw.GoogleCloudSpeechLocation,
		GoogleCloudSpeechModel:     raw.GoogleCloudSpeechModel,
		DatabaseURL:                raw.DatabaseURL,
		NotionToken:                raw.NotionToken,
		NotionDatabaseID:           raw.NotionDatabaseID,
		MetricsAddr:                raw.MetricsAddr,
		TranscriptWebhookURL:       raw.TranscriptWebhookURL,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
