package config

import (
	"fmt"
	"time"
)

const (
	TranscribeBackendOpenAI = "openai"
	TranscribeBackendGoogle = "google"
)

type Config struct {
	Env                        string
	SampleRate                 int
	WindowSeconds              int
	RetainSeconds              int
	ChunkFrames                int
	QueueDepth                 int
	TranscribeTimeout          time.Duration
	TranscribeBackend          string
	TranscribeLanguage         string
	CustomerSpeaker            string
	InterviewerSpeaker         string
	InputDevice                string
	SeedMockTranscript         bool
	SuggestionCount            int
	OpenAIAPIKey               string
	OpenAIChatModel            string
	GoogleCloudProjectID       string
	GoogleCloudCredentialsJSON string
	GoogleCloudSpeechLocation  string
	GoogleCloudSpeechModel     string
	DatabaseURL                string
	NotionToken                string
	NotionDatabaseID           string
	MetricsAddr                string
	TranscriptWebhookURL       string
}

func (c *Config) Validate() error {
	for _, p := range c.positiveFieldChecks() {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.name, p.value)
		}
	}
	if c.RetainSeconds >= c.WindowSeconds {
		return fmt.Errorf("RETAIN_SECONDS (%d) must be smaller than WINDOW_SECONDS (%d)", c.RetainSeconds, c.WindowSeconds)
	}
	if c.TranscribeTimeout <= 0 {
		return fmt.Errorf("TRANSCRIBE_TIMEOUT must be positive, got %s", c.TranscribeTimeout)
	}
	if c.CustomerSpeaker == "" {
		return fmt.Errorf("CUSTOMER_SPEAKER is required")
	}
	switch c.TranscribeBackend {
	case TranscribeBackendOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when TRANSCRIBE_BACKEND=%s", TranscribeBackendOpenAI)
		}
	case TranscribeBackendGoogle:
		if c.GoogleCloudProjectID == "" || c.GoogleCloudCredentialsJSON == "" {
			return fmt.Errorf("GOOGLE_CLOUD_PROJECT_ID and GOOGLE_CLOUD_CREDENTIALS_JSON are required when TRANSCRIBE_BACKEND=%s", TranscribeBackendGoogle)
		}
	default:
		return fmt.Errorf("TRANSCRIBE_BACKEND must be %q or %q, got %q", TranscribeBackendOpenAI, TranscribeBackendGoogle, c.TranscribeBackend)
	}
	if (c.NotionToken == "") != (c.NotionDatabaseID == "") {
		return fmt.Errorf("NOTION_TOKEN and NOTION_DATABASE_ID must be set together")
	}
	return nil
}

type positiveField struct {
	name  string
	value int
}

func (c *Config) positiveFieldChecks() []positiveField {
	return []positiveField{
		{name: "SAMPLE_RATE", value: c.SampleRate},
		{name: "WINDOW_SECONDS", value: c.WindowSeconds},
		{name: "RETAIN_SECONDS", value: c.RetainSeconds},
		{name: "CHUNK_FRAMES", value: c.ChunkFrames},
		{name: "QUEUE_DEPTH", value: c.QueueDepth},
		{name: "SUGGESTION_COUNT", value: c.SuggestionCount},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) WindowSamples() int {
	return c.SampleRate * c.WindowSeconds
}

func (c *Config) RetainSamples() int {
	return c.SampleRate * c.RetainSeconds
}

func (c *Config) NotionEnabled() bool {
	return c.NotionToken != "" && c.NotionDatabaseID != ""
}
