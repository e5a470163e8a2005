package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.SampleRate != 16000 || cfg.WindowSamples() != 80000 || cfg.RetainSamples() != 16000 {
		t.Fatalf("unexpected audio defaults: %+v", cfg)
	}
	if cfg.TranscribeTimeout != 30*time.Second {
		t.Fatalf("unexpected transcribe timeout: %s", cfg.TranscribeTimeout)
	}
	if cfg.CustomerSpeaker != "Customer" || cfg.InterviewerSpeaker != "You" {
		t.Fatalf("unexpected speaker labels: %q / %q", cfg.CustomerSpeaker, cfg.InterviewerSpeaker)
	}
	if !cfg.SeedMockTranscript {
		t.Fatal("expected mock transcript seeding to default to true")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("TRANSCRIBE_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid duration")
	}
}

func TestLoad_MissingBackendCredentials(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("OPENAI_API_KEY", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error without openai key")
	}
}
