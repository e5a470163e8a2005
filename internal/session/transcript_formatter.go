package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/foxseedlab/motives/internal/coaching"
	"github.com/foxseedlab/motives/internal/transcript"
	"github.com/foxseedlab/motives/internal/webhook"
)

const notePrefix = "    > "

func renderTranscript(coach *coaching.Coach, startedAt time.Time, entries []transcript.Entry, modes coaching.Modes) string {
	lines := []string{"Transcript:"}
	if len(entries) == 0 {
		lines = append(lines, "  (no entries yet)")
	}
	for i, e := range entries {
		lines = append(lines, "  "+formatEntry(startedAt, e))
		if note := coach.Annotate(i, e, modes); note != "" {
			lines = append(lines, notePrefix+note)
		}
	}

	if summary := coach.Summary(modes); len(summary) > 0 {
		lines = append(lines, "", "Coaching summary:")
		for _, s := range summary {
			lines = append(lines, fmt.Sprintf("  [%s] %s", s.Level, s.Text))
		}
	}
	return strings.Join(lines, "\n")
}

// formatEntry prefixes live entries with their offset from the session
// start. Seeded entries carry no timestamp.
func formatEntry(startedAt time.Time, e transcript.Entry) string {
	if e.SpokenAt.IsZero() {
		return fmt.Sprintf("%s: %s", e.Speaker, e.Text)
	}
	elapsed := e.SpokenAt.Sub(startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	return fmt.Sprintf("%s %s: %s", formatElapsedHMS(elapsed), e.Speaker, e.Text)
}

func buildTranscriptWebhookPayload(sessionID string, startedAt, endedAt time.Time, reason string, entries []transcript.Entry) webhook.TranscriptPayload {
	out := make([]webhook.TranscriptPayloadEntry, 0, len(entries))
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		item := webhook.TranscriptPayloadEntry{Index: i, Speaker: e.Speaker, Text: e.Text}
		if !e.SpokenAt.IsZero() {
			item.SpokenAt = e.SpokenAt.UTC().Format(time.RFC3339)
		}
		out = append(out, item)
		lines = append(lines, formatEntry(startedAt, e))
	}

	durationSeconds := int64(endedAt.Sub(startedAt).Seconds())
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	return webhook.TranscriptPayload{
		SchemaVersion:   webhook.TranscriptPayloadSchemaVersion,
		SessionID:       sessionID,
		StartAt:         startedAt.UTC().Format(time.RFC3339),
		EndAt:           endedAt.UTC().Format(time.RFC3339),
		DurationSeconds: durationSeconds,
		StopReason:      reason,
		EntryCount:      len(entries),
		Entries:         out,
		Transcript:      strings.Join(lines, "\n"),
	}
}

func formatElapsedHMS(d time.Duration) string {
	total := int64(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatSuggestions(s Suggestions) string {
	lines := []string{messageSuggestionsHeader}
	if s.Triggered {
		lines = append(lines, messageSuggestionsTopic)
	}
	for _, q := range s.Questions {
		lines = append(lines, "  - "+q)
	}
	if s.FallbackErr != nil {
		lines = append(lines, fmt.Sprintf(messageSuggestionsFallback, s.FallbackErr))
	}
	return strings.Join(lines, "\n")
}
