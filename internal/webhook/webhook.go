package webhook

import "context"

const TranscriptPayloadSchemaVersion = 1

type TranscriptPayloadEntry struct {
	Index    int    `json:"index"`
	Speaker  string `json:"speaker"`
	Text     string `json:"text"`
	SpokenAt string `json:"spoken_at,omitempty"`
}

// TranscriptPayload is posted once when an interview session ends.
type TranscriptPayload struct {
	SchemaVersion   int                      `json:"schema_version"`
	SessionID       string                   `json:"session_id"`
	StartAt         string                   `json:"start_at"`
	EndAt           string                   `json:"end_at"`
	DurationSeconds int64                    `json:"duration_seconds"`
	StopReason      string                   `json:"stop_reason"`
	EntryCount      int                      `json:"entry_count"`
	Entries         []TranscriptPayloadEntry `json:"entries"`
	Transcript      string                   `json:"transcript"`
}

type Sender interface {
	SendTranscript(ctx context.Context, payload TranscriptPayload) error
}
