package repository

import "time"

type SessionStatus string

const (
	SessionStatusRunning   SessionStatus = "running"
	SessionStatusCompleted SessionStatus = "completed"
)

type Session struct {
	ID          string
	StartedAt   time.Time
	EndedAt     *time.Time
	Status      SessionStatus
	StopReason  string
	InputDevice string
	EntryCount  int
}

type TranscriptEntry struct {
	ID         string
	SessionID  string
	EntryIndex int
	Speaker    string
	Text       string
	SpokenAt   time.Time
	CreatedAt  time.Time
}
