package repository

import (
	"context"
	"time"
)

type CreateSessionInput struct {
	StartedAt time.Time
}

type CompleteSessionInput struct {
	SessionID  string
	EndedAt    time.Time
	StopReason string
	EntryCount int
}

type UpdateSessionDeviceInput struct {
	SessionID   string
	InputDevice string
}

type InsertEntryInput struct {
	SessionID  string
	EntryIndex int
	Speaker    string
	Text       string
	SpokenAt   time.Time
}

type SessionRepository interface {
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)
	CompleteSession(ctx context.Context, input CompleteSessionInput) error
	UpdateSessionDevice(ctx context.Context, input UpdateSessionDeviceInput) error
	ListRunningSessions(ctx context.Context) ([]Session, error)
}

type TranscriptRepository interface {
	InsertEntry(ctx context.Context, input InsertEntryInput) error
	ListEntriesBySessionID(ctx context.Context, sessionID string) ([]TranscriptEntry, error)
}

type Repository interface {
	SessionRepository
	TranscriptRepository
}
