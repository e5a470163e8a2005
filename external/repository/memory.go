package repository

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/foxseedlab/motives/internal/repository"
	"github.com/google/uuid"
)

// MemoryRepository keeps sessions for the lifetime of the process. It is used
// when DATABASE_URL is not configured.
type MemoryRepository struct {
	mu       sync.Mutex
	sessions map[string]*repository.Session
	entries  map[string][]repository.TranscriptEntry
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]*repository.Session),
		entries:  make(map[string][]repository.TranscriptEntry),
	}
}

func (r *MemoryRepository) CreateSession(_ context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := &repository.Session{
		ID:        uuid.NewString(),
		StartedAt: input.StartedAt,
		Status:    repository.SessionStatusRunning,
	}
	r.sessions[s.ID] = s
	out := *s
	return &out, nil
}

func (r *MemoryRepository) CompleteSession(_ context.Context, input repository.CompleteSessionInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[input.SessionID]
	if !ok {
		return fmt.Errorf("session %s not found", input.SessionID)
	}
	endedAt := input.EndedAt
	s.EndedAt = &endedAt
	s.Status = repository.SessionStatusCompleted
	s.StopReason = input.StopReason
	s.EntryCount = input.EntryCount
	return nil
}

func (r *MemoryRepository) UpdateSessionDevice(_ context.Context, input repository.UpdateSessionDeviceInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[input.SessionID]
	if !ok {
		return fmt.Errorf("session %s not found", input.SessionID)
	}
	s.InputDevice = input.InputDevice
	return nil
}

func (r *MemoryRepository) ListRunningSessions(_ context.Context) ([]repository.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []repository.Session
	for _, s := range r.sessions {
		if s.Status == repository.SessionStatusRunning {
			list = append(list, *s)
		}
	}
	slices.SortFunc(list, func(a, b repository.Session) int { return a.StartedAt.Compare(b.StartedAt) })
	return list, nil
}

func (r *MemoryRepository) InsertEntry(_ context.Context, input repository.InsertEntryInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[input.SessionID]; !ok {
		return fmt.Errorf("session %s not found", input.SessionID)
	}
	for _, e := range r.entries[input.SessionID] {
		if e.EntryIndex == input.EntryIndex {
			return nil
		}
	}
	r.entries[input.SessionID] = append(r.entries[input.SessionID], repository.TranscriptEntry{
		ID:         uuid.NewString(),
		SessionID:  input.SessionID,
		EntryIndex: input.EntryIndex,
		Speaker:    input.Speaker,
		Text:       input.Text,
		SpokenAt:   input.SpokenAt,
		CreatedAt:  time.Now(),
	})
	return nil
}

func (r *MemoryRepository) ListEntriesBySessionID(_ context.Context, sessionID string) ([]repository.TranscriptEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]repository.TranscriptEntry, len(r.entries[sessionID]))
	copy(list, r.entries[sessionID])
	slices.SortFunc(list, func(a, b repository.TranscriptEntry) int { return cmp.Compare(a.EntryIndex, b.EntryIndex) })
	return list, nil
}
