package repository

import (
	"context"
	"time"

	"github.com/foxseedlab/motives/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const sessionColumns = `id, started_at, ended_at, status, stop_reason, input_device, entry_count`

func scanSession(row pgx.Row) (*repository.Session, error) {
	var s repository.Session
	var endedAt *time.Time
	var status string
	if err := row.Scan(&s.ID, &s.StartedAt, &endedAt, &status, &s.StopReason, &s.InputDevice, &s.EntryCount); err != nil {
		return nil, err
	}
	s.EndedAt = endedAt
	s.Status = repository.SessionStatus(status)
	return &s, nil
}

func (r *PostgresRepository) CreateSession(ctx context.Context, input repository.CreateSessionInput) (*repository.Session, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO interview_sessions (started_at, status)
		 VALUES ($1, 'running')
		 RETURNING `+sessionColumns,
		input.StartedAt)
	return scanSession(row)
}

func (r *PostgresRepository) CompleteSession(ctx context.Context, input repository.CompleteSessionInput) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE interview_sessions
		 SET status = 'completed', ended_at = $2, stop_reason = $3, entry_count = $4
		 WHERE id = $1`,
		input.SessionID, input.EndedAt, input.StopReason, input.EntryCount)
	return err
}

func (r *PostgresRepository) UpdateSessionDevice(ctx context.Context, input repository.UpdateSessionDeviceInput) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE interview_sessions SET input_device = $2 WHERE id = $1`,
		input.SessionID, input.InputDevice)
	return err
}

func (r *PostgresRepository) ListRunningSessions(ctx context.Context) ([]repository.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+sessionColumns+`
		 FROM interview_sessions WHERE status = 'running'
		 ORDER BY started_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) InsertEntry(ctx context.Context, input repository.InsertEntryInput) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transcript_entries (session_id, entry_index, speaker, text, spoken_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, entry_index) DO NOTHING`,
		input.SessionID, input.EntryIndex, input.Speaker, input.Text, input.SpokenAt)
	return err
}

func (r *PostgresRepository) ListEntriesBySessionID(ctx context.Context, sessionID string) ([]repository.TranscriptEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, session_id, entry_index, speaker, text, spoken_at, created_at
		 FROM transcript_entries WHERE session_id = $1 ORDER BY entry_index ASC`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []repository.TranscriptEntry
	for rows.Next() {
		var e repository.TranscriptEntry
		if err := rows.Scan(&e.ID, &e.SessionID, &e.EntryIndex, &e.Speaker, &e.Text, &e.SpokenAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func (r *PostgresRepository) Shutdown() error {
	r.pool.Close()
	return nil
}
