package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/foxseedlab/motives/internal/audio"
	"github.com/foxseedlab/motives/internal/coaching"
	"github.com/foxseedlab/motives/internal/config"
	"github.com/foxseedlab/motives/internal/exporter"
	"github.com/foxseedlab/motives/internal/meeting"
	"github.com/foxseedlab/motives/internal/metrics"
	"github.com/foxseedlab/motives/internal/queue"
	"github.com/foxseedlab/motives/internal/repository"
	"github.com/foxseedlab/motives/internal/segmenter"
	"github.com/foxseedlab/motives/internal/suggester"
	"github.com/foxseedlab/motives/internal/transcriber"
	"github.com/foxseedlab/motives/internal/transcript"
	"github.com/foxseedlab/motives/internal/webhook"
)

var (
	ErrNoActiveSession         = errors.New("no active interview session")
	ErrSessionActive           = errors.New("an interview session is already active")
	ErrTranscriptionRunning    = errors.New("transcription is already running")
	ErrTranscriptionNotRunning = errors.New("transcription is not running")
	ErrUnknownDevice           = errors.New("unknown input device")
)

const (
	persistTimeout      = 5 * time.Second
	suggestTimeout      = 20 * time.Second
	webhookTimeout      = 15 * time.Second
	dropLogEvery uint64 = 100
)

// Session is the state of one interview. The transcript log is shared with
// the segmenter worker; everything else is guarded by the manager.
type Session struct {
	ID        string
	StartedAt time.Time
	Log       *transcript.Log

	modes  coaching.Modes
	device string
}

type liveTranscription struct {
	stream audio.Stream
	chunks *queue.Bounded[audio.Chunk]
	cancel context.CancelFunc
	done   chan struct{}
}

type Manager struct {
	cfg         *config.Config
	repo        repository.Repository
	capturer    audio.Capturer
	transcriber transcriber.Transcriber
	exporter    exporter.Exporter
	suggester   suggester.Suggester
	opener      meeting.Opener
	webhook     webhook.Sender
	metrics     *metrics.Metrics
	coach       *coaching.Coach
	now         func() time.Time

	mu      sync.Mutex
	session *Session
	live    *liveTranscription
}

type Dependencies struct {
	Repository  repository.Repository
	Capturer    audio.Capturer
	Transcriber transcriber.Transcriber
	Exporter    exporter.Exporter
	Suggester   suggester.Suggester
	Opener      meeting.Opener
	Webhook     webhook.Sender
	Metrics     *metrics.Metrics
	Coach       *coaching.Coach
}

func NewManager(cfg *config.Config, deps Dependencies) *Manager {
	m := deps.Metrics
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	coach := deps.Coach
	if coach == nil {
		coach = coaching.NewCoach(cfg.InterviewerSpeaker, cfg.CustomerSpeaker, cfg.SuggestionCount, nil)
	}
	return &Manager{
		cfg:         cfg,
		repo:        deps.Repository,
		capturer:    deps.Capturer,
		transcriber: deps.Transcriber,
		exporter:    deps.Exporter,
		suggester:   deps.Suggester,
		opener:      deps.Opener,
		webhook:     deps.Webhook,
		metrics:     m,
		coach:       coach,
		now:         time.Now,
	}
}

// StartSession opens a new interview. Sessions left running by a previous
// process are marked completed first.
func (m *Manager) StartSession(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	active := m.session != nil
	m.mu.Unlock()
	if active {
		return nil, ErrSessionActive
	}

	m.closeOrphanSessions(ctx)

	startedAt := m.now()
	created, err := m.repo.CreateSession(ctx, repository.CreateSessionInput{StartedAt: startedAt})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	var seed []transcript.Entry
	if m.cfg.SeedMockTranscript {
		seed = coaching.MockTranscript(m.cfg.InterviewerSpeaker, m.cfg.CustomerSpeaker)
	}
	s := &Session{
		ID:        created.ID,
		StartedAt: startedAt,
		Log:       transcript.NewLog(seed...),
		modes:     coaching.DefaultModes(),
		device:    m.cfg.InputDevice,
	}
	for i, e := range seed {
		m.persistEntry(ctx, s.ID, i, e)
	}

	m.mu.Lock()
	if m.session != nil {
		m.mu.Unlock()
		_ = m.repo.CompleteSession(ctx, repository.CompleteSessionInput{SessionID: created.ID, EndedAt: m.now(), StopReason: StopReasonDuplicate})
		return nil, ErrSessionActive
	}
	m.session = s
	m.mu.Unlock()

	slog.Info("session started", "session_id", s.ID, "seeded_entries", len(seed), "input_device", s.device)
	return s, nil
}

func (m *Manager) closeOrphanSessions(ctx context.Context) {
	running, err := m.repo.ListRunningSessions(ctx)
	if err != nil {
		slog.Error("failed to query running sessions", "error", err)
		return
	}
	for _, orphan := range running {
		slog.Warn("found orphan running session in repository; closing and continuing", "session_id", orphan.ID)
		if err := m.repo.CompleteSession(ctx, repository.CompleteSessionInput{
			SessionID:  orphan.ID,
			EndedAt:    m.now(),
			StopReason: StopReasonOrphaned,
			EntryCount: orphan.EntryCount,
		}); err != nil {
			slog.Error("failed to complete orphan session", "error", err, "session_id", orphan.ID)
		}
	}
}

// StopSession stops transcription if it is running and completes the
// active session.
func (m *Manager) StopSession(ctx context.Context, reason string) error {
	if err := m.StopTranscription(); err != nil && !errors.Is(err, ErrTranscriptionNotRunning) {
		slog.Warn("failed to stop transcription cleanly", "error", err)
	}

	m.mu.Lock()
	s := m.session
	m.session = nil
	m.mu.Unlock()
	if s == nil {
		return ErrNoActiveSession
	}

	entries := s.Log.Snapshot()
	endedAt := m.now()
	if err := m.repo.CompleteSession(ctx, repository.CompleteSessionInput{
		SessionID:  s.ID,
		EndedAt:    endedAt,
		StopReason: reason,
		EntryCount: len(entries),
	}); err != nil {
		return fmt.Errorf("complete session %s: %w", s.ID, err)
	}
	slog.Info("session stopped", "session_id", s.ID, "reason", reason, "entries", len(entries))
	m.sendTranscriptWebhook(ctx, s, endedAt, reason, entries)
	return nil
}

// storedEntries returns the persisted transcript of a session. Persistence
// is best-effort, so the in-memory snapshot wins when the store is behind.
func (m *Manager) storedEntries(ctx context.Context, sessionID string, snapshot []transcript.Entry) []transcript.Entry {
	stored, err := m.repo.ListEntriesBySessionID(ctx, sessionID)
	if err != nil {
		slog.Warn("failed to list stored transcript entries; using in-memory log", "error", err, "session_id", sessionID)
		return snapshot
	}
	if len(stored) < len(snapshot) {
		slog.Warn("stored transcript is incomplete; using in-memory log", "session_id", sessionID, "stored", len(stored), "in_memory", len(snapshot))
		return snapshot
	}
	out := make([]transcript.Entry, 0, len(stored))
	for _, e := range stored {
		out = append(out, transcript.Entry{Speaker: e.Speaker, Text: e.Text, SpokenAt: e.SpokenAt})
	}
	return out
}

func (m *Manager) sendTranscriptWebhook(ctx context.Context, s *Session, endedAt time.Time, reason string, snapshot []transcript.Entry) {
	if m.webhook == nil {
		return
	}
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), webhookTimeout)
	defer cancel()
	entries := m.storedEntries(wctx, s.ID, snapshot)
	payload := buildTranscriptWebhookPayload(s.ID, s.StartedAt, endedAt, reason, entries)
	if err := m.webhook.SendTranscript(wctx, payload); err != nil {
		slog.Error("failed to send webhook transcript", "error", err, "session_id", s.ID)
	}
}

func (m *Manager) Active() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, ErrNoActiveSession
	}
	return m.session, nil
}

func (m *Manager) InputDevices() ([]audio.DeviceInfo, error) {
	devices, err := m.capturer.InputDevices()
	if err != nil {
		return nil, err
	}
	return audio.InputOnly(devices), nil
}

// SelectDevice records the input device used by the next StartTranscription.
func (m *Manager) SelectDevice(ctx context.Context, name string) error {
	devices, err := m.InputDevices()
	if err != nil {
		return err
	}
	if !slices.ContainsFunc(devices, func(d audio.DeviceInfo) bool { return d.Name == name }) {
		return fmt.Errorf("%w: %q", ErrUnknownDevice, name)
	}

	m.mu.Lock()
	s := m.session
	running := m.live != nil
	if s != nil && !running {
		s.device = name
	}
	m.mu.Unlock()
	if s == nil {
		return ErrNoActiveSession
	}
	if running {
		return ErrTranscriptionRunning
	}

	if err := m.repo.UpdateSessionDevice(ctx, repository.UpdateSessionDeviceInput{SessionID: s.ID, InputDevice: name}); err != nil {
		slog.Warn("failed to persist selected input device", "error", err, "session_id", s.ID)
	}
	slog.Info("input device selected", "session_id", s.ID, "device", name)
	return nil
}

func (m *Manager) SelectedDevice() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return ""
	}
	return m.session.device
}

// StartTranscription opens the selected input device and starts the
// segmenter worker. The worker outlives ctx; it is stopped by
// StopTranscription.
func (m *Manager) StartTranscription(ctx context.Context) error {
	m.mu.Lock()
	s := m.session
	running := m.live != nil
	m.mu.Unlock()
	if s == nil {
		return ErrNoActiveSession
	}
	if running {
		return ErrTranscriptionRunning
	}

	chunks := queue.NewBounded[audio.Chunk](m.cfg.QueueDepth)
	stream, err := m.capturer.Open(audio.StreamConfig{
		DeviceName:     m.SelectedDevice(),
		SampleRate:     m.cfg.SampleRate,
		FramesPerChunk: m.cfg.ChunkFrames,
	}, m.enqueueChunk(s.ID, chunks))
	if err != nil {
		return fmt.Errorf("open input device: %w", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return fmt.Errorf("start input device: %w", err)
	}

	seg := segmenter.New(segmenter.Config{
		SessionID:         s.ID,
		SampleRate:        m.cfg.SampleRate,
		WindowSamples:     m.cfg.WindowSamples(),
		RetainSamples:     m.cfg.RetainSamples(),
		Speaker:           m.cfg.CustomerSpeaker,
		TranscribeTimeout: m.cfg.TranscribeTimeout,
	}, chunks, m.transcriber, s.Log, m.metrics, func(ctx context.Context, index int, entry transcript.Entry) {
		m.persistEntry(ctx, s.ID, index, entry)
	})

	workerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	live := &liveTranscription{stream: stream, chunks: chunks, cancel: cancel, done: make(chan struct{})}

	m.mu.Lock()
	if m.live != nil {
		m.mu.Unlock()
		cancel()
		_ = stream.Stop()
		_ = stream.Close()
		return ErrTranscriptionRunning
	}
	m.live = live
	m.mu.Unlock()

	go func() {
		defer close(live.done)
		if err := seg.Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("segmenter stopped with error", "error", err, "session_id", s.ID)
		}
	}()
	slog.Info("transcription started", "session_id", s.ID, "device", m.SelectedDevice())
	return nil
}

// enqueueChunk is the capture callback. It must not block: a full queue
// drops its oldest chunk.
func (m *Manager) enqueueChunk(sessionID string, chunks *queue.Bounded[audio.Chunk]) audio.ChunkHandler {
	return func(c audio.Chunk) {
		m.metrics.ChunksReceived.Inc()
		if c.Overflowed {
			slog.Debug("input overflow reported by device", "session_id", sessionID)
		}
		accepted := chunks.Push(c)
		m.metrics.QueueDepth.Set(float64(chunks.Len()))
		if accepted {
			return
		}
		m.metrics.ChunksDropped.Inc()
		if n := chunks.Dropped(); n%dropLogEvery == 1 {
			slog.Warn("audio queue full; dropped oldest chunk", "session_id", sessionID, "dropped_total", n)
		}
	}
}

// StopTranscription stops the device, closes the queue and waits for the
// worker. A transcription call in flight is cancelled.
func (m *Manager) StopTranscription() error {
	m.mu.Lock()
	live := m.live
	m.live = nil
	m.mu.Unlock()
	if live == nil {
		return ErrTranscriptionNotRunning
	}

	var errs []error
	if err := live.stream.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop input stream: %w", err))
	}
	if err := live.stream.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close input stream: %w", err))
	}
	live.chunks.Close()
	live.cancel()
	<-live.done
	slog.Info("transcription stopped", "dropped_chunks", live.chunks.Dropped())
	return errors.Join(errs...)
}

func (m *Manager) TranscriptionRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live != nil
}

// persistEntry stores an entry best-effort. Failures are logged only; the
// in-memory log stays authoritative for the running session.
func (m *Manager) persistEntry(ctx context.Context, sessionID string, index int, e transcript.Entry) {
	spokenAt := e.SpokenAt
	if spokenAt.IsZero() {
		spokenAt = m.now()
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancel()
	if err := m.repo.InsertEntry(pctx, repository.InsertEntryInput{
		SessionID:  sessionID,
		EntryIndex: index,
		Speaker:    e.Speaker,
		Text:       e.Text,
		SpokenAt:   spokenAt,
	}); err != nil {
		slog.Error("failed to persist transcript entry", "error", err, "session_id", sessionID, "index", index)
	}
}

func (m *Manager) Modes() coaching.Modes {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return coaching.DefaultModes()
	}
	return m.session.modes
}

// UpdateModes applies fn to the active session's display modes and returns
// the result.
func (m *Manager) UpdateModes(fn func(*coaching.Modes)) (coaching.Modes, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return coaching.Modes{}, ErrNoActiveSession
	}
	fn(&m.session.modes)
	return m.session.modes, nil
}

// Export writes every entry of the active transcript to the notes store.
func (m *Manager) Export(ctx context.Context) (exporter.Report, error) {
	s, err := m.Active()
	if err != nil {
		return exporter.Report{}, err
	}
	if !m.cfg.NotionEnabled() {
		return exporter.Report{}, exporter.ErrNotConfigured
	}
	report := exporter.ExportAll(ctx, m.exporter, s.Log.Snapshot())
	m.metrics.ExportedEntries.Add(float64(report.Exported))
	m.metrics.ExportFailures.Add(float64(len(report.Failures)))
	for _, f := range report.Failures {
		slog.Warn("failed to export transcript entry", "error", f.Err, "session_id", s.ID, "index", f.Index)
	}
	slog.Info("transcript exported", "session_id", s.ID, "total", report.Total, "exported", report.Exported)
	return report, nil
}

type SuggestionSource string

const (
	SuggestionSourceStatic SuggestionSource = "static"
	SuggestionSourceModel  SuggestionSource = "model"
)

type Suggestions struct {
	Questions []string
	Source    SuggestionSource
	// Triggered is set when the last customer line touches a follow-up topic.
	Triggered bool
	// FallbackErr is the model error that caused a fallback to static questions.
	FallbackErr error
}

func (m *Manager) Suggestions(ctx context.Context, useModel bool) (Suggestions, error) {
	s, err := m.Active()
	if err != nil {
		return Suggestions{}, err
	}
	entries := s.Log.Snapshot()
	out := Suggestions{
		Questions: m.coach.Suggest(),
		Source:    SuggestionSourceStatic,
		Triggered: m.coach.Triggered(entries),
	}
	if !useModel || m.suggester == nil {
		return out, nil
	}

	sctx, cancel := context.WithTimeout(ctx, suggestTimeout)
	defer cancel()
	questions, err := m.suggester.Suggest(sctx, entries, m.coach.SuggestionCount())
	if err != nil {
		slog.Warn("model suggestions failed; using static questions", "error", err, "session_id", s.ID)
		out.FallbackErr = err
		return out, nil
	}
	out.Questions = questions
	out.Source = SuggestionSourceModel
	return out, nil
}

func (m *Manager) OpenCall(kind meeting.Kind) (string, error) {
	url, err := meeting.StartURL(kind)
	if err != nil {
		return "", err
	}
	if err := m.opener.Open(url); err != nil {
		return url, err
	}
	slog.Info("call link opened", "kind", kind, "url", url)
	return url, nil
}

func (m *Manager) Render() (string, error) {
	s, err := m.Active()
	if err != nil {
		return "", err
	}
	return renderTranscript(m.coach, s.StartedAt, s.Log.Snapshot(), m.Modes()), nil
}

// Shutdown stops the active session. It is called by the DI container on exit.
func (m *Manager) Shutdown() error {
	err := m.StopSession(context.Background(), StopReasonShutdown)
	if errors.Is(err, ErrNoActiveSession) {
		return nil
	}
	return err
}
