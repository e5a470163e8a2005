// Package segmenter turns the live chunk stream into overlapping fixed-size
// windows, transcribes each window and appends the text to the transcript log.
//
// A Segmenter runs on exactly one goroutine. Only chunks cross the goroutine
// boundary (through the bounded queue); the accumulation buffer never leaves
// the worker.
package segmenter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/foxseedlab/motives/internal/audio"
	"github.com/foxseedlab/motives/internal/metrics"
	"github.com/foxseedlab/motives/internal/queue"
	"github.com/foxseedlab/motives/internal/transcriber"
	"github.com/foxseedlab/motives/internal/transcript"
)

const (
	DefaultSampleRate        = 16000
	DefaultWindowSamples     = DefaultSampleRate * 5
	DefaultRetainSamples     = DefaultSampleRate
	DefaultTranscribeTimeout = 30 * time.Second
	DefaultSpeaker           = "Customer"
)

type Config struct {
	SessionID         string
	SampleRate        int
	WindowSamples     int
	RetainSamples     int
	Speaker           string
	TranscribeTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.SampleRate <= 0 {
		c.SampleRate = DefaultSampleRate
	}
	if c.WindowSamples <= 0 {
		c.WindowSamples = DefaultWindowSamples
	}
	if c.RetainSamples <= 0 || c.RetainSamples >= c.WindowSamples {
		c.RetainSamples = min(DefaultRetainSamples, c.WindowSamples/5)
	}
	if c.Speaker == "" {
		c.Speaker = DefaultSpeaker
	}
	if c.TranscribeTimeout <= 0 {
		c.TranscribeTimeout = DefaultTranscribeTimeout
	}
	return c
}

// EntryHandler is called on the worker goroutine after an entry has been
// appended to the log. index is the entry's position in the log.
type EntryHandler func(ctx context.Context, index int, entry transcript.Entry)

type Segmenter struct {
	cfg         Config
	chunks      *queue.Bounded[audio.Chunk]
	transcriber transcriber.Transcriber
	log         *transcript.Log
	metrics     *metrics.Metrics
	onEntry     EntryHandler
	now         func() time.Time

	buf     []float32
	flushes int
}

func New(cfg Config, chunks *queue.Bounded[audio.Chunk], stt transcriber.Transcriber, log *transcript.Log, m *metrics.Metrics, onEntry EntryHandler) *Segmenter {
	cfg = cfg.withDefaults()
	if m == nil {
		m = metrics.NewNopMetrics()
	}
	return &Segmenter{
		cfg:         cfg,
		chunks:      chunks,
		transcriber: stt,
		log:         log,
		metrics:     m,
		onEntry:     onEntry,
		now:         time.Now,
		buf:         make([]float32, 0, cfg.WindowSamples*2),
	}
}

// Run consumes chunks until ctx is cancelled or the queue is closed. A closed
// queue ends the loop with a nil error.
func (s *Segmenter) Run(ctx context.Context) error {
	slog.Info("segmenter loop started",
		"session_id", s.cfg.SessionID,
		"window_samples", s.cfg.WindowSamples,
		"retain_samples", s.cfg.RetainSamples)
	for {
		chunk, err := s.chunks.Pop(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) {
				slog.Info("segmenter loop stopped: queue closed", "session_id", s.cfg.SessionID, "flushes", s.flushes)
				return nil
			}
			slog.Info("segmenter loop stopped by context cancel", "session_id", s.cfg.SessionID, "flushes", s.flushes)
			return err
		}
		s.metrics.QueueDepth.Set(float64(s.chunks.Len()))
		s.accept(ctx, chunk.Samples)
	}
}

// accept appends samples and flushes when a full window is buffered. It
// reports whether a window was submitted.
func (s *Segmenter) accept(ctx context.Context, samples []float32) bool {
	s.buf = append(s.buf, samples...)
	if len(s.buf) < s.cfg.WindowSamples {
		return false
	}
	window := make([]float32, s.cfg.WindowSamples)
	copy(window, s.buf[len(s.buf)-s.cfg.WindowSamples:])
	s.flush(ctx, window)
	s.retain()
	return true
}

// retain keeps only the trailing RetainSamples so the next window overlaps
// the previous one. The tail is moved to the front to reuse the backing array.
func (s *Segmenter) retain() {
	if len(s.buf) <= s.cfg.RetainSamples {
		return
	}
	n := copy(s.buf, s.buf[len(s.buf)-s.cfg.RetainSamples:])
	s.buf = s.buf[:n]
}

func (s *Segmenter) flush(ctx context.Context, window []float32) {
	s.flushes++
	s.metrics.Flushes.Inc()
	s.metrics.WindowSamples.Observe(float64(len(window)))

	tctx, cancel := context.WithTimeout(ctx, s.cfg.TranscribeTimeout)
	defer cancel()

	started := s.now()
	text, err := s.transcriber.Transcribe(tctx, window, s.cfg.SampleRate)
	elapsed := s.now().Sub(started)
	s.metrics.TranscriptionDuration.Observe(elapsed.Seconds())
	if err != nil {
		s.metrics.TranscriptionFailures.Inc()
		slog.Warn("transcription failed; skipping window",
			"error", err,
			"session_id", s.cfg.SessionID,
			"flush", s.flushes,
			"window_samples", len(window),
			"elapsed_ms", elapsed.Milliseconds())
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.TranscriptionEmpty.Inc()
		slog.Debug("transcription returned no text", "session_id", s.cfg.SessionID, "flush", s.flushes)
		return
	}

	entry := transcript.Entry{
		Speaker:  s.cfg.Speaker,
		Text:     text,
		SpokenAt: started,
	}
	idx := s.log.Append(entry)
	s.metrics.EntriesPublished.Inc()
	slog.Info("transcript entry published",
		"session_id", s.cfg.SessionID,
		"index", idx,
		"speaker", entry.Speaker,
		"chars", len(text),
		"elapsed_ms", elapsed.Milliseconds())
	if s.onEntry != nil {
		s.onEntry(ctx, idx, entry)
	}
}
