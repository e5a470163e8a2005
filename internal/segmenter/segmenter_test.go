package segmenter

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/foxseedlab/motives/internal/audio"
	"github.com/foxseedlab/motives/internal/metrics"
	"github.com/foxseedlab/motives/internal/queue"
	"github.com/foxseedlab/motives/internal/transcript"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type mockTranscriber struct {
	mu      sync.Mutex
	windows [][]float32
	// respond returns the result for the n-th call (0-based).
	respond func(ctx context.Context, n int) (string, error)
}

func (m *mockTranscriber) Transcribe(ctx context.Context, samples []float32, sampleRate int) (string, error) {
	if sampleRate != DefaultSampleRate {
		return "", fmt.Errorf("unexpected sample rate %d", sampleRate)
	}
	m.mu.Lock()
	n := len(m.windows)
	m.windows = append(m.windows, samples)
	m.mu.Unlock()
	if m.respond == nil {
		return fmt.Sprintf("window %d", n), nil
	}
	return m.respond(ctx, n)
}

func (m *mockTranscriber) calls() [][]float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]float32, len(m.windows))
	copy(out, m.windows)
	return out
}

func newTestSegmenter(stt *mockTranscriber) (*Segmenter, *transcript.Log, *metrics.Metrics) {
	log := transcript.NewLog()
	m := metrics.NewNopMetrics()
	s := New(Config{SessionID: "session-1"}, queue.NewBounded[audio.Chunk](64), stt, log, m, nil)
	return s, log, m
}

// rampChunk returns n samples whose values continue a global sample counter,
// so the position of each sample in the stream can be recovered.
func rampChunk(start, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(start + i)
	}
	return out
}

func TestAccept_FiftyTenthSecondChunksFlushOnce(t *testing.T) {
	stt := &mockTranscriber{}
	s, log, _ := newTestSegmenter(stt)

	flushes := 0
	for i := 0; i < 50; i++ {
		if s.accept(context.Background(), rampChunk(i*1600, 1600)) {
			flushes++
		}
	}

	if flushes != 1 {
		t.Fatalf("expected exactly one flush, got %d", flushes)
	}
	calls := stt.calls()
	if len(calls) != 1 || len(calls[0]) != DefaultWindowSamples {
		t.Fatalf("expected one window of %d samples, got %d calls", DefaultWindowSamples, len(calls))
	}
	if len(s.buf) > DefaultRetainSamples {
		t.Fatalf("expected at most %d buffered samples after flush, got %d", DefaultRetainSamples, len(s.buf))
	}
	if log.Len() != 1 {
		t.Fatalf("expected one transcript entry, got %d", log.Len())
	}
}

func TestAccept_TenOneSecondChunksFlushTwice(t *testing.T) {
	stt := &mockTranscriber{}
	s, log, m := newTestSegmenter(stt)

	for i := 0; i < 10; i++ {
		s.accept(context.Background(), rampChunk(i*16000, 16000))
	}

	calls := stt.calls()
	if len(calls) != 2 {
		t.Fatalf("expected exactly two flushes, got %d", len(calls))
	}
	for i, w := range calls {
		if len(w) > DefaultWindowSamples {
			t.Fatalf("window %d exceeds %d samples: %d", i, DefaultWindowSamples, len(w))
		}
	}
	// The first window covers 0s-5s; the second starts at the retained 4s mark.
	if calls[0][0] != 0 {
		t.Fatalf("first window starts at sample %v, want 0", calls[0][0])
	}
	if calls[1][0] != 4*16000 {
		t.Fatalf("second window starts at sample %v, want %d", calls[1][0], 4*16000)
	}
	if log.Len() != 2 {
		t.Fatalf("expected two transcript entries, got %d", log.Len())
	}
	if got := testutil.ToFloat64(m.Flushes); got != 2 {
		t.Fatalf("expected flush metric 2, got %v", got)
	}
}

func TestAccept_WindowIsTrailingSlice(t *testing.T) {
	stt := &mockTranscriber{}
	s, _, _ := newTestSegmenter(stt)

	// 70 000 + 15 000 samples: the window must be the last 80 000.
	s.accept(context.Background(), rampChunk(0, 70000))
	s.accept(context.Background(), rampChunk(70000, 15000))

	calls := stt.calls()
	if len(calls) != 1 {
		t.Fatalf("expected one flush, got %d", len(calls))
	}
	w := calls[0]
	if w[0] != 5000 || w[len(w)-1] != 84999 {
		t.Fatalf("unexpected window bounds: first=%v last=%v", w[0], w[len(w)-1])
	}
	if len(s.buf) != DefaultRetainSamples || s.buf[0] != 85000-DefaultRetainSamples {
		t.Fatalf("unexpected retained buffer: len=%d first=%v", len(s.buf), s.buf[0])
	}
}

func TestAccept_BufferBoundHoldsForVariousChunkSizes(t *testing.T) {
	for _, size := range []int{160, 512, 1600, 4000, 16000, 33333} {
		t.Run(fmt.Sprintf("chunk=%d", size), func(t *testing.T) {
			stt := &mockTranscriber{}
			s, _, _ := newTestSegmenter(stt)
			total := 0
			for total < 3*DefaultWindowSamples {
				flushed := s.accept(context.Background(), rampChunk(total, size))
				total += size
				if flushed && len(s.buf) > DefaultRetainSamples {
					t.Fatalf("buffer %d exceeds retention after flush", len(s.buf))
				}
				if len(s.buf) > DefaultWindowSamples+size {
					t.Fatalf("buffer %d grew beyond one window plus a chunk", len(s.buf))
				}
			}
			calls := stt.calls()
			if len(calls) == 0 {
				t.Fatal("expected at least one flush")
			}
			for _, w := range calls {
				if len(w) > DefaultWindowSamples {
					t.Fatalf("window of %d samples exceeds limit", len(w))
				}
			}
		})
	}
}

func TestAccept_FailedTranscriptionPublishesNothing(t *testing.T) {
	stt := &mockTranscriber{respond: func(_ context.Context, n int) (string, error) {
		if n == 0 {
			return "", errors.New("model crashed")
		}
		return "  recovered  ", nil
	}}
	s, log, m := newTestSegmenter(stt)

	s.accept(context.Background(), rampChunk(0, DefaultWindowSamples))
	if log.Len() != 0 {
		t.Fatalf("expected no entries after failure, got %d", log.Len())
	}
	if len(s.buf) != DefaultRetainSamples {
		t.Fatalf("expected retention after failed flush, got %d", len(s.buf))
	}

	s.accept(context.Background(), rampChunk(DefaultWindowSamples, DefaultWindowSamples))
	entries := log.Snapshot()
	if len(entries) != 1 || entries[0].Text != "recovered" || entries[0].Speaker != "Customer" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if got := testutil.ToFloat64(m.TranscriptionFailures); got != 1 {
		t.Fatalf("expected one failure counted, got %v", got)
	}
}

func TestAccept_EmptyTextPublishesNothing(t *testing.T) {
	stt := &mockTranscriber{respond: func(_ context.Context, _ int) (string, error) {
		return " \n\t", nil
	}}
	s, log, m := newTestSegmenter(stt)

	s.accept(context.Background(), rampChunk(0, DefaultWindowSamples))
	if log.Len() != 0 {
		t.Fatalf("expected no entries, got %d", log.Len())
	}
	if got := testutil.ToFloat64(m.TranscriptionEmpty); got != 1 {
		t.Fatalf("expected one empty result counted, got %v", got)
	}
}

func TestAccept_TranscriptionTimeout(t *testing.T) {
	stt := &mockTranscriber{respond: func(ctx context.Context, _ int) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	}}
	log := transcript.NewLog()
	s := New(Config{TranscribeTimeout: 10 * time.Millisecond}, queue.NewBounded[audio.Chunk](4), stt, log, nil, nil)

	done := make(chan struct{})
	go func() {
		s.accept(context.Background(), rampChunk(0, DefaultWindowSamples))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("hung transcription was not cut off by the timeout")
	}
	if log.Len() != 0 {
		t.Fatalf("expected no entries after timeout, got %d", log.Len())
	}
}

func TestAccept_EntryHandlerReceivesIndex(t *testing.T) {
	stt := &mockTranscriber{}
	log := transcript.NewLog(transcript.Entry{Speaker: "You", Text: "seed"})
	var gotIndex []int
	s := New(Config{}, queue.NewBounded[audio.Chunk](4), stt, log, nil, func(_ context.Context, index int, e transcript.Entry) {
		gotIndex = append(gotIndex, index)
		if e.Text != "window 0" {
			t.Errorf("unexpected entry text: %q", e.Text)
		}
	})

	s.accept(context.Background(), rampChunk(0, DefaultWindowSamples))
	if len(gotIndex) != 1 || gotIndex[0] != 1 {
		t.Fatalf("unexpected handler indexes: %v", gotIndex)
	}
}

func TestRun_PublishesInFlushOrderDespiteLatency(t *testing.T) {
	latencies := []time.Duration{30 * time.Millisecond, 0, 15 * time.Millisecond, 0}
	stt := &mockTranscriber{respond: func(_ context.Context, n int) (string, error) {
		time.Sleep(latencies[n%len(latencies)])
		return fmt.Sprintf("window %d", n), nil
	}}
	chunks := queue.NewBounded[audio.Chunk](256)
	log := transcript.NewLog()
	s := New(Config{}, chunks, stt, log, nil, nil)

	for i := 0; i < 20; i++ {
		chunks.Push(audio.Chunk{Samples: rampChunk(i*16000, 16000)})
	}
	chunks.Close()

	if err := s.Run(context.Background()); err != nil {
		t.Fatalf("expected nil error on closed queue, got %v", err)
	}
	entries := log.Snapshot()
	if len(entries) == 0 {
		t.Fatal("expected entries")
	}
	for i, e := range entries {
		if e.Text != fmt.Sprintf("window %d", i) {
			t.Fatalf("entry %d out of order: %q", i, e.Text)
		}
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	chunks := queue.NewBounded[audio.Chunk](4)
	s := New(Config{}, chunks, &mockTranscriber{}, transcript.NewLog(), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	chunks.Push(audio.Chunk{Samples: rampChunk(0, 1600)})
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("segmenter did not stop after cancel")
	}
}

func TestConfigDefaults(t *testing.T) {
	c := Config{RetainSamples: 99999999}.withDefaults()
	if c.SampleRate != 16000 || c.WindowSamples != 80000 || c.RetainSamples != 16000 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.Speaker != "Customer" || c.TranscribeTimeout != 30*time.Second {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}
