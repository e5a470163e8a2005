package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/foxseedlab/motives/internal/audio"
	"github.com/foxseedlab/motives/internal/transcript"
)

func TestHandleCommand(t *testing.T) {
	m, d := newTestManager(testConfig())
	mustStartSession(t, m)
	ctx := context.Background()

	tests := []struct {
		line string
		want string
	}{
		{line: "help", want: "suggest ai"},
		{line: "show", want: "Transcript:"},
		{line: "devices", want: "USB Mic (2 ch, 44100 Hz)"},
		{line: "device", want: messageDeviceUsage},
		{line: "device USB Mic", want: `input device set to "USB Mic"`},
		{line: "device Speakers", want: "unknown input device"},
		{line: "focus", want: "focus mode: on"},
		{line: "FOCUS", want: "focus mode: off"},
		{line: "empathy", want: "empathy mode: off"},
		{line: "coaching", want: "coaching mode: off"},
		{line: "suggest", want: messageSuggestionsHeader},
		{line: "export", want: "exported all 10 entries"},
		{line: "meet", want: "opened https://meet.google.com/new"},
		{line: "stop", want: ErrTranscriptionNotRunning.Error()},
		{line: "dance", want: `unknown command "dance"`},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			reply := m.HandleCommand(ctx, tt.line)
			if reply.Quit {
				t.Fatal("unexpected quit")
			}
			if !strings.Contains(reply.Text, tt.want) {
				t.Fatalf("expected reply to contain %q, got %q", tt.want, reply.Text)
			}
		})
	}

	if reply := m.HandleCommand(ctx, "   "); reply.Text != "" || reply.Quit {
		t.Fatalf("expected empty reply for blank line, got %+v", reply)
	}
	if len(d.opener.urls) != 1 {
		t.Fatalf("expected one opened url, got %v", d.opener.urls)
	}
}

func TestHandleCommand_SuggestReportsTopic(t *testing.T) {
	m, _ := newTestManager(testConfig())
	s := mustStartSession(t, m)
	ctx := context.Background()

	if reply := m.HandleCommand(ctx, "suggest"); strings.Contains(reply.Text, messageSuggestionsTopic) {
		t.Fatalf("expected no topic for the seeded transcript, got %q", reply.Text)
	}
	s.Log.Append(transcript.Entry{Speaker: "Customer", Text: "The spreadsheet broke again."})
	if reply := m.HandleCommand(ctx, "suggest"); !strings.Contains(reply.Text, messageSuggestionsTopic) {
		t.Fatalf("expected topic line, got %q", reply.Text)
	}
}

func TestHandleCommand_StartStop(t *testing.T) {
	m, d := newTestManager(testConfig())
	mustStartSession(t, m)
	ctx := context.Background()

	if reply := m.HandleCommand(ctx, "start"); !strings.Contains(reply.Text, "transcription started using device: "+defaultDeviceLabel) {
		t.Fatalf("unexpected start reply: %q", reply.Text)
	}
	if reply := m.HandleCommand(ctx, "start"); !strings.Contains(reply.Text, ErrTranscriptionRunning.Error()) {
		t.Fatalf("unexpected second start reply: %q", reply.Text)
	}
	if reply := m.HandleCommand(ctx, "stop"); reply.Text != messageTranscriptionStop {
		t.Fatalf("unexpected stop reply: %q", reply.Text)
	}
	if !d.capturer.stream.closed {
		t.Fatal("expected stream to be closed")
	}
}

func TestHandleCommand_StartDeviceUnavailable(t *testing.T) {
	m, d := newTestManager(testConfig())
	d.capturer.openErr = fmt.Errorf("%w: unplugged", audio.ErrDeviceUnavailable)
	mustStartSession(t, m)

	reply := m.HandleCommand(context.Background(), "start")
	if !strings.HasPrefix(reply.Text, "audio device unavailable:") {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}

func TestHandleCommand_ExportNotConfigured(t *testing.T) {
	cfg := testConfig()
	cfg.NotionToken, cfg.NotionDatabaseID = "", ""
	m, _ := newTestManager(cfg)
	mustStartSession(t, m)

	if reply := m.HandleCommand(context.Background(), "export"); reply.Text != messageExportNotConfigured {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}

func TestHandleCommand_CallOpenFailureShowsURL(t *testing.T) {
	m, d := newTestManager(testConfig())
	d.opener.err = errors.New("no display")

	reply := m.HandleCommand(context.Background(), "zoom")
	if !strings.Contains(reply.Text, "join at https://zoom.us/start/videomeeting") {
		t.Fatalf("unexpected reply: %q", reply.Text)
	}
}

func TestHandleCommand_QuitStopsSession(t *testing.T) {
	m, d := newTestManager(testConfig())
	mustStartSession(t, m)

	reply := m.HandleCommand(context.Background(), "quit")
	if !reply.Quit || reply.Text != messageGoodbye {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if len(d.repo.completeCalls) != 1 || d.repo.completeCalls[0].StopReason != StopReasonQuit {
		t.Fatalf("expected session to be completed, got %+v", d.repo.completeCalls)
	}
	if _, err := m.Active(); !errors.Is(err, ErrNoActiveSession) {
		t.Fatalf("expected no active session, got %v", err)
	}
}
