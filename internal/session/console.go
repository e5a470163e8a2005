package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/foxseedlab/motives/internal/audio"
	"github.com/foxseedlab/motives/internal/coaching"
	"github.com/foxseedlab/motives/internal/exporter"
	"github.com/foxseedlab/motives/internal/meeting"
)

// Reply is the console output of one operator command.
type Reply struct {
	Text string
	Quit bool
}

// HandleCommand runs one line typed by the operator. Command failures are
// reported in the reply text; they never end the console.
func (m *Manager) HandleCommand(ctx context.Context, line string) Reply {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Reply{}
	}
	name := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))
	slog.Debug("console command received", "command", name)

	switch name {
	case "help", "?":
		return Reply{Text: helpText}
	case "show":
		return m.replyOrError(m.Render())
	case "devices":
		return m.replyDevices()
	case "device":
		if arg == "" {
			return Reply{Text: messageDeviceUsage}
		}
		if err := m.SelectDevice(ctx, arg); err != nil {
			return errorReply(err)
		}
		return Reply{Text: fmt.Sprintf(messageDeviceSelected, arg)}
	case "start":
		return m.replyStart(ctx)
	case "stop":
		if err := m.StopTranscription(); err != nil {
			return errorReply(err)
		}
		return Reply{Text: messageTranscriptionStop}
	case "focus":
		return m.toggle("focus", func(md *coaching.Modes) bool { md.Focus = !md.Focus; return md.Focus })
	case "empathy":
		return m.toggle("empathy", func(md *coaching.Modes) bool { md.Empathy = !md.Empathy; return md.Empathy })
	case "coaching":
		return m.toggle("coaching", func(md *coaching.Modes) bool { md.Coaching = !md.Coaching; return md.Coaching })
	case "suggest":
		s, err := m.Suggestions(ctx, strings.EqualFold(arg, "ai"))
		if err != nil {
			return errorReply(err)
		}
		return Reply{Text: formatSuggestions(s)}
	case "export":
		return m.replyExport(ctx)
	case "zoom", "meet":
		return m.replyCall(meeting.Kind(name))
	case "quit", "exit":
		if err := m.StopSession(ctx, StopReasonQuit); err != nil && !errors.Is(err, ErrNoActiveSession) {
			return Reply{Text: "error: " + err.Error(), Quit: true}
		}
		return Reply{Text: messageGoodbye, Quit: true}
	}
	return Reply{Text: fmt.Sprintf(messageUnknownCommand, fields[0])}
}

func (m *Manager) replyOrError(text string, err error) Reply {
	if err != nil {
		return errorReply(err)
	}
	return Reply{Text: text}
}

func (m *Manager) replyDevices() Reply {
	devices, err := m.InputDevices()
	if err != nil {
		return errorReply(err)
	}
	if len(devices) == 0 {
		return Reply{Text: messageNoDevices}
	}
	selected := m.SelectedDevice()
	lines := make([]string, 0, len(devices))
	for _, d := range devices {
		marker := " "
		if d.Name == selected {
			marker = "*"
		}
		lines = append(lines, fmt.Sprintf("%s %s (%d ch, %.0f Hz)", marker, d.Name, d.MaxInputChannels, d.DefaultSampleRate))
	}
	return Reply{Text: strings.Join(lines, "\n")}
}

func (m *Manager) replyStart(ctx context.Context) Reply {
	err := m.StartTranscription(ctx)
	if errors.Is(err, audio.ErrDeviceUnavailable) {
		return Reply{Text: fmt.Sprintf(messageDeviceUnavailable, err)}
	}
	if err != nil {
		return errorReply(err)
	}
	device := m.SelectedDevice()
	if device == "" {
		device = defaultDeviceLabel
	}
	return Reply{Text: fmt.Sprintf(messageTranscriptionStart, device)}
}

func (m *Manager) toggle(label string, flip func(*coaching.Modes) bool) Reply {
	var state bool
	if _, err := m.UpdateModes(func(md *coaching.Modes) { state = flip(md) }); err != nil {
		return errorReply(err)
	}
	return Reply{Text: fmt.Sprintf(messageModeToggled, label, onOff(state))}
}

func (m *Manager) replyExport(ctx context.Context) Reply {
	report, err := m.Export(ctx)
	if errors.Is(err, exporter.ErrNotConfigured) {
		return Reply{Text: messageExportNotConfigured}
	}
	if err != nil {
		return errorReply(err)
	}
	return Reply{Text: report.Summary()}
}

func (m *Manager) replyCall(kind meeting.Kind) Reply {
	url, err := m.OpenCall(kind)
	if err != nil && url != "" {
		return Reply{Text: fmt.Sprintf(messageCallOpenFailed, err, url)}
	}
	if err != nil {
		return errorReply(err)
	}
	return Reply{Text: fmt.Sprintf(messageCallOpened, url)}
}

func errorReply(err error) Reply {
	return Reply{Text: "error: " + err.Error()}
}
