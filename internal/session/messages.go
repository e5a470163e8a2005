package session

const (
	StopReasonQuit      = "operator_quit"
	StopReasonSignal    = "signal"
	StopReasonShutdown  = "shutdown"
	StopReasonOrphaned  = "orphaned"
	StopReasonDuplicate = "duplicate"
)

const helpText = `Commands:
  help            show this help
  show            print the transcript with coaching notes
  devices         list audio input devices
  device <name>   select the input device for transcription
  start           start real-time transcription
  stop            stop real-time transcription
  focus           toggle focus mode (hides coaching)
  empathy         toggle empathy nudges
  coaching        toggle coaching mode
  suggest         suggest follow-up questions
  suggest ai      suggest follow-up questions with the language model
  export          export the transcript to Notion
  zoom            start a Zoom call in the browser
  meet            start a Google Meet call in the browser
  quit            end the interview and exit`

const (
	messageUnknownCommand      = "unknown command %q; type \"help\" for the list"
	messageDeviceUsage         = "usage: device <name>"
	messageNoDevices           = "no audio input devices found"
	messageDeviceSelected      = "input device set to %q"
	messageTranscriptionStart  = "transcription started using device: %s"
	messageTranscriptionStop   = "transcription stopped"
	messageDeviceUnavailable   = "audio device unavailable: %v"
	messageModeToggled         = "%s mode: %s"
	messageSuggestionsHeader   = "Suggested follow-up questions:"
	messageSuggestionsFallback = "(language model unavailable: %v; showing static questions)"
	messageSuggestionsTopic    = "(topic detected in the last customer answer: dig deeper)"
	messageExportNotConfigured = "Notion export is not configured (set NOTION_TOKEN and NOTION_DATABASE_ID)"
	messageCallOpened          = "opened %s"
	messageCallOpenFailed      = "could not open browser (%v); join at %s"
	messageGoodbye             = "interview ended"
	defaultDeviceLabel         = "(system default)"
)

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
