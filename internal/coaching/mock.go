package coaching

import "github.com/foxseedlab/motives/internal/transcript"

const (
	InterviewerSpeaker = "You"
	CustomerSpeaker    = "Customer"
)

var mockLines = [...]struct{ speaker, text string }{
	{InterviewerSpeaker, "Can you walk me through how you currently manage your supplier relationships?"},
	{CustomerSpeaker, "Yeah, we mostly rely on spreadsheets and email. Each project manager kind of has their own system, which can get messy."},
	{InterviewerSpeaker, "Can you tell me about the last time something went wrong because of that system?"},
	{CustomerSpeaker, "Just last week, one of our PMs accidentally double-booked a supplier for two sites on the same day. We lost half a day on both sites just figuring it out."},
	{InterviewerSpeaker, "Wow. That sounds frustrating. What did you do to fix it?"},
	{CustomerSpeaker, "We just added another column in the spreadsheet and told everyone to triple-check before confirming anything."},
	{InterviewerSpeaker, "Have you looked into any software tools to solve that?"},
	{CustomerSpeaker, "We tried Procore and CoConstruct, but they felt bloated. Too many features we didn't need."},
	{InterviewerSpeaker, "What would your dream solution look like?"},
	{CustomerSpeaker, "A shared calendar with conflict alerts and basic contact tracking. No fluff."},
}

// MockTranscript returns the sample interview used to seed a fresh session.
// interviewer and customer replace the default speaker labels when non-empty.
func MockTranscript(interviewer, customer string) []transcript.Entry {
	if interviewer == "" {
		interviewer = InterviewerSpeaker
	}
	if customer == "" {
		customer = CustomerSpeaker
	}
	out := make([]transcript.Entry, 0, len(mockLines))
	for _, l := range mockLines {
		speaker := customer
		if l.speaker == InterviewerSpeaker {
			speaker = interviewer
		}
		out = append(out, transcript.Entry{Speaker: speaker, Text: l.text})
	}
	return out
}
