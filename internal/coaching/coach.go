package coaching

import (
	"math/rand/v2"
	"strings"

	"github.com/foxseedlab/motives/internal/transcript"
)

const EmpathyPrompt = "Empathy prompt: Reflect their emotions to build rapport."

var tips = map[int]string{
	1: "Great use of 'Talk me through the last time that happened.'",
	3: "Consider pausing longer here - let them reflect.",
	6: "This could sound like a pitch - stay curious about *their* process.",
	8: "Ask why that feature matters to them - get to the emotion behind the request.",
}

var emotionWords = []string{"frustrating", "annoying", "overwhelming"}

var followUpKeywords = []string{"cost", "time", "spreadsheet", "problem", "again"}

var followUpQuestions = []string{
	"What are the implications of that happening again?",
	"How much time or money does this cost you each month?",
	"Why do you bother using spreadsheets instead of something else?",
	"What would make you switch tools?",
	"Who else should I talk to about this problem?",
}

type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelWarning
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	}
	return "unknown"
}

type SummaryLine struct {
	Level Level
	Text  string
}

var summary = []SummaryLine{
	{Level: LevelSuccess, Text: "You stayed focused on their past actions."},
	{Level: LevelInfo, Text: "Try slowing down when asking rapid-fire questions."},
	{Level: LevelWarning, Text: "Avoid pitching - keep exploring their world."},
}

type Modes struct {
	Focus    bool
	Empathy  bool
	Coaching bool
}

func DefaultModes() Modes {
	return Modes{Empathy: true, Coaching: true}
}

type Coach struct {
	interviewer string
	customer    string
	count       int
	rng         *rand.Rand
}

func NewCoach(interviewer, customer string, suggestionCount int, rng *rand.Rand) *Coach {
	if interviewer == "" {
		interviewer = InterviewerSpeaker
	}
	if customer == "" {
		customer = CustomerSpeaker
	}
	if suggestionCount <= 0 {
		suggestionCount = 2
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Coach{interviewer: interviewer, customer: customer, count: suggestionCount, rng: rng}
}

// Annotate returns the note shown under the entry at index, or "" when the
// entry gets none. A coaching tip takes precedence over an empathy prompt.
func (c *Coach) Annotate(index int, e transcript.Entry, m Modes) string {
	if !m.Focus && m.Coaching && e.Speaker == c.interviewer {
		if tip, ok := tips[index]; ok {
			return tip
		}
	}
	if m.Empathy && e.Speaker == c.customer && NeedsEmpathy(e.Text) {
		return EmpathyPrompt
	}
	return ""
}

func NeedsEmpathy(text string) bool {
	return containsAny(text, emotionWords)
}

func (c *Coach) Summary(m Modes) []SummaryLine {
	if m.Focus || !m.Coaching {
		return nil
	}
	out := make([]SummaryLine, len(summary))
	copy(out, summary)
	return out
}

// Suggest samples distinct follow-up questions from the static list.
func (c *Coach) Suggest() []string {
	n := min(c.count, len(followUpQuestions))
	picked := make([]string, 0, n)
	for _, i := range c.rng.Perm(len(followUpQuestions))[:n] {
		picked = append(picked, followUpQuestions[i])
	}
	return picked
}

// Triggered reports whether the last customer line mentions a topic the
// follow-up questions dig into.
func (c *Coach) Triggered(entries []transcript.Entry) bool {
	return containsAny(lastText(entries, c.customer), followUpKeywords)
}

func (c *Coach) SuggestionCount() int { return c.count }

func lastText(entries []transcript.Entry, speaker string) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Speaker == speaker {
			return entries[i].Text
		}
	}
	return ""
}

func containsAny(text string, words []string) bool {
	lower := strings.ToLower(text)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
