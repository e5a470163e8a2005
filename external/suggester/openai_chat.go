package suggester

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/foxseedlab/motives/internal/suggester"
	"github.com/foxseedlab/motives/internal/transcript"
	"github.com/sashabaranov/go-openai"
)

const systemPrompt = `You coach user researchers during customer discovery interviews.
Suggest open follow-up questions about the customer's past behaviour and pain.
Never pitch a product. Reply with one question per line and nothing else.`

// maxTranscriptLines bounds the prompt to the most recent part of the interview.
const maxTranscriptLines = 40

var ErrNoSuggestions = errors.New("model returned no suggestions")

type ChatConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type ChatSuggester struct {
	client *openai.Client
	model  string
}

func NewChatSuggester(cfg ChatConfig) suggester.Suggester {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &ChatSuggester{client: openai.NewClientWithConfig(clientCfg), model: model}
}

func (s *ChatSuggester) Suggest(ctx context.Context, entries []transcript.Entry, count int) ([]string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(entries, count)},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoSuggestions
	}
	questions := parseQuestions(resp.Choices[0].Message.Content, count)
	if len(questions) == 0 {
		return nil, ErrNoSuggestions
	}
	return questions, nil
}

func buildPrompt(entries []transcript.Entry, count int) string {
	if len(entries) > maxTranscriptLines {
		entries = entries[len(entries)-maxTranscriptLines:]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest %d follow-up questions for this interview.\n\nTranscript:\n", count)
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", e.Speaker, e.Text)
	}
	return b.String()
}

// parseQuestions keeps non-empty lines, stripping list markers the model
// tends to add anyway.
func parseQuestions(content string, count int) []string {
	var out []string
	for line := range strings.SplitSeq(content, "\n") {
		q := strings.TrimSpace(line)
		q = strings.TrimLeft(q, "-*0123456789.) ")
		if q == "" {
			continue
		}
		out = append(out, q)
		if len(out) == count {
			break
		}
	}
	return out
}
