package suggester

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/foxseedlab/motives/internal/transcript"
)

func newChatServer(t *testing.T, content string, gotBody *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if gotBody != nil {
			if err := json.NewDecoder(r.Body).Decode(gotBody); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		resp := map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestChatSuggest_ParsesQuestions(t *testing.T) {
	var body map[string]any
	server := newChatServer(t, "1. What did that cost you?\n\n- Who else felt it?\n3) Anything else?", &body)
	defer server.Close()

	s := NewChatSuggester(ChatConfig{APIKey: "test", Model: "gpt-4o-mini", BaseURL: server.URL + "/v1"})
	entries := []transcript.Entry{{Speaker: "Customer", Text: "We lost half a day."}}
	got, err := s.Suggest(context.Background(), entries, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"What did that cost you?", "Who else felt it?"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if body["model"] != "gpt-4o-mini" {
		t.Fatalf("unexpected model: %v", body["model"])
	}
	messages, _ := body["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	if content, _ := user["content"].(string); !strings.Contains(content, "Customer: We lost half a day.") {
		t.Fatalf("transcript missing from prompt: %q", content)
	}
}

func TestChatSuggest_EmptyReply(t *testing.T) {
	server := newChatServer(t, "  \n ", nil)
	defer server.Close()

	s := NewChatSuggester(ChatConfig{APIKey: "test", BaseURL: server.URL + "/v1"})
	_, err := s.Suggest(context.Background(), nil, 2)
	if !errors.Is(err, ErrNoSuggestions) {
		t.Fatalf("expected ErrNoSuggestions, got %v", err)
	}
}

func TestChatSuggest_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	s := NewChatSuggester(ChatConfig{APIKey: "test", BaseURL: server.URL + "/v1"})
	if _, err := s.Suggest(context.Background(), nil, 2); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildPrompt_KeepsRecentLines(t *testing.T) {
	entries := make([]transcript.Entry, maxTranscriptLines+5)
	for i := range entries {
		entries[i] = transcript.Entry{Speaker: "You", Text: "line"}
	}
	entries[0].Text = "oldest"
	if strings.Contains(buildPrompt(entries, 2), "oldest") {
		t.Fatal("expected oldest line to be trimmed")
	}
}
