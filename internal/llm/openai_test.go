package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newFakeOpenAI(t *testing.T, status int, content string, seen *map[string]any, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-4-0613",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	if _, err := NewOpenAIClient(Settings{}); err == nil {
		t.Fatal("expected error for missing api key")
	}
}

func TestNewOpenAIClientDefaultsModel(t *testing.T) {
	c, err := NewOpenAIClient(Settings{APIKey: "sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Model() != DefaultModel {
		t.Errorf("expected model %s, got %s", DefaultModel, c.Model())
	}
}

func TestOpenAIClientComplete(t *testing.T) {
	var req map[string]any
	var calls atomic.Int32
	srv := newFakeOpenAI(t, http.StatusOK, "87/100 - good", &req, &calls)
	defer srv.Close()

	c, err := NewOpenAIClient(Settings{
		APIKey:           "sk-test",
		BaseURL:          srv.URL + "/",
		Model:            "gpt-4-0613",
		Temperature:      DefaultTemperature,
		FrequencyPenalty: DefaultFrequencyPenalty,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := c.Complete(context.Background(), "rate this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "87/100 - good" {
		t.Errorf("got %q", got)
	}

	if req["model"] != "gpt-4-0613" {
		t.Errorf("expected model gpt-4-0613, got %v", req["model"])
	}
	if req["temperature"] != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", req["temperature"])
	}
	if req["frequency_penalty"] != 0.2 {
		t.Errorf("expected frequency_penalty 0.2, got %v", req["frequency_penalty"])
	}
	msgs, ok := req["messages"].([]any)
	if !ok || len(msgs) != 1 {
		t.Fatalf("expected exactly one message, got %v", req["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "rate this" {
		t.Errorf("unexpected message %v", msg)
	}
}

func TestOpenAIClientEmptyCompletion(t *testing.T) {
	var calls atomic.Int32
	srv := newFakeOpenAI(t, http.StatusOK, "", nil, &calls)
	defer srv.Close()

	c, err := NewOpenAIClient(Settings{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Complete(context.Background(), "x"); !errors.Is(err, ErrEmptyCompletion) {
		t.Fatalf("expected ErrEmptyCompletion, got %v", err)
	}
}

func TestOpenAIClientDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	srv := newFakeOpenAI(t, http.StatusInternalServerError, "", nil, &calls)
	defer srv.Close()

	c, err := NewOpenAIClient(Settings{APIKey: "sk-test", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := c.Complete(context.Background(), "x"); err == nil {
		t.Fatal("expected error from failing server")
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("expected a single attempt, got %d", n)
	}
}
