package llm

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyCompletion = errors.New("llm: empty completion")

// Client is a minimal LLM interface to allow pluggable providers.
type Client interface {
	// Complete sends prompt as a single user message and returns the reply text.
	Complete(ctx context.Context, prompt string) (string, error)
}

// Settings carries the credential and sampling parameters for a client.
// It is passed explicitly to every constructor; nothing is read from globals.
type Settings struct {
	APIKey           string
	BaseURL          string
	Model            string
	Temperature      float64
	FrequencyPenalty float64
	PresencePenalty  float64
	// Timeout bounds a single call. Zero means no timeout.
	Timeout time.Duration
}
