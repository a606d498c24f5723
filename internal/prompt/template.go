// Package prompt loads the static prompt templates sent to the LLM and renders
// them for a given draft.
package prompt

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

const (
	// AnswerPlaceholder is replaced with the draft in the evaluation template.
	AnswerPlaceholder = "<<ANSWER>>"
	// DraftPlaceholder is replaced with the draft in the improvement template.
	DraftPlaceholder = "<<DRAFT>>"
)

var ErrMissingPlaceholder = errors.New("template has no placeholder")

// Template is immutable prompt text with a single substitution token.
type Template struct {
	name        string
	text        string
	placeholder string
}

// New builds a template and checks that the placeholder occurs in text.
func New(name, text, placeholder string) (Template, error) {
	if placeholder == "" {
		return Template{}, fmt.Errorf("template %s: placeholder required", name)
	}
	if !strings.Contains(text, placeholder) {
		return Template{}, fmt.Errorf("template %s: %w %s", name, ErrMissingPlaceholder, placeholder)
	}
	return Template{name: name, text: text, placeholder: placeholder}, nil
}

func (t Template) Name() string { return t.name }

// Render returns the template text with every placeholder occurrence replaced
// by value. The template itself is left untouched.
func (t Template) Render(value string) string {
	return strings.ReplaceAll(t.text, t.placeholder, value)
}

// Loader resolves a template by path.
type Loader interface {
	Load(path, placeholder string) (Template, error)
}

// FileLoader reads templates from disk on every call so edits made while a
// run is in progress are picked up by the next step.
type FileLoader struct{}

func NewFileLoader() *FileLoader {
	return &FileLoader{}
}

func (l *FileLoader) Load(path, placeholder string) (Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read template %s: %w", path, err)
	}
	return New(path, string(data), placeholder)
}
