package refine

import (
	"context"
	"fmt"

	"yt-blog/internal/llm"
	"yt-blog/internal/prompt"
)

// Evaluator scores a draft and returns the model's raw assessment.
type Evaluator interface {
	Evaluate(ctx context.Context, draft string) (string, error)
}

// Improver produces free-text improvement suggestions for a draft.
type Improver interface {
	Improve(ctx context.Context, draft string) (string, error)
}

// Rewriter applies suggestions to a draft and returns the new draft.
type Rewriter interface {
	Rewrite(ctx context.Context, draft, suggestions string) (string, error)
}

// TemplatePaths locates the two prompt templates on disk.
type TemplatePaths struct {
	Evaluation  string
	Improvement string
}

// Steps implements Evaluator, Improver and Rewriter on top of an LLM client.
type Steps struct {
	llm       llm.Client
	templates prompt.Loader
	paths     TemplatePaths
}

func NewSteps(client llm.Client, templates prompt.Loader, paths TemplatePaths) (*Steps, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template loader is required")
	}
	if paths.Evaluation == "" || paths.Improvement == "" {
		return nil, fmt.Errorf("evaluation and improvement template paths are required")
	}
	return &Steps{llm: client, templates: templates, paths: paths}, nil
}

func (s *Steps) Evaluate(ctx context.Context, draft string) (string, error) {
	return s.fromTemplate(ctx, s.paths.Evaluation, prompt.AnswerPlaceholder, draft)
}

func (s *Steps) Improve(ctx context.Context, draft string) (string, error) {
	return s.fromTemplate(ctx, s.paths.Improvement, prompt.DraftPlaceholder, draft)
}

func (s *Steps) Rewrite(ctx context.Context, draft, suggestions string) (string, error) {
	return s.complete(ctx, prompt.RewritePrompt(draft, suggestions))
}

func (s *Steps) fromTemplate(ctx context.Context, path, placeholder, draft string) (string, error) {
	tmpl, err := s.templates.Load(path, placeholder)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	out, err := s.complete(ctx, tmpl.Render(draft))
	if err != nil {
		return "", fmt.Errorf("template %s: %w", tmpl.Name(), err)
	}
	return out, nil
}

func (s *Steps) complete(ctx context.Context, text string) (string, error) {
	out, err := s.llm.Complete(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLLM, err)
	}
	return out, nil
}
