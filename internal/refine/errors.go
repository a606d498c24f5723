package refine

import (
	"errors"
	"fmt"
)

var (
	// ErrTemplate marks a step that could not load or render its prompt template.
	ErrTemplate = errors.New("prompt template unavailable")
	// ErrLLM marks a step whose model call failed.
	ErrLLM = errors.New("llm call failed")
	// ErrExhausted is returned when the iteration cap is reached below threshold.
	ErrExhausted = errors.New("refinement exhausted")
)

// Step names a single stage of the refinement loop.
type Step string

const (
	StepEvaluate Step = "evaluate"
	StepImprove  Step = "improve"
	StepRewrite  Step = "rewrite"
)

// StepError reports which step terminated the loop.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
