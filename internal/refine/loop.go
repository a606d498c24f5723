// Package refine drives the evaluate/improve/rewrite cycle that turns a
// starting draft into one the model rates at or above a threshold.
package refine

import (
	"context"
	"fmt"
	"log/slog"

	"yt-blog/internal/rating"
)

// State is a node of the refinement state machine.
type State string

const (
	StateInit           State = "init"
	StateEvaluating     State = "evaluating"
	StateBelowThreshold State = "below_threshold"
	StateImproving      State = "improving"
	StateRewriting      State = "rewriting"
	StateDone           State = "done"
	StateFailed         State = "failed"
	StateExhausted      State = "exhausted"
)

// Terminal reports whether no further transitions leave s.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateExhausted
}

const (
	DefaultThreshold     = 90
	DefaultMaxIterations = 10
)

// Options tunes a Loop. Zero values select the defaults.
type Options struct {
	Threshold     int
	MaxIterations int
	// OnTransition, when set, observes every state change.
	OnTransition func(from, to State)
}

// Result is the outcome of a run. It is populated in every terminal state.
type Result struct {
	State State
	// Draft is the last draft the loop held.
	Draft string
	// Rating is the last extracted rating; meaningful only when Rated is true.
	Rating int
	Rated  bool
	// Evaluations counts successful evaluation calls.
	Evaluations int
	// Iterations counts completed improve+rewrite cycles.
	Iterations int
	Err        error
}

// Loop runs the refinement state machine. A Loop holds no per-run state and
// may be reused.
type Loop struct {
	log      *slog.Logger
	evaluate Evaluator
	improve  Improver
	rewrite  Rewriter
	opts     Options
}

func NewLoop(log *slog.Logger, e Evaluator, i Improver, r Rewriter, opts Options) (*Loop, error) {
	if e == nil || i == nil || r == nil {
		return nil, fmt.Errorf("evaluator, improver and rewriter are required")
	}
	if opts.Threshold < 0 || opts.MaxIterations < 0 {
		return nil, fmt.Errorf("threshold and max iterations must not be negative")
	}
	if opts.Threshold == 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = DefaultMaxIterations
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loop{log: log, evaluate: e, improve: i, rewrite: r, opts: opts}, nil
}

// Options returns the effective options after defaults were applied.
func (l *Loop) Options() Options {
	return l.opts
}

// Run refines draft until it is accepted, a step fails, or the iteration cap
// is reached. The returned error is nil only when the final state is StateDone.
func (l *Loop) Run(ctx context.Context, draft string) (Result, error) {
	res := Result{State: StateInit, Draft: draft}
	l.move(&res, StateEvaluating)

	for {
		if err := ctx.Err(); err != nil {
			return l.fail(&res, StepEvaluate, err)
		}
		assessment, err := l.evaluate.Evaluate(ctx, res.Draft)
		if err != nil {
			return l.fail(&res, StepEvaluate, err)
		}
		res.Evaluations++
		res.Rating, res.Rated = rating.Extract(assessment)
		l.log.Info("draft evaluated",
			"evaluation", res.Evaluations,
			"rating", ratingAttr(res),
			"threshold", l.opts.Threshold,
		)

		if res.Rated && res.Rating >= l.opts.Threshold {
			l.move(&res, StateDone)
			return res, nil
		}
		l.move(&res, StateBelowThreshold)

		if res.Iterations >= l.opts.MaxIterations {
			res.Err = fmt.Errorf("%w: no draft reached %d/%d after %d iterations",
				ErrExhausted, l.opts.Threshold, rating.Scale, res.Iterations)
			l.move(&res, StateExhausted)
			l.log.Warn("refinement exhausted", "iterations", res.Iterations, "rating", ratingAttr(res))
			return res, res.Err
		}

		l.move(&res, StateImproving)
		if err := ctx.Err(); err != nil {
			return l.fail(&res, StepImprove, err)
		}
		suggestions, err := l.improve.Improve(ctx, res.Draft)
		if err != nil {
			return l.fail(&res, StepImprove, err)
		}

		l.move(&res, StateRewriting)
		if err := ctx.Err(); err != nil {
			return l.fail(&res, StepRewrite, err)
		}
		next, err := l.rewrite.Rewrite(ctx, res.Draft, suggestions)
		if err != nil {
			return l.fail(&res, StepRewrite, err)
		}
		res.Draft = next
		res.Iterations++
		l.log.Debug("draft rewritten", "iteration", res.Iterations, "chars", len(next))

		l.move(&res, StateEvaluating)
	}
}

func (l *Loop) move(res *Result, to State) {
	from := res.State
	res.State = to
	if l.opts.OnTransition != nil {
		l.opts.OnTransition(from, to)
	}
}

func (l *Loop) fail(res *Result, step Step, err error) (Result, error) {
	res.Err = &StepError{Step: step, Err: err}
	l.move(res, StateFailed)
	l.log.Error("refinement failed", "step", string(step), "err", err, "iterations", res.Iterations)
	return *res, res.Err
}

func ratingAttr(res Result) any {
	if !res.Rated {
		return "none"
	}
	return res.Rating
}
