package refine

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockEvaluator is a mock implementation of Evaluator using testify/mock.
type MockEvaluator struct {
	mock.Mock
}

func (m *MockEvaluator) Evaluate(ctx context.Context, draft string) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}

// MockImprover is a mock implementation of Improver using testify/mock.
type MockImprover struct {
	mock.Mock
}

func (m *MockImprover) Improve(ctx context.Context, draft string) (string, error) {
	args := m.Called(ctx, draft)
	return args.String(0), args.Error(1)
}

// MockRewriter is a mock implementation of Rewriter using testify/mock.
type MockRewriter struct {
	mock.Mock
}

func (m *MockRewriter) Rewrite(ctx context.Context, draft, suggestions string) (string, error) {
	args := m.Called(ctx, draft, suggestions)
	return args.String(0), args.Error(1)
}
