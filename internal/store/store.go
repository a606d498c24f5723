package store

import (
	"context"
	"errors"
)

var ErrEmptyDraft = errors.New("refusing to save empty draft")

// Store defines where the final draft ends up.
type Store interface {
	// Prepare makes sure the destination exists before any work starts.
	Prepare(ctx context.Context) error
	SaveDraft(ctx context.Context, draft string) error
}
