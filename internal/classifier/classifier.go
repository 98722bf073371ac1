// Package classifier assigns a review priority and a human-readable summary to
// submitted content. The default implementation is a keyword heuristic; a
// remote model can be plugged in behind the same interface.
package classifier

import (
	"context"
	"errors"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
)

// ErrUnavailable is returned by classifiers that depend on an external
// service when that service cannot produce a result.
var ErrUnavailable = errors.New("classifier unavailable")

type Result struct {
	Priority models.Priority
	Summary  string
}

// Classifier maps content to a priority and summary. Implementations must be
// deterministic for a given input and must not block without bound.
type Classifier interface {
	Classify(ctx context.Context, contentType models.ContentType, content string) (Result, error)
}

// Func adapts an ordinary function to the Classifier interface.
type Func func(ctx context.Context, contentType models.ContentType, content string) (Result, error)

func (f Func) Classify(ctx context.Context, contentType models.ContentType, content string) (Result, error) {
	return f(ctx, contentType, content)
}
