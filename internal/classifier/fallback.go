package classifier

import (
	"context"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
)

type fallback struct {
	primary   Classifier
	secondary Classifier
}

// WithFallback uses secondary whenever primary fails. Every fallback is logged
// so degraded classification is visible.
func WithFallback(primary, secondary Classifier) Classifier {
	return &fallback{primary: primary, secondary: secondary}
}

func (f *fallback) Classify(ctx context.Context, contentType models.ContentType, content string) (Result, error) {
	res, err := f.primary.Classify(ctx, contentType, content)
	if err == nil {
		return res, nil
	}
	slog.Warn("primary classifier failed, using fallback",
		"action", "classify",
		"content_type", string(contentType),
		"error", err,
	)
	return f.secondary.Classify(ctx, contentType, content)
}
