package classifier

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
)

// Checked in order; the first matching tier wins.
var (
	HighPriorityKeywords = []string{
		"violence", "threat", "harassment", "abuse", "illegal",
		"drug", "weapon", "hate", "discrimination", "suicide",
	}
	MediumPriorityKeywords = []string{
		"spam", "scam", "inappropriate", "offensive", "bullying",
	}
)

const previewLength = 100

// Keyword is the default classifier. It never fails.
type Keyword struct{}

func NewKeyword() Keyword {
	return Keyword{}
}

func (Keyword) Classify(_ context.Context, contentType models.ContentType, content string) (Result, error) {
	return Result{
		Priority: Priority(content),
		Summary:  Summary(contentType, content),
	}, nil
}

// Priority returns high if any high keyword occurs anywhere in the lowercased
// content, otherwise medium if any medium keyword occurs, otherwise low.
func Priority(content string) models.Priority {
	lower := strings.ToLower(content)
	for _, kw := range HighPriorityKeywords {
		if strings.Contains(lower, kw) {
			return models.PriorityHigh
		}
	}
	for _, kw := range MediumPriorityKeywords {
		if strings.Contains(lower, kw) {
			return models.PriorityMedium
		}
	}
	return models.PriorityLow
}

// Summary renders the template for contentType around a preview of content.
func Summary(contentType models.ContentType, content string) string {
	p := preview(content)
	switch contentType {
	case models.ContentTypeMessage:
		return fmt.Sprintf("Message contains potentially problematic content: %s. Review recommended for policy compliance.", p)
	case models.ContentTypeImage:
		return fmt.Sprintf("Image flagged for review: %s. Automated description unavailable; manual review required.", p)
	case models.ContentTypeReport:
		return fmt.Sprintf("User report received. Content: %s. Requires moderator attention.", p)
	default:
		return fmt.Sprintf("Flagged %s content requires review: %s", contentType, p)
	}
}

// preview cuts on characters, not bytes, so multi-byte text is never split.
func preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
