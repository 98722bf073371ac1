package classifier

import (
	"context"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/moderation-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriority(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    models.Priority
	}{
		{"high keyword", "This contains violence and threats", models.PriorityHigh},
		{"medium keyword", "This is spam content", models.PriorityMedium},
		{"no keyword", "hello there", models.PriorityLow},
		{"case insensitive", "WEAPON for sale", models.PriorityHigh},
		{"substring match", "drugstore coupons", models.PriorityHigh},
		{"high beats medium", "spam scam and a threat", models.PriorityHigh},
		{"medium only mixed case", "Offensive remark", models.PriorityMedium},
		{"empty", "", models.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Priority(tt.content))
		})
	}
}

func TestPriority_EveryKeyword(t *testing.T) {
	for _, kw := range HighPriorityKeywords {
		assert.Equal(t, models.PriorityHigh, Priority("xx "+strings.ToUpper(kw)+" xx"), kw)
		for _, med := range MediumPriorityKeywords {
			assert.Equal(t, models.PriorityHigh, Priority(med+" "+kw), kw+"+"+med)
		}
	}
	for _, kw := range MediumPriorityKeywords {
		assert.Equal(t, models.PriorityMedium, Priority("some "+kw), kw)
	}
}

func TestSummary_Templates(t *testing.T) {
	assert.Equal(t,
		"Message contains potentially problematic content: hi. Review recommended for policy compliance.",
		Summary(models.ContentTypeMessage, "hi"))
	assert.Equal(t,
		"User report received. Content: hi. Requires moderator attention.",
		Summary(models.ContentTypeReport, "hi"))
	assert.Contains(t, Summary(models.ContentTypeImage, "cat.png"), "cat.png")
	assert.Equal(t,
		"Flagged video content requires review: hi",
		Summary(models.ContentType("video"), "hi"))
}

func TestSummary_Truncation(t *testing.T) {
	exact := strings.Repeat("a", 100)
	s := Summary(models.ContentTypeMessage, exact)
	assert.Contains(t, s, exact)
	assert.NotContains(t, s, exact+"...")

	long := strings.Repeat("b", 150)
	s = Summary(models.ContentTypeMessage, long)
	assert.Contains(t, s, strings.Repeat("b", 100)+"...")
	assert.NotContains(t, s, strings.Repeat("b", 101))
}

func TestSummary_TruncatesOnCharacters(t *testing.T) {
	content := strings.Repeat("é", 120)
	s := Summary(models.ContentTypeReport, content)
	assert.Contains(t, s, strings.Repeat("é", 100)+"...")
}

func TestKeyword_Classify(t *testing.T) {
	res, err := NewKeyword().Classify(context.Background(), models.ContentTypeMessage, "buy a weapon")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityHigh, res.Priority)
	assert.Equal(t, Summary(models.ContentTypeMessage, "buy a weapon"), res.Summary)

	again, err := NewKeyword().Classify(context.Background(), models.ContentTypeMessage, "buy a weapon")
	require.NoError(t, err)
	assert.Equal(t, res, again)
}
