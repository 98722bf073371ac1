package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	ct, err := ParseContentType("image")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeImage, ct)

	_, err = ParseContentType("video")
	assert.ErrorContains(t, err, "content_type")

	_, err = ParseContentType("Message")
	assert.Error(t, err, "enum values are case-sensitive")

	st, err := ParseStatus("escalated")
	require.NoError(t, err)
	assert.Equal(t, StatusEscalated, st)

	_, err = ParseStatus("closed")
	assert.ErrorContains(t, err, "status")

	p, err := ParsePriority("low")
	require.NoError(t, err)
	assert.Equal(t, PriorityLow, p)

	_, err = ParsePriority("")
	assert.Error(t, err)
}
