package ai_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

func TestUpstreamError_Is(t *testing.T) {
	err := fmt.Errorf("analyze: %w", &ai.UpstreamError{Service: "OpenAI", StatusCode: 502, Body: "bad gateway"})

	assert.ErrorIs(t, err, ai.ErrUpstream)
	assert.False(t, errors.Is(err, ai.ErrQuotaExceeded))
	assert.Contains(t, err.Error(), "OpenAI API error: 502 bad gateway")
}

func TestUpstreamError_QuotaExceeded(t *testing.T) {
	err := &ai.UpstreamError{Service: "OpenAI", StatusCode: 429, Message: "Rate limit reached"}

	assert.ErrorIs(t, err, ai.ErrUpstream)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestUpstreamError_NoStatus(t *testing.T) {
	err := &ai.UpstreamError{Service: "Vision", Message: "connection refused"}
	assert.Equal(t, "Vision API error: connection refused", err.Error())
}

func TestWrappedSentinels(t *testing.T) {
	assert.ErrorIs(t, ai.InvalidInputf("text input is empty"), ai.ErrInvalidInput)
	assert.ErrorIs(t, ai.Configurationf("missing %s", "key"), ai.ErrConfiguration)
	assert.ErrorIs(t, ai.ResponseFormatf("bad"), ai.ErrResponseFormat)
}
