package ai

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrConfiguration indicates a required credential is missing.
	ErrConfiguration = errors.New("ai configuration error")
	// ErrInvalidInput indicates empty text or image payload.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream indicates a non-success status or an explicit error from a provider.
	ErrUpstream = errors.New("upstream error")
	// ErrResponseFormat indicates a missing or unparseable payload.
	ErrResponseFormat = errors.New("response format error")
	// ErrEmptyResult indicates OCR produced no usable text.
	ErrEmptyResult = errors.New("empty result")
	// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
	ErrQuotaExceeded = errors.New("ai quota exceeded")
)

// UpstreamError carries provider diagnostics. StatusCode is 0 when the
// request never got a response.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
	Message    string
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Body
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s API error: %s", e.Service, msg)
	}
	return fmt.Sprintf("%s API error: %d %s", e.Service, e.StatusCode, msg)
}

func (e *UpstreamError) Unwrap() []error {
	if e.StatusCode == http.StatusTooManyRequests {
		return []error{ErrUpstream, ErrQuotaExceeded}
	}
	return []error{ErrUpstream}
}

// Configurationf builds a wrapped ErrConfiguration.
func Configurationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// InvalidInputf builds a wrapped ErrInvalidInput.
func InvalidInputf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// ResponseFormatf builds a wrapped ErrResponseFormat.
func ResponseFormatf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrResponseFormat, fmt.Sprintf(format, args...))
}
