package middleware

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var ErrValidation = errors.New("validation failed")

// MaxImageBase64 batas panjang payload base64 gambar (~15MB biner)
const MaxImageBase64 = 20 << 20

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidateID validates path IDs (uuid, seed ids like "c1" or "101")
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrValidation)
	}
	if !idPattern.MatchString(id) {
		return fmt.Errorf("%w: invalid id format", ErrValidation)
	}
	return nil
}

// ValidateImagePayload cek ukuran payload; isi kosong ditolak di layer service
func ValidateImagePayload(b64 string) error {
	if len(b64) > MaxImageBase64 {
		return fmt.Errorf("%w: image payload too large (max %d bytes base64)", ErrValidation, MaxImageBase64)
	}
	return nil
}

// ValidateMimeType hanya image/* yang diterima
func ValidateMimeType(mime string) error {
	if mime == "" {
		return nil
	}
	if !strings.HasPrefix(strings.ToLower(mime), "image/") {
		return fmt.Errorf("%w: unsupported mime type %q", ErrValidation, mime)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")

	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}

// ValidatePage default 1
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidateLimit validates pagination limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
