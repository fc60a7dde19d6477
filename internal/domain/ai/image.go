package ai

import "strings"

// StripDataURL returns the raw base64 part of a browser data URL
// ("data:image/png;base64,..."). Other input is only trimmed.
func StripDataURL(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "data:") {
		if _, rest, ok := strings.Cut(v, ","); ok {
			return rest
		}
	}
	return v
}
