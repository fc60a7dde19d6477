package settings

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SendMode kapan alert dikirim
type SendMode string

const (
	ModeOnComplete SendMode = "onComplete"
	ModeScheduled  SendMode = "scheduled"
)

// Theme template email
type Theme string

const (
	ThemeDefault Theme = "default"
	ThemeWarning Theme = "warning"
	ThemeMinimal Theme = "minimal"
)

var ErrInvalid = errors.New("invalid settings")

// Scheduler controls alert dispatch timing.
type Scheduler struct {
	Mode     SendMode `json:"mode" yaml:"mode"`
	SendTime string   `json:"sendTime" yaml:"sendTime"`
	Enabled  bool     `json:"enabled" yaml:"enabled"`
}

// Collection controls scraping and OCR options.
type Collection struct {
	ScrapeTime string `json:"scrapeTime" yaml:"scrapeTime"`
	Dedup      bool   `json:"dedup" yaml:"dedup"`
	OCREnabled bool   `json:"ocrEnabled" yaml:"ocrEnabled"`
}

// EmailTemplate controls the alert email look.
type EmailTemplate struct {
	SenderName    string `json:"senderName" yaml:"senderName"`
	SubjectPrefix string `json:"subjectPrefix" yaml:"subjectPrefix"`
	Theme         Theme  `json:"theme" yaml:"theme"`
}

// Settings system configuration editable from the console
type Settings struct {
	Scheduler  Scheduler     `json:"scheduler"`
	Collection Collection    `json:"collection"`
	Email      EmailTemplate `json:"email"`
	UpdatedAt  time.Time     `json:"updatedAt,omitempty"`
}

// Default returns the settings used before anything is stored.
func Default() Settings {
	return Settings{
		Scheduler: Scheduler{
			Mode:     ModeOnComplete,
			SendTime: "09:00",
			Enabled:  true,
		},
		Collection: Collection{
			ScrapeTime: "04:00",
			Dedup:      true,
			OCREnabled: true,
		},
		Email: EmailTemplate{
			SenderName:    "KOSHA AI Alert System",
			SubjectPrefix: "[긴급 재해 알림]",
			Theme:         ThemeDefault,
		},
	}
}

// Validate checks modes, themes and HH:mm times.
func (s Settings) Validate() error {
	switch s.Scheduler.Mode {
	case ModeOnComplete, ModeScheduled:
	default:
		return fmt.Errorf("%w: unknown scheduler mode %q", ErrInvalid, s.Scheduler.Mode)
	}
	if _, err := ParseClock(s.Scheduler.SendTime); err != nil {
		return fmt.Errorf("%w: sendTime: %v", ErrInvalid, err)
	}
	if _, err := ParseClock(s.Collection.ScrapeTime); err != nil {
		return fmt.Errorf("%w: scrapeTime: %v", ErrInvalid, err)
	}
	switch s.Email.Theme {
	case ThemeDefault, ThemeWarning, ThemeMinimal:
	default:
		return fmt.Errorf("%w: unknown theme %q", ErrInvalid, s.Email.Theme)
	}
	return nil
}

// ParseClock parses "HH:mm" and returns minutes since midnight.
func ParseClock(v string) (int, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("expected HH:mm, got %q", v)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Subject prefixes title with the configured subject prefix.
func (t EmailTemplate) Subject(title string) string {
	prefix := strings.TrimSpace(t.SubjectPrefix)
	if prefix == "" {
		return title
	}
	return prefix + " " + title
}
