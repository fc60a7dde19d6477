package cases

import (
	"errors"
	"time"
)

// CaseID tipe untuk Case
type CaseID string

// Status enum analisis
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPending   Status = "pending"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known analysis status.
func (s Status) Valid() bool {
	switch s {
	case StatusCompleted, StatusPending, StatusFailed:
		return true
	}
	return false
}

const (
	SourceUpload = "upload"
	// DefaultLocation dipakai untuk case hasil upload gambar
	DefaultLocation = "분석된 현장"
	// FailedUploadTitle judul case upload yang gagal dianalisis
	FailedUploadTitle = "이미지 분석 실패"
	DateLayout      = "2006-01-02"
)

var (
	ErrNotFound = errors.New("case not found")
	ErrNoText   = errors.New("case has no text to analyze")
)

// Case is a recorded workplace-incident entry.
type Case struct {
	ID             CaseID     `json:"id"`
	Date           string     `json:"date"`
	Title          string     `json:"title"`
	AnalysisStatus Status     `json:"analysisStatus"`
	Location       string     `json:"location"`
	Cause          string     `json:"cause"`
	ImageURL       string     `json:"imageUrl,omitempty"`
	OCRText        string     `json:"ocrText,omitempty"`
	Source         string     `json:"source,omitempty"`
	Hash           string     `json:"hash,omitempty"`
	AlertedAt      *time.Time `json:"alertedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
