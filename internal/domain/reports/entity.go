package reports

import (
	"time"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
)

// ReportID identifier type
type ReportID string

// Report represents an AI analysis result stored for auditing and retrieval
type Report struct {
	ID        ReportID          `json:"id"`
	CaseID    string            `json:"caseId"`
	OCRText   string            `json:"ocrText,omitempty"`
	Result    ai.AnalysisResult `json:"result"`
	Model     string            `json:"model,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
