package failures

import "time"

// Phase tempat kegagalan terjadi
type Phase string

const (
	PhaseOCR      Phase = "ocr"
	PhaseAnalysis Phase = "analysis"
	PhaseAlert    Phase = "alert"
	PhaseCollect  Phase = "collect"
)

// Failure represents a persisted failed analysis attempt
type Failure struct {
	ID          int64     `json:"id"`
	CaseID      string    `json:"caseId"`
	Phase       Phase     `json:"phase"`
	Message     string    `json:"message"`
	DetailsJSON string    `json:"detailsJson,omitempty"` // raw JSON string
	CreatedAt   time.Time `json:"createdAt"`
}
