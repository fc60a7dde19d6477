package alerts

import (
	"errors"
	"fmt"
	"time"
)

// AlertID identifier type
type AlertID string

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusFail    Status = "fail"
)

var (
	ErrNotFound      = errors.New("alert not found")
	ErrNotResendable = errors.New("only failed alerts can be resent")
	ErrNoRecipients  = errors.New("no recipients in target group")
	ErrNoReport      = errors.New("case has no analysis report")
)

// Details ringkasan laporan yang dikirim di email
type Details struct {
	Overview   string   `json:"overview"`
	LegalBasis string   `json:"legalBasis"`
	Penalty    string   `json:"penalty,omitempty"`
	Prevention string   `json:"prevention"`
	Checklist  []string `json:"checklist"`
}

// AlertHistory records one alert email dispatch.
type AlertHistory struct {
	ID          AlertID   `json:"id"`
	SentAt      time.Time `json:"sentAt"`
	CaseID      string    `json:"caseId,omitempty"`
	Group       string    `json:"group"`
	TargetGroup string    `json:"targetGroup"`
	Subject     string    `json:"subject"`
	Status      Status    `json:"status"`
	FailReason  string    `json:"failReason,omitempty"`
	Details     *Details  `json:"details,omitempty"`
}

// TargetLabel formats the display label of a recipient group, e.g. "안전관리팀(15명)".
func TargetLabel(group string, n int) string {
	if group == "" {
		group = "전체"
	}
	return fmt.Sprintf("%s(%d명)", group, n)
}

// PaginatedResult page of alert history
type PaginatedResult struct {
	Data       []*AlertHistory `json:"data"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	Total      int64           `json:"totalItems"`
	TotalPages int             `json:"totalPages"`
}
