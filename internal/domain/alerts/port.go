package alerts

import (
	"context"
	"time"
)

// Repository port for alert send history
type Repository interface {
	Save(ctx context.Context, a *AlertHistory) error
	Get(ctx context.Context, id AlertID) (*AlertHistory, error)
	Paginate(ctx context.Context, page, pageSize int) (PaginatedResult, error)
	Latest(ctx context.Context, limit int) ([]*AlertHistory, error)
	CountSent(ctx context.Context, from, to time.Time) (int64, error)
}

// Message email yang siap dikirim
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// Mailer port untuk pengiriman email
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Email data untuk template alert
type Email struct {
	SenderName string
	Subject    string
	Theme      string
	CaseTitle  string
	CaseDate   string
	Location   string
	Cause      string
	Details    Details
}

// Renderer turns Email data into an HTML body.
type Renderer interface {
	Render(e Email) (string, error)
}
