package reports

import "context"

// Repository port for persisting and querying reports
type Repository interface {
	Save(ctx context.Context, r *Report) error
	// LatestByCase returns nil, nil when the case has no report.
	LatestByCase(ctx context.Context, caseID string) (*Report, error)
}
