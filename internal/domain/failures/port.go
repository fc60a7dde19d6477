package failures

import "context"

// Repository defines persistence for analysis failures
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	ListByCase(ctx context.Context, caseID string, limit int) ([]*Failure, error)
}
