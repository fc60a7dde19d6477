package cases

import (
	"context"
	"time"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, c *Case) error
	Get(ctx context.Context, id CaseID) (*Case, error)
	Paginate(ctx context.Context, q Query) (PaginatedResult, error)
	ExistsByHash(ctx context.Context, hash string) (bool, error)
	// CountCreated counts cases created in [from, to).
	CountCreated(ctx context.Context, from, to time.Time) (int64, error)
	// PendingAlerts returns completed cases that were never alerted.
	PendingAlerts(ctx context.Context, limit int) ([]*Case, error)
}

// ImageStore port untuk penyimpanan gambar case
type ImageStore interface {
	PutImage(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
