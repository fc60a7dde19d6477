package recipients

import "context"

// Filter untuk list recipient; Group kosong berarti semua grup
type Filter struct {
	Search string
	Group  string
}

// Repository port for persisting and querying recipients
type Repository interface {
	Save(ctx context.Context, r *Recipient) error
	Get(ctx context.Context, id RecipientID) (*Recipient, error)
	Delete(ctx context.Context, id RecipientID) error
	List(ctx context.Context, f Filter) ([]*Recipient, error)
}
