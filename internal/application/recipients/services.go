package recipients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/siren-alert/internal/domain/ai"
	domain "github.com/bryanwahyu/siren-alert/internal/domain/recipients"
)

// Service CRUD penerima alert
type Service struct {
	Repo domain.Repository
}

// Input field yang bisa diisi dari console
type Input struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Group string `json:"group"`
}

func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.Recipient, error) {
	f.Search = strings.TrimSpace(f.Search)
	f.Group = strings.TrimSpace(f.Group)
	return s.Repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id domain.RecipientID) (*domain.Recipient, error) {
	return s.Repo.Get(ctx, id)
}

// Create validates and stores a new recipient with a generated id.
func (s *Service) Create(ctx context.Context, in Input) (*domain.Recipient, error) {
	r := &domain.Recipient{
		ID:    domain.RecipientID(uuid.New().String()),
		Name:  in.Name,
		Email: in.Email,
		Group: in.Group,
	}
	if err := r.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.Repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces name, email and group of an existing recipient.
func (s *Service) Update(ctx context.Context, id domain.RecipientID, in Input) (*domain.Recipient, error) {
	r, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Name, r.Email, r.Group = in.Name, in.Email, in.Group
	if err := r.Validate(); err != nil {
		return nil, invalid(err)
	}
	if err := s.Repo.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, id domain.RecipientID) error {
	return s.Repo.Delete(ctx, id)
}

// Emails resolves the addresses of a group; empty group means everyone.
func (s *Service) Emails(ctx context.Context, group string) ([]string, error) {
	list, err := s.Repo.List(ctx, domain.Filter{Group: strings.TrimSpace(group)})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list))
	for _, r := range list {
		out = append(out, r.Email)
	}
	return out, nil
}

func invalid(err error) error {
	if errors.Is(err, domain.ErrInvalid) {
		return fmt.Errorf("%w: %w", ai.ErrInvalidInput, err)
	}
	return err
}
