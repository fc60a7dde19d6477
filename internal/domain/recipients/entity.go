package recipients

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// RecipientID identifier type
type RecipientID string

var (
	ErrNotFound = errors.New("recipient not found")
	ErrInvalid  = errors.New("invalid recipient")
)

// Recipient penerima email alert
type Recipient struct {
	ID    RecipientID `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Group string      `json:"group"`
}

// Validate checks required fields and the email address format.
func (r *Recipient) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Group = strings.TrimSpace(r.Group)
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if r.Email == "" {
		return fmt.Errorf("%w: email is required", ErrInvalid)
	}
	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return fmt.Errorf("%w: invalid email %q", ErrInvalid, r.Email)
	}
	return nil
}

// Matches reports whether the search term appears in name, email or group.
func (r *Recipient) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(r.Name, term) ||
		strings.Contains(r.Email, term) ||
		strings.Contains(r.Group, term)
}
