// README: User service: profile upsert and lookups for the ride flow.
package user

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrBadRequest = errors.New("bad request")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type UpsertCommand struct {
	UID         string
	Email       string
	FullName    string
	PhoneNumber string
	University  string
}

func (s *Service) Upsert(ctx context.Context, cmd UpsertCommand) (*User, error) {
	if cmd.UID == "" || cmd.Email == "" || cmd.FullName == "" {
		return nil, fmt.Errorf("%w: uid, email, and full name are required", ErrBadRequest)
	}
	u := &User{
		UID:         cmd.UID,
		Email:       cmd.Email,
		FullName:    cmd.FullName,
		PhoneNumber: cmd.PhoneNumber,
		University:  cmd.University,
	}
	if err := s.store.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return s.store.Get(ctx, cmd.UID)
}

func (s *Service) Get(ctx context.Context, uid string) (*User, error) {
	return s.store.Get(ctx, uid)
}

// PhoneFor satisfies the ride module's UserDirectory. A missing profile or
// empty phone is not an error; the ride is created without a contact number.
func (s *Service) PhoneFor(ctx context.Context, uid string) (string, error) {
	u, err := s.store.Get(ctx, uid)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return u.PhoneNumber, nil
}
