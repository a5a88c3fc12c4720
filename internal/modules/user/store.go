// README: User store backed by PostgreSQL.
package user

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Upsert creates the profile on first sign-in and refreshes the mutable
// fields afterwards. Rating and rides_completed are never overwritten here.
func (s *Store) Upsert(ctx context.Context, u *User) error {
	now := time.Now().UTC()
	_, err := s.db.Exec(ctx, `
		INSERT INTO users (uid, email, full_name, phone_number, university, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (uid) DO UPDATE SET
			email = EXCLUDED.email,
			full_name = EXCLUDED.full_name,
			phone_number = EXCLUDED.phone_number,
			university = CASE WHEN EXCLUDED.university <> '' THEN EXCLUDED.university ELSE users.university END,
			updated_at = EXCLUDED.updated_at`,
		u.UID, u.Email, u.FullName, u.PhoneNumber, u.University, now,
	)
	return err
}

func (s *Store) Get(ctx context.Context, uid string) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT uid, email, full_name, phone_number, university, rating, rides_completed, created_at, updated_at
		FROM users WHERE uid = $1`, uid)

	var u User
	err := row.Scan(&u.UID, &u.Email, &u.FullName, &u.PhoneNumber, &u.University,
		&u.Rating, &u.RidesCompleted, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
