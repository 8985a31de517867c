package auth

import (
	"context"

	"govpay/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Name         string
	Surname      string
	Role         string
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT id, email, password_hash, name, surname, role
    FROM users
    WHERE email = $1
  `, email).Scan(&out.ID, &out.Email, &out.PasswordHash, &out.Name, &out.Surname, &out.Role)
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID int64) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET updated_at = now() WHERE id = $1", userID)
	return err
}
