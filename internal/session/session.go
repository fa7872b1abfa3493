package session

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when no live session matches the token hash.
var ErrNotFound = errors.New("session not found")

// Session is one issued refresh token, stored hashed, with an explicit
// expiry. There is no ambient session state anywhere else.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
}

type Repository interface {
	Create(ctx context.Context, s *Session) error
	// GetByTokenHash only returns sessions that have not expired.
	GetByTokenHash(ctx context.Context, hash string) (Session, error)
	DeleteByTokenHash(ctx context.Context, hash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
