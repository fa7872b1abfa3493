package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"lendkeeper/internal/session"
	"lendkeeper/internal/user"
)

// ErrUnauthorized is returned on bad credentials or an unusable refresh
// token; callers get no detail beyond that.
var ErrUnauthorized = errors.New("unauthorized")

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 30 * 24 * time.Hour
)

type Service struct {
	secret   string
	users    *user.Service
	sessions session.Repository
}

func NewService(secret string, users *user.Service, sessions session.Repository) *Service {
	return &Service{
		secret:   secret,
		users:    users,
		sessions: sessions,
	}
}

// TokenPair is what login and refresh hand back.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil || !VerifyPassword(u.Password, password) {
		return TokenPair{}, ErrUnauthorized
	}
	return s.issuePair(ctx, u)
}

// Refresh rotates the refresh token: the presented session is consumed and a
// fresh pair is issued.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	tokenHash := hashToken(refreshToken)
	sess, err := s.sessions.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return TokenPair{}, ErrUnauthorized
	}

	if err := s.sessions.DeleteByTokenHash(ctx, tokenHash); err != nil {
		return TokenPair{}, err
	}

	return s.issuePair(ctx, u)
}

func (s *Service) issuePair(ctx context.Context, u user.User) (TokenPair, error) {
	accessToken, _, err := GenerateToken(s.secret, u.ID, string(u.Role), accessTokenTTL)
	if err != nil {
		return TokenPair{}, err
	}

	refreshTokenBytes := make([]byte, 32)
	if _, err := rand.Read(refreshTokenBytes); err != nil {
		return TokenPair{}, err
	}
	refreshToken := hex.EncodeToString(refreshTokenBytes)

	sess := &session.Session{
		UserID:           u.ID,
		RefreshTokenHash: hashToken(refreshToken),
		ExpiresAt:        time.Now().Add(refreshTokenTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(accessTokenTTL.Seconds()),
	}, nil
}
