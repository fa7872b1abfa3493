package testutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"lendkeeper/internal/auth"
	"lendkeeper/internal/catalog"
	"lendkeeper/internal/user"
)

// TestMember is a mock member user for testing
var TestMember = user.User{
	ID:        "aaaaaaaa-0000-0000-0000-000000000001",
	Username:  "member",
	Email:     "member@example.com",
	Password:  "hashedpassword",
	Role:      user.RoleMember,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestLibrarian is a mock librarian user for testing
var TestLibrarian = user.User{
	ID:        "aaaaaaaa-0000-0000-0000-000000000002",
	Username:  "librarian",
	Email:     "librarian@example.com",
	Password:  "hashedpassword",
	Role:      user.RoleLibrarian,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// TestBook is a mock book for testing
var TestBook = catalog.Book{
	ID:        "bbbbbbbb-0000-0000-0000-000000000001",
	Title:     "Dune",
	Author:    "Frank Herbert",
	Genre:     "Science Fiction",
	Available: true,
	CreatedAt: time.Now(),
	UpdatedAt: time.Now(),
}

// GenerateTestToken generates a JWT token for testing
func GenerateTestToken(secret, userID, role string) string {
	token, _, _ := auth.GenerateToken(secret, userID, role, time.Hour)
	return token
}

// GenerateExpiredToken generates an expired JWT token for testing
func GenerateExpiredToken(secret, userID, role string) string {
	c := auth.Claims{
		Sub:  userID,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	tokenStr, _ := t.SignedString([]byte(secret))
	return tokenStr
}
