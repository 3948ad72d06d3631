package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"leadintake/internal/pkg/jwt"
)

const RoleAdmin = "admin"

var ErrInvalidCredentials = errors.New("invalid username or password")

var bcryptCost = bcrypt.DefaultCost

// Admin is the identity carried by an admin token.
type Admin struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Service checks the single configured admin credential and issues tokens.
type Service struct {
	username     string
	passwordHash []byte
	jwt          *jwt.Service
}

// NewService hashes the configured password once; it is never kept in plain text.
func NewService(username, password string, jwtService *jwt.Service) (*Service, error) {
	if username == "" || password == "" {
		return nil, errors.New("admin username and password are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &Service{username: username, passwordHash: hash, jwt: jwtService}, nil
}

// Login returns a signed token for the configured admin.
func (s *Service) Login(_ context.Context, username, password string) (string, *Admin, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(s.username, RoleAdmin)
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}
	return token, &Admin{Username: s.username, Role: RoleAdmin}, nil
}

// TokenTTL is how long issued tokens stay valid.
func (s *Service) TokenTTL() int64 {
	return int64(s.jwt.TTL().Seconds())
}
