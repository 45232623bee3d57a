package service

import (
	"errors"
	"time"

	"github.com/popcatalog/popcatalog-go/internal/crypto"
	"github.com/popcatalog/popcatalog-go/internal/model"
	"github.com/popcatalog/popcatalog-go/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("user not found or wrong password")
	ErrTokenNotVerified   = errors.New("token not verified")
	ErrWrongAuth          = errors.New("wrong authentication")
)

// AuthService issues tokens for known users and resolves tokens back to users.
type AuthService struct {
	users  *repository.UserRepository
	secret string
	ttl    time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *repository.UserRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{users: users, secret: secret, ttl: ttl}
}

// Login checks the credentials against the static user set and returns a
// signed token on success.
func (s *AuthService) Login(username, password string) (string, error) {
	user, ok := s.users.FindByUsername(username)
	if !ok || !crypto.VerifyPassword(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	return crypto.GenerateToken(user, s.secret, s.ttl)
}

// Authenticate verifies a token and resolves the user it names. A token
// whose user id no longer resolves is a hard authentication failure, not a
// silently ignored one.
func (s *AuthService) Authenticate(token string) (model.User, error) {
	claims, err := crypto.ValidateToken(token, s.secret)
	if err != nil {
		return model.User{}, ErrTokenNotVerified
	}

	user, ok := s.users.FindByID(claims.UserID)
	if !ok {
		return model.User{}, ErrWrongAuth
	}
	return user, nil
}
