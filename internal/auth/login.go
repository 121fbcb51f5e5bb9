// ABOUTME: Login service that checks credentials with bcrypt and mints bearer tokens
// ABOUTME: Unknown logins and wrong passwords both surface as ErrInvalidCredentials

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/2389/blogpessoal/internal/store"
)

// ErrInvalidCredentials is returned when the login or password is wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// CredentialChecker verifies a login and password pair.
type CredentialChecker interface {
	Authenticate(ctx context.Context, login, password string) (*store.User, error)
}

// LoginResult is a successful login: the stored user and a fresh token.
type LoginResult struct {
	User  *store.User
	Token string
}

// LoginService authenticates users and issues tokens.
type LoginService struct {
	users  CredentialStore
	hasher PasswordHasher
	tokens *TokenService
	logger *slog.Logger
}

var _ CredentialChecker = (*LoginService)(nil)

// NewLoginService creates a LoginService.
func NewLoginService(users CredentialStore, hasher PasswordHasher, tokens *TokenService, logger *slog.Logger) *LoginService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoginService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger,
	}
}

// Authenticate returns the user when password matches the stored hash.
func (l *LoginService) Authenticate(ctx context.Context, login, password string) (*store.User, error) {
	u, err := l.users.GetUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		// Burn the same bcrypt time as a real comparison.
		_, _ = l.hasher.Verify(password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	ok, err := l.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		l.logger.Error("stored password hash is unreadable", "user_id", u.ID, "error", err)
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates the user and issues a token for their login name.
func (l *LoginService) Login(ctx context.Context, login, password string) (*LoginResult, error) {
	u, err := l.Authenticate(ctx, login, password)
	if err != nil {
		return nil, err
	}

	token, err := l.tokens.Issue(u.Login)
	if err != nil {
		return nil, err
	}

	l.logger.Info("user logged in", "user_id", u.ID)
	return &LoginResult{User: u, Token: token}, nil
}
