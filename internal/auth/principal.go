// ABOUTME: Principal resolver that turns stored user records into request principals
// ABOUTME: Unknown logins map to ErrPrincipalNotFound so callers can answer with a generic 403

package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/2389/blogpessoal/internal/store"
)

// Principal is the authenticated identity attached to a single request.
type Principal struct {
	UserID       int64
	Login        string
	PasswordHash string `json:"-"`
	Authorities  []string
}

// CredentialStore looks up users by login. store.Store satisfies it.
type CredentialStore interface {
	GetUserByLogin(ctx context.Context, login string) (*store.User, error)
}

// PrincipalResolver resolves a token subject into a Principal.
type PrincipalResolver interface {
	Resolve(ctx context.Context, login string) (*Principal, error)
}

// Resolver implements PrincipalResolver on top of a CredentialStore.
type Resolver struct {
	users CredentialStore
}

var _ PrincipalResolver = (*Resolver)(nil)

// NewResolver creates a Resolver backed by users.
func NewResolver(users CredentialStore) *Resolver {
	return &Resolver{users: users}
}

// Resolve loads the user with the given login.
func (r *Resolver) Resolve(ctx context.Context, login string) (*Principal, error) {
	u, err := r.users.GetUserByLogin(ctx, login)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrPrincipalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving principal: %w", err)
	}
	return newPrincipal(u), nil
}

// newPrincipal builds a Principal from a stored user. No roles are modelled,
// so Authorities is always empty.
func newPrincipal(u *store.User) *Principal {
	return &Principal{
		UserID:       u.ID,
		Login:        u.Login,
		PasswordHash: u.PasswordHash,
		Authorities:  []string{},
	}
}
