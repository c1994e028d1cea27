// Package identity resolves bearer credentials to authenticated identities.
// Token issuance and verification internals belong to the auth collaborator;
// this package only consumes its stores.
package identity

import (
	"context"
	"errors"

	"github.com/eduhub/classroom/internal/domain"
	"github.com/eduhub/classroom/internal/repository"
)

// ErrAuthentication covers every failure mode of credential resolution.
// Callers refuse the connection outright; no partial sessions exist.
var ErrAuthentication = errors.New("authentication error")

type Resolver interface {
	Resolve(ctx context.Context, token string) (*domain.Identity, error)
}

// StoreResolver resolves a credential through the token store and fills in
// display name and role from the user directory.
type StoreResolver struct {
	Tokens    repository.TokenStore
	Directory repository.UserDirectory
}

func NewStoreResolver(tokens repository.TokenStore, directory repository.UserDirectory) *StoreResolver {
	return &StoreResolver{Tokens: tokens, Directory: directory}
}

func (r *StoreResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	if token == "" {
		return nil, ErrAuthentication
	}
	uid, err := r.Tokens.ResolveToken(ctx, token)
	if err != nil {
		return nil, ErrAuthentication
	}
	user, err := r.Directory.GetUser(ctx, uid)
	if err != nil {
		return nil, ErrAuthentication
	}
	return user, nil
}
