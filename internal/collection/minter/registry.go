// Package minter manages the owner-gated minter role set consulted by the
// mint preconditions.
package minter

import (
	"context"
	"fmt"

	"github.com/louisbranch/mintage/internal/collection/domain"
	apperrors "github.com/louisbranch/mintage/internal/errors"
	"github.com/louisbranch/mintage/internal/storage"
)

// Registry grants and revokes the minter role. There is no capacity limit.
type Registry struct {
	settings storage.SettingsStore
	minters  storage.MinterStore
}

// NewRegistry creates a minter registry over the given stores.
func NewRegistry(settings storage.SettingsStore, minters storage.MinterStore) *Registry {
	return &Registry{settings: settings, minters: minters}
}

// Register grants the minter role. Owner-gated; granting an existing minter
// again is a no-op.
func (r *Registry) Register(ctx context.Context, actor domain.Account, account domain.Account) (domain.Account, error) {
	account, err := domain.NormalizeAccount(string(account))
	if err != nil {
		return "", err
	}
	if err := r.requireOwner(ctx, actor); err != nil {
		return "", err
	}
	if err := r.minters.SetMinter(ctx, account, true); err != nil {
		return "", fmt.Errorf("grant minter role: %w", err)
	}
	return account, nil
}

// Revoke removes the minter role. Owner-gated; revoking a non-minter is a
// no-op.
func (r *Registry) Revoke(ctx context.Context, actor domain.Account, account domain.Account) (domain.Account, error) {
	account, err := domain.NormalizeAccount(string(account))
	if err != nil {
		return "", err
	}
	if err := r.requireOwner(ctx, actor); err != nil {
		return "", err
	}
	if err := r.minters.SetMinter(ctx, account, false); err != nil {
		return "", fmt.Errorf("revoke minter role: %w", err)
	}
	return account, nil
}

// IsMinter reports whether the account holds the minter role.
func (r *Registry) IsMinter(ctx context.Context, account domain.Account) (bool, error) {
	return r.minters.IsMinter(ctx, account)
}

// List returns every account holding the minter role.
func (r *Registry) List(ctx context.Context) ([]domain.Account, error) {
	return r.minters.Minters(ctx)
}

func (r *Registry) requireOwner(ctx context.Context, actor domain.Account) error {
	settings, err := r.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if actor != settings.Owner {
		return apperrors.WithMetadata(
			apperrors.CodeNotOwner,
			"caller is not the collection owner",
			map[string]string{"Actor": string(actor)},
		)
	}
	return nil
}
