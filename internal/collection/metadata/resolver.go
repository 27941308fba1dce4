// Package metadata resolves token metadata strings: a per-token override
// verbatim when present, otherwise the collection base joined with the id.
package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/collection/policy"
	apperrors "github.com/louisbranch/mintage/internal/errors"
	"github.com/louisbranch/mintage/internal/storage"
)

// Resolver answers metadata lookups and applies base and override updates
// through the policy chain.
type Resolver struct {
	metadata storage.MetadataStore
	policies *policy.Engine
}

// NewResolver creates a metadata resolver over the given store and policy
// engine.
func NewResolver(metadata storage.MetadataStore, policies *policy.Engine) *Resolver {
	return &Resolver{metadata: metadata, policies: policies}
}

// Resolve returns the token's metadata string. An override wins verbatim;
// without one the result is base + "/" + id. Resolution does not require the
// token to be assigned.
func (r *Resolver) Resolve(ctx context.Context, tokenID uint64) (string, error) {
	if err := domain.ValidateTokenID(tokenID); err != nil {
		return "", err
	}

	uri, err := r.metadata.TokenURI(ctx, tokenID)
	switch {
	case err == nil:
		return uri, nil
	case errors.Is(err, storage.ErrNotFound):
	default:
		return "", fmt.Errorf("load token override: %w", err)
	}

	base, err := r.metadata.Base(ctx)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotFound):
		return "", apperrors.Wrap(apperrors.CodeNotFound, "collection base is not set", err)
	default:
		return "", fmt.Errorf("load base: %w", err)
	}
	return base + "/" + strconv.FormatUint(tokenID, 10), nil
}

// SetBase replaces the collection base string. Existing overrides keep
// precedence for their own ids.
func (r *Resolver) SetBase(ctx context.Context, actor domain.Account, base string) (string, error) {
	base = strings.TrimSpace(base)
	if base == "" {
		return "", domain.ErrEmptyBase
	}
	if err := r.policies.AuthorizeCollection(ctx, actor, domain.CapabilityUpdateBase); err != nil {
		return "", err
	}
	if err := r.metadata.SetBase(ctx, base); err != nil {
		return "", fmt.Errorf("persist base: %w", err)
	}
	return base, nil
}

// SetOverrides writes per-token overrides pairwise. Authorization runs for
// every id before anything is written, so a single denial leaves every prior
// resolution intact.
func (r *Resolver) SetOverrides(ctx context.Context, actor domain.Account, tokenIDs []uint64, uris []string) error {
	if len(tokenIDs) != len(uris) {
		return apperrors.WithMetadata(
			apperrors.CodeMismatchedLengths,
			"token id and uri lists must have the same length",
			map[string]string{
				"TokenIDs": strconv.Itoa(len(tokenIDs)),
				"URIs":     strconv.Itoa(len(uris)),
			},
		)
	}
	for _, tokenID := range tokenIDs {
		if err := domain.ValidateTokenID(tokenID); err != nil {
			return err
		}
	}
	if err := r.policies.AuthorizeTokens(ctx, actor, domain.CapabilityUpdateToken, tokenIDs); err != nil {
		return err
	}
	if err := r.metadata.SetTokenURIs(ctx, tokenIDs, uris); err != nil {
		return fmt.Errorf("persist overrides: %w", err)
	}
	return nil
}
