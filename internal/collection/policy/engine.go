// Package policy resolves capability checks through the collection's
// three-tier override chain: per-token policy, then collection default policy,
// then the implicit owner-only fallback.
package policy

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/louisbranch/mintage/internal/collection/domain"
	apperrors "github.com/louisbranch/mintage/internal/errors"
	"github.com/louisbranch/mintage/internal/storage"
)

// Engine evaluates capability checks against the persisted policy registry.
type Engine struct {
	settings storage.SettingsStore
	policies storage.PolicyStore
}

// NewEngine creates a policy engine over the given stores.
func NewEngine(settings storage.SettingsStore, policies storage.PolicyStore) *Engine {
	return &Engine{settings: settings, policies: policies}
}

// AuthorizeCollection checks a collection-wide capability: default policy if
// set, else owner-only fallback. Per-token overrides never apply here.
func (e *Engine) AuthorizeCollection(ctx context.Context, actor domain.Account, capability domain.Capability) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return e.authorizeCollection(ctx, settings, actor, capability)
}

// AuthorizeToken checks a per-token capability through the full chain.
func (e *Engine) AuthorizeToken(ctx context.Context, actor domain.Account, capability domain.Capability, tokenID uint64) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	return e.authorizeToken(ctx, settings, actor, capability, tokenID)
}

// AuthorizeTokens evaluates the chain independently for every id before the
// caller commits anything. The first denial aborts the whole batch, so a call
// that mutates several tokens is all-or-nothing.
func (e *Engine) AuthorizeTokens(ctx context.Context, actor domain.Account, capability domain.Capability, tokenIDs []uint64) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	for _, tokenID := range tokenIDs {
		if err := e.authorizeToken(ctx, settings, actor, capability, tokenID); err != nil {
			return err
		}
	}
	return nil
}

// RequireOwner gates the administrative setters that sit outside the policy
// chain: minter registration, policy assignment and ceiling changes.
func (e *Engine) RequireOwner(ctx context.Context, actor domain.Account) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if actor != settings.Owner {
		return notOwner(actor)
	}
	return nil
}

// SetDefaultPolicy registers the collection default policy. Owner-gated
// direct write; the chain is not consulted.
func (e *Engine) SetDefaultPolicy(ctx context.Context, actor domain.Account, kind domain.PolicyKind) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if actor != settings.Owner {
		return notOwner(actor)
	}
	if _, err := domain.PolicyFromKind(kind, settings.Owner); err != nil {
		return err
	}
	if err := e.policies.SetDefaultPolicyKind(ctx, kind); err != nil {
		return fmt.Errorf("set default policy: %w", err)
	}
	return nil
}

// SetTokenPolicies registers the same granular override for every id.
// Owner-gated direct write; the chain is not consulted.
func (e *Engine) SetTokenPolicies(ctx context.Context, actor domain.Account, tokenIDs []uint64, kind domain.PolicyKind) error {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if actor != settings.Owner {
		return notOwner(actor)
	}
	if _, err := domain.PolicyFromKind(kind, settings.Owner); err != nil {
		return err
	}
	for _, tokenID := range tokenIDs {
		if err := domain.ValidateTokenID(tokenID); err != nil {
			return err
		}
	}
	if err := e.policies.SetTokenPolicyKinds(ctx, tokenIDs, kind); err != nil {
		return fmt.Errorf("set token policies: %w", err)
	}
	return nil
}

func (e *Engine) authorizeCollection(ctx context.Context, settings domain.Settings, actor domain.Account, capability domain.Capability) error {
	kind, err := e.policies.DefaultPolicyKind(ctx)
	switch {
	case err == nil:
		return decide(kind, settings.Owner, actor, capability, 0)
	case errors.Is(err, storage.ErrNotFound):
		// No default registered: owner-only fallback.
		if actor != settings.Owner {
			return notOwner(actor)
		}
		return nil
	default:
		return fmt.Errorf("load default policy: %w", err)
	}
}

func (e *Engine) authorizeToken(ctx context.Context, settings domain.Settings, actor domain.Account, capability domain.Capability, tokenID uint64) error {
	kind, err := e.policies.TokenPolicyKind(ctx, tokenID)
	switch {
	case err == nil:
		return decide(kind, settings.Owner, actor, capability, tokenID)
	case errors.Is(err, storage.ErrNotFound):
		return e.authorizeCollection(ctx, settings, actor, capability)
	default:
		return fmt.Errorf("load token policy: %w", err)
	}
}

// decide delegates to a registered policy. A denial here is surfaced as
// "can't update" rather than "not owner": the registry made the call.
func decide(kind domain.PolicyKind, owner, actor domain.Account, capability domain.Capability, tokenID uint64) error {
	policy, err := domain.PolicyFromKind(kind, owner)
	if err != nil {
		return err
	}
	if policy.Allows(actor, capability, tokenID) {
		return nil
	}

	metadata := map[string]string{
		"Actor":      string(actor),
		"Capability": string(capability),
		"Policy":     string(kind),
	}
	if tokenID > 0 {
		metadata["TokenID"] = strconv.FormatUint(tokenID, 10)
	}
	return apperrors.WithMetadata(
		apperrors.CodeNotAuthorized,
		fmt.Sprintf("policy %s denies %s for %s", kind, capability, actor),
		metadata,
	)
}

func notOwner(actor domain.Account) error {
	return apperrors.WithMetadata(
		apperrors.CodeNotOwner,
		"caller is not the collection owner",
		map[string]string{"Actor": string(actor)},
	)
}
