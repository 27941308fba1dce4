package domain

import (
	apperrors "github.com/louisbranch/mintage/internal/errors"
)

// PolicyKind tags a persisted policy variant.
type PolicyKind string

const (
	// PolicyKindOwnerOnly allows only the collection owner, regardless of
	// how the resolution chain routed to it.
	PolicyKindOwnerOnly PolicyKind = "owner_only"
	// PolicyKindTotalLocked denies every actor, including the owner. It
	// models permanent immutability of the governed token(s).
	PolicyKindTotalLocked PolicyKind = "total_locked"
)

// Policy decides whether an actor may perform a capability. For
// collection-wide capabilities tokenID is zero. Implementations must be pure:
// the engine may evaluate a batch of decisions before committing anything.
type Policy interface {
	Kind() PolicyKind
	Allows(actor Account, capability Capability, tokenID uint64) bool
}

// OwnerOnly allows only the configured collection owner.
type OwnerOnly struct {
	Owner Account
}

// Kind returns the owner-only policy kind.
func (OwnerOnly) Kind() PolicyKind { return PolicyKindOwnerOnly }

// Allows reports whether the actor is the collection owner.
func (p OwnerOnly) Allows(actor Account, _ Capability, _ uint64) bool {
	return !p.Owner.IsZero() && actor == p.Owner
}

// TotalLocked denies every actor.
type TotalLocked struct{}

// Kind returns the total-locked policy kind.
func (TotalLocked) Kind() PolicyKind { return PolicyKindTotalLocked }

// Allows always reports false.
func (TotalLocked) Allows(_ Account, _ Capability, _ uint64) bool { return false }

// PolicyFromKind rehydrates a persisted policy kind. The collection owner is
// supplied by the caller so owner-bound variants track ownership at decision
// time rather than at registration time.
func PolicyFromKind(kind PolicyKind, owner Account) (Policy, error) {
	switch kind {
	case PolicyKindOwnerOnly:
		return OwnerOnly{Owner: owner}, nil
	case PolicyKindTotalLocked:
		return TotalLocked{}, nil
	default:
		return nil, apperrors.WithMetadata(
			apperrors.CodeUnknownPolicyKind,
			"unknown policy kind "+string(kind),
			map[string]string{"Kind": string(kind)},
		)
	}
}
