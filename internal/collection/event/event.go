// Package event defines the change notifications appended to the collection
// journal. Every successful state-changing call produces exactly one event.
package event

import (
	"strings"
	"time"

	"github.com/louisbranch/mintage/internal/collection/domain"
)

// Type identifies the type of a collection event.
type Type string

// Collection lifecycle events.
const (
	// TypeCollectionInitialized records the creation of the collection.
	TypeCollectionInitialized Type = "collection.initialized"
)

// Mint events.
const (
	// TypeTokensMinted records a successful mint call of any variant.
	TypeTokensMinted Type = "mint.tokens_minted"
	// TypeMintsFrozen records the one-way freeze of the mint entry points.
	TypeMintsFrozen Type = "mint.frozen"
	// TypeSupplyCeilingChanged records a supply ceiling change.
	TypeSupplyCeilingChanged Type = "mint.supply_ceiling_changed"
)

// Policy events.
const (
	// TypeDefaultPolicyChanged records a collection default policy change.
	TypeDefaultPolicyChanged Type = "policy.default_changed"
	// TypeTokenPoliciesChanged records per-token policy override changes.
	TypeTokenPoliciesChanged Type = "policy.token_overrides_changed"
)

// Metadata events.
const (
	// TypeBaseChanged records a collection base metadata string change.
	TypeBaseChanged Type = "metadata.base_changed"
	// TypeTokenURIsChanged records per-token metadata override changes.
	TypeTokenURIsChanged Type = "metadata.token_overrides_changed"
)

// Minter registry events.
const (
	// TypeMinterRegistered records an account gaining the minter role.
	TypeMinterRegistered Type = "minter.registered"
	// TypeMinterRevoked records an account losing the minter role.
	TypeMinterRevoked Type = "minter.revoked"
)

// Event represents an immutable entry in the collection journal.
type Event struct {
	// Seq is the journal sequence number (starts at 1). Assigned on append.
	Seq uint64
	// ID is a unique identifier for the event.
	ID string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// Actor is the account whose call produced the event.
	Actor domain.Account
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "mint", "policy").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
