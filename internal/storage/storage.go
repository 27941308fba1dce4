package storage

import (
	"context"
	"errors"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/collection/event"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// SettingsStore persists the collection-wide settings record.
type SettingsStore interface {
	// Settings returns the collection settings, or ErrNotFound before
	// initialization.
	Settings(ctx context.Context) (domain.Settings, error)
	// PutSettings overwrites the collection settings.
	PutSettings(ctx context.Context, settings domain.Settings) error
}

// LedgerStore reads the token ownership ledger. There is one assigned
// predicate shared by sequential and explicit mint paths.
type LedgerStore interface {
	// IsAssigned reports whether the token id has ever been assigned.
	IsAssigned(ctx context.Context, tokenID uint64) (bool, error)
	// OwnerOf returns the owning account, or ErrNotFound for unassigned ids.
	OwnerOf(ctx context.Context, tokenID uint64) (domain.Account, error)
	// BalanceOf returns the number of tokens held by the account.
	BalanceOf(ctx context.Context, account domain.Account) (uint64, error)
	// AssignedCount returns the total number of assigned tokens.
	AssignedCount(ctx context.Context) (uint64, error)
}

// MintCommit is the atomic unit written by one successful mint call.
type MintCommit struct {
	Assignments []domain.Assignment
	// AdvanceCursorTo is the new sequential cursor after the call. Zero
	// leaves the cursor untouched (explicit mint variants).
	AdvanceCursorTo uint64
}

// MintStore commits mint calls. The commit writes every assignment and the
// cursor advance in a single transaction.
type MintStore interface {
	CommitMint(ctx context.Context, commit MintCommit) error
}

// PolicyStore persists the default policy and per-token policy overrides.
// Policies are stored by kind; decoding binds them to the current owner.
type PolicyStore interface {
	// DefaultPolicyKind returns the collection default policy kind, or
	// ErrNotFound when no default is set.
	DefaultPolicyKind(ctx context.Context) (domain.PolicyKind, error)
	// SetDefaultPolicyKind overwrites the collection default policy.
	SetDefaultPolicyKind(ctx context.Context, kind domain.PolicyKind) error
	// TokenPolicyKind returns the per-token override kind, or ErrNotFound
	// when the token has no override.
	TokenPolicyKind(ctx context.Context, tokenID uint64) (domain.PolicyKind, error)
	// SetTokenPolicyKinds writes the same override kind for every id, in a
	// single transaction.
	SetTokenPolicyKinds(ctx context.Context, tokenIDs []uint64, kind domain.PolicyKind) error
}

// MetadataStore persists the base metadata string and per-token overrides.
type MetadataStore interface {
	// Base returns the collection base metadata string, or ErrNotFound
	// before initialization.
	Base(ctx context.Context) (string, error)
	// SetBase overwrites the collection base metadata string.
	SetBase(ctx context.Context, base string) error
	// TokenURI returns the per-token override, or ErrNotFound when the
	// token has none.
	TokenURI(ctx context.Context, tokenID uint64) (string, error)
	// SetTokenURIs writes overrides pairwise (tokenIDs[i] -> uris[i]) in a
	// single transaction.
	SetTokenURIs(ctx context.Context, tokenIDs []uint64, uris []string) error
}

// MinterStore persists the minter role set.
type MinterStore interface {
	// IsMinter reports whether the account holds the minter role.
	IsMinter(ctx context.Context, account domain.Account) (bool, error)
	// SetMinter grants or revokes the minter role.
	SetMinter(ctx context.Context, account domain.Account, allowed bool) error
	// Minters lists accounts holding the minter role.
	Minters(ctx context.Context) ([]domain.Account, error)
}

// CollectionStore aggregates the state stores backing one collection.
type CollectionStore interface {
	SettingsStore
	LedgerStore
	MintStore
	PolicyStore
	MetadataStore
	MinterStore
}

// EventJournal appends and reads the collection change journal.
type EventJournal interface {
	// AppendEvent assigns the next sequence number and persists the event.
	AppendEvent(ctx context.Context, evt event.Event) (event.Event, error)
	// ListEvents returns up to limit events with Seq > afterSeq, in
	// ascending order.
	ListEvents(ctx context.Context, afterSeq uint64, limit int) ([]event.Event, error)
}
