// Package mint assigns token ids under the collection's freeze latch, supply
// ceiling and sequential cursor.
package mint

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/louisbranch/mintage/internal/collection/domain"
	apperrors "github.com/louisbranch/mintage/internal/errors"
	"github.com/louisbranch/mintage/internal/storage"
)

// Engine owns the mint entry points. Every call stages its checks first and
// commits assignments plus the cursor advance as one storage transaction.
type Engine struct {
	settings storage.SettingsStore
	ledger   storage.LedgerStore
	mints    storage.MintStore
	minters  storage.MinterStore
	clock    func() time.Time
}

// NewEngine creates a mint engine over the given stores.
func NewEngine(settings storage.SettingsStore, ledger storage.LedgerStore, mints storage.MintStore, minters storage.MinterStore) *Engine {
	return &Engine{
		settings: settings,
		ledger:   ledger,
		mints:    mints,
		minters:  minters,
		clock:    time.Now,
	}
}

// MintOne assigns the next sequential id to the recipient.
func (e *Engine) MintOne(ctx context.Context, actor, recipient domain.Account) ([]domain.Assignment, error) {
	return e.MintAmount(ctx, actor, recipient, 1)
}

// MintAmount assigns n consecutive sequential ids, all to the recipient.
func (e *Engine) MintAmount(ctx context.Context, actor, recipient domain.Account, n uint64) ([]domain.Assignment, error) {
	recipient, err := domain.NormalizeAccount(string(recipient))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, errAmountZero()
	}

	settings, err := e.requireMintable(ctx, actor)
	if err != nil {
		return nil, err
	}

	assignments := make([]domain.Assignment, 0, n)
	for i := uint64(0); i < n; i++ {
		assignments = append(assignments, domain.Assignment{
			TokenID:   settings.NextTokenID + i,
			Recipient: recipient,
		})
	}
	return assignments, e.commitSequential(ctx, settings, assignments)
}

// MintOneEach assigns one sequential id per recipient, in list order.
func (e *Engine) MintOneEach(ctx context.Context, actor domain.Account, recipients []domain.Account) ([]domain.Assignment, error) {
	return e.MintSameAmountEach(ctx, actor, recipients, 1)
}

// MintSameAmountEach assigns n consecutive ids to each recipient,
// recipient-major: all of the first recipient's ids precede the second's.
func (e *Engine) MintSameAmountEach(ctx context.Context, actor domain.Account, recipients []domain.Account, n uint64) ([]domain.Assignment, error) {
	if len(recipients) == 0 {
		return nil, errNoRecipients()
	}
	if n == 0 {
		return nil, errAmountZero()
	}
	normalized := make([]domain.Account, len(recipients))
	for i, recipient := range recipients {
		account, err := domain.NormalizeAccount(string(recipient))
		if err != nil {
			return nil, err
		}
		normalized[i] = account
	}

	settings, err := e.requireMintable(ctx, actor)
	if err != nil {
		return nil, err
	}

	assignments := make([]domain.Assignment, 0, n*uint64(len(normalized)))
	next := settings.NextTokenID
	for _, recipient := range normalized {
		for i := uint64(0); i < n; i++ {
			assignments = append(assignments, domain.Assignment{TokenID: next, Recipient: recipient})
			next++
		}
	}
	return assignments, e.commitSequential(ctx, settings, assignments)
}

// MintSpecific assigns a caller-chosen id to the recipient. The cursor is
// never consulted or advanced.
func (e *Engine) MintSpecific(ctx context.Context, actor, recipient domain.Account, tokenID uint64) ([]domain.Assignment, error) {
	return e.MintSpecificBatch(ctx, actor, recipient, []uint64{tokenID})
}

// MintSpecificBatch assigns caller-chosen ids to the recipient. Every id is
// range-checked against the ceiling and checked against the shared assigned
// predicate before anything is written.
func (e *Engine) MintSpecificBatch(ctx context.Context, actor, recipient domain.Account, tokenIDs []uint64) ([]domain.Assignment, error) {
	recipient, err := domain.NormalizeAccount(string(recipient))
	if err != nil {
		return nil, err
	}
	if len(tokenIDs) == 0 {
		return nil, errAmountZero()
	}
	for _, tokenID := range tokenIDs {
		if err := domain.ValidateTokenID(tokenID); err != nil {
			return nil, err
		}
	}

	settings, err := e.requireMintable(ctx, actor)
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]struct{}, len(tokenIDs))
	assignments := make([]domain.Assignment, 0, len(tokenIDs))
	for _, tokenID := range tokenIDs {
		if settings.SupplyCeiling > 0 && tokenID > settings.SupplyCeiling {
			return nil, apperrors.WithMetadata(
				apperrors.CodeTokenNotInRange,
				fmt.Sprintf("token id %d exceeds supply ceiling %d", tokenID, settings.SupplyCeiling),
				map[string]string{
					"TokenID":       strconv.FormatUint(tokenID, 10),
					"SupplyCeiling": strconv.FormatUint(settings.SupplyCeiling, 10),
				},
			)
		}
		if _, dup := seen[tokenID]; dup {
			return nil, errAlreadyMinted(tokenID)
		}
		seen[tokenID] = struct{}{}

		assigned, err := e.ledger.IsAssigned(ctx, tokenID)
		if err != nil {
			return nil, fmt.Errorf("check assignment of %d: %w", tokenID, err)
		}
		if assigned {
			return nil, errAlreadyMinted(tokenID)
		}
		assignments = append(assignments, domain.Assignment{TokenID: tokenID, Recipient: recipient})
	}

	if err := e.mints.CommitMint(ctx, storage.MintCommit{Assignments: assignments}); err != nil {
		return nil, fmt.Errorf("commit mint: %w", err)
	}
	return assignments, nil
}

// FreezeMints flips the one-way freeze latch. Owner-gated; once set, every
// mint entry point fails for every caller.
func (e *Engine) FreezeMints(ctx context.Context, actor domain.Account) (domain.Settings, error) {
	settings, err := e.requireOwner(ctx, actor)
	if err != nil {
		return domain.Settings{}, err
	}
	if settings.MintsFrozen {
		return settings, nil
	}
	settings.MintsFrozen = true
	settings.UpdatedAt = e.now()
	if err := e.settings.PutSettings(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("persist freeze: %w", err)
	}
	return settings, nil
}

// SetSupplyCeiling replaces the supply ceiling. Owner-gated. Zero removes the
// bound; lowering it below already-assigned ids is permitted and does not
// invalidate them.
func (e *Engine) SetSupplyCeiling(ctx context.Context, actor domain.Account, ceiling uint64) (domain.Settings, error) {
	settings, err := e.requireOwner(ctx, actor)
	if err != nil {
		return domain.Settings{}, err
	}
	settings.SupplyCeiling = ceiling
	settings.UpdatedAt = e.now()
	if err := e.settings.PutSettings(ctx, settings); err != nil {
		return domain.Settings{}, fmt.Errorf("persist supply ceiling: %w", err)
	}
	return settings, nil
}

// requireMintable enforces the shared mint preconditions: the caller holds
// the minter role and the latch is not set.
func (e *Engine) requireMintable(ctx context.Context, actor domain.Account) (domain.Settings, error) {
	if actor.IsZero() {
		return domain.Settings{}, domain.ErrAccountEmpty
	}
	allowed, err := e.minters.IsMinter(ctx, actor)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("check minter role: %w", err)
	}
	if !allowed {
		return domain.Settings{}, apperrors.WithMetadata(
			apperrors.CodeNotMinter,
			"caller does not hold the minter role",
			map[string]string{"Actor": string(actor)},
		)
	}

	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if settings.MintsFrozen {
		return domain.Settings{}, apperrors.New(apperrors.CodeMintsFrozen, "mints are frozen")
	}
	return settings, nil
}

// commitSequential range-checks the staged block, re-checks every id against
// the assigned predicate and commits assignments plus the cursor advance.
func (e *Engine) commitSequential(ctx context.Context, settings domain.Settings, assignments []domain.Assignment) error {
	last := assignments[len(assignments)-1].TokenID
	if settings.SupplyCeiling > 0 && last > settings.SupplyCeiling {
		return apperrors.WithMetadata(
			apperrors.CodeOverSupplyCeiling,
			fmt.Sprintf("block ending at %d exceeds supply ceiling %d", last, settings.SupplyCeiling),
			map[string]string{
				"LastTokenID":   strconv.FormatUint(last, 10),
				"SupplyCeiling": strconv.FormatUint(settings.SupplyCeiling, 10),
			},
		)
	}

	// Explicit mints share the id space, so a sequential block can collide
	// with an id minted ahead of the cursor. The whole call fails and the
	// cursor does not move.
	for _, assignment := range assignments {
		assigned, err := e.ledger.IsAssigned(ctx, assignment.TokenID)
		if err != nil {
			return fmt.Errorf("check assignment of %d: %w", assignment.TokenID, err)
		}
		if assigned {
			return errAlreadyMinted(assignment.TokenID)
		}
	}

	commit := storage.MintCommit{
		Assignments:     assignments,
		AdvanceCursorTo: last + 1,
	}
	if err := e.mints.CommitMint(ctx, commit); err != nil {
		return fmt.Errorf("commit mint: %w", err)
	}
	return nil
}

func (e *Engine) requireOwner(ctx context.Context, actor domain.Account) (domain.Settings, error) {
	settings, err := e.settings.Settings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	if actor != settings.Owner {
		return domain.Settings{}, apperrors.WithMetadata(
			apperrors.CodeNotOwner,
			"caller is not the collection owner",
			map[string]string{"Actor": string(actor)},
		)
	}
	return settings, nil
}

func (e *Engine) now() time.Time {
	if e.clock == nil {
		return time.Now().UTC()
	}
	return e.clock().UTC()
}

func errAmountZero() error {
	return apperrors.New(apperrors.CodeMintAmountZero, "mint amount must be positive")
}

func errNoRecipients() error {
	return apperrors.New(apperrors.CodeMintNoRecipients, "at least one recipient is required")
}

func errAlreadyMinted(tokenID uint64) error {
	return apperrors.WithMetadata(
		apperrors.CodeTokenAlreadyMinted,
		fmt.Sprintf("token id %d is already assigned", tokenID),
		map[string]string{"TokenID": strconv.FormatUint(tokenID, 10)},
	)
}
