package domain

import (
	"strings"
	"time"

	apperrors "github.com/louisbranch/mintage/internal/errors"
)

// FirstTokenID is the first identifier handed out by the sequential cursor.
const FirstTokenID uint64 = 1

var (
	// ErrEmptyBase indicates a missing collection base metadata string.
	ErrEmptyBase = apperrors.New(apperrors.CodeEmptyBase, "base metadata string is required")
	// ErrTokenIDZero indicates an explicit token id of zero.
	ErrTokenIDZero = apperrors.New(apperrors.CodeTokenIDZero, "token id must be positive")
)

// Settings is the mutable collection-wide state.
type Settings struct {
	// Owner is the collection owner account. Administrative setters and the
	// owner-only policy fallback resolve against it.
	Owner Account
	// SupplyCeiling bounds the largest assignable token id. Zero means
	// unlimited.
	SupplyCeiling uint64
	// MintsFrozen is the one-way freeze latch. Once true it never resets.
	MintsFrozen bool
	// NextTokenID is the sequential mint cursor. Starts at FirstTokenID.
	NextTokenID uint64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateCollectionInput describes the state needed to initialize a collection.
type CreateCollectionInput struct {
	Owner Account
	// Base is the initial collection base metadata string.
	Base string
	// SupplyCeiling is the initial ceiling; zero leaves the supply unbounded.
	SupplyCeiling uint64
}

// CreateCollection validates input and produces the initial settings.
func CreateCollection(input CreateCollectionInput, now func() time.Time) (Settings, error) {
	if now == nil {
		now = time.Now
	}

	normalized, err := NormalizeCreateCollectionInput(input)
	if err != nil {
		return Settings{}, err
	}

	createdAt := now().UTC()
	return Settings{
		Owner:         normalized.Owner,
		SupplyCeiling: normalized.SupplyCeiling,
		MintsFrozen:   false,
		NextTokenID:   FirstTokenID,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

// NormalizeCreateCollectionInput trims and validates collection input.
func NormalizeCreateCollectionInput(input CreateCollectionInput) (CreateCollectionInput, error) {
	owner, err := NormalizeAccount(string(input.Owner))
	if err != nil {
		return CreateCollectionInput{}, err
	}
	input.Owner = owner

	input.Base = strings.TrimSpace(input.Base)
	if input.Base == "" {
		return CreateCollectionInput{}, ErrEmptyBase
	}
	return input, nil
}

// ValidateTokenID rejects the zero identifier; token ids are positive.
func ValidateTokenID(id uint64) error {
	if id == 0 {
		return ErrTokenIDZero
	}
	return nil
}
