package domain

import (
	"strings"

	apperrors "github.com/louisbranch/mintage/internal/errors"
)

// Account identifies a caller or recipient. The engine treats accounts as
// opaque identifiers; key custody and authentication live with the transport.
type Account string

// ErrAccountEmpty indicates a missing account identifier.
var ErrAccountEmpty = apperrors.New(apperrors.CodeAccountEmpty, "account is required")

// NormalizeAccount trims and validates an account identifier.
func NormalizeAccount(raw string) (Account, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrAccountEmpty
	}
	return Account(trimmed), nil
}

// IsZero reports whether the account is unset.
func (a Account) IsZero() bool {
	return strings.TrimSpace(string(a)) == ""
}

// Assignment records one token handed to one recipient.
type Assignment struct {
	TokenID   uint64
	Recipient Account
}
