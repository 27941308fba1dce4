package bbolt

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/storage"
	"go.etcd.io/bbolt"
)

// IsAssigned reports whether the token id has ever been assigned.
func (s *Store) IsAssigned(ctx context.Context, tokenID uint64) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}

	var assigned bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("ledger bucket is missing")
		}
		assigned = bucket.Get(tokenKey(tokenID)) != nil
		return nil
	})
	return assigned, err
}

// OwnerOf returns the owning account for an assigned token.
func (s *Store) OwnerOf(ctx context.Context, tokenID uint64) (domain.Account, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}

	var owner domain.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("ledger bucket is missing")
		}
		payload := bucket.Get(tokenKey(tokenID))
		if payload == nil {
			return storage.ErrNotFound
		}
		owner = domain.Account(payload)
		return nil
	})
	return owner, err
}

// BalanceOf returns the number of tokens held by the account.
func (s *Store) BalanceOf(ctx context.Context, account domain.Account) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	var balance uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(balanceBucket))
		if bucket == nil {
			return fmt.Errorf("balance bucket is missing")
		}
		if payload := bucket.Get([]byte(account)); payload != nil {
			balance = binary.BigEndian.Uint64(payload)
		}
		return nil
	})
	return balance, err
}

// AssignedCount returns the total number of assigned tokens.
func (s *Store) AssignedCount(ctx context.Context) (uint64, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}

	var count uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(ledgerBucket))
		if bucket == nil {
			return fmt.Errorf("ledger bucket is missing")
		}
		count = uint64(bucket.Stats().KeyN)
		return nil
	})
	return count, err
}

// CommitMint writes every assignment and the cursor advance in one
// transaction. An already-assigned id aborts the whole commit; the engines
// stage their checks first, so hitting this guard means a caller bypassed
// them.
func (s *Store) CommitMint(ctx context.Context, commit storage.MintCommit) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(commit.Assignments) == 0 {
		return fmt.Errorf("mint commit requires at least one assignment")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		ledger := tx.Bucket([]byte(ledgerBucket))
		if ledger == nil {
			return fmt.Errorf("ledger bucket is missing")
		}
		balances := tx.Bucket([]byte(balanceBucket))
		if balances == nil {
			return fmt.Errorf("balance bucket is missing")
		}

		for _, assignment := range commit.Assignments {
			if assignment.TokenID == 0 {
				return fmt.Errorf("token id must be positive")
			}
			if assignment.Recipient.IsZero() {
				return fmt.Errorf("assignment recipient is required")
			}

			key := tokenKey(assignment.TokenID)
			if ledger.Get(key) != nil {
				return fmt.Errorf("token %d is already assigned", assignment.TokenID)
			}
			if err := ledger.Put(key, []byte(assignment.Recipient)); err != nil {
				return fmt.Errorf("assign token %d: %w", assignment.TokenID, err)
			}
			if err := incrementBalance(balances, assignment.Recipient); err != nil {
				return err
			}
		}

		if commit.AdvanceCursorTo == 0 {
			return nil
		}
		settings, err := readSettings(tx)
		if err != nil {
			return fmt.Errorf("load settings for cursor advance: %w", err)
		}
		if commit.AdvanceCursorTo < settings.NextTokenID {
			return fmt.Errorf("cursor may not move backwards (%d < %d)", commit.AdvanceCursorTo, settings.NextTokenID)
		}
		settings.NextTokenID = commit.AdvanceCursorTo
		return writeSettings(tx, settings)
	})
}

func incrementBalance(bucket *bbolt.Bucket, account domain.Account) error {
	var balance uint64
	if payload := bucket.Get([]byte(account)); payload != nil {
		balance = binary.BigEndian.Uint64(payload)
	}
	value := make([]byte, 8)
	binary.BigEndian.PutUint64(value, balance+1)
	if err := bucket.Put([]byte(account), value); err != nil {
		return fmt.Errorf("update balance for %s: %w", account, err)
	}
	return nil
}
