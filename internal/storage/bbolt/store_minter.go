package bbolt

import (
	"context"
	"fmt"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"go.etcd.io/bbolt"
)

// IsMinter reports whether the account holds the minter role.
func (s *Store) IsMinter(ctx context.Context, account domain.Account) (bool, error) {
	if err := s.ready(ctx); err != nil {
		return false, err
	}

	var allowed bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(minterBucket))
		if bucket == nil {
			return fmt.Errorf("minter bucket is missing")
		}
		allowed = bucket.Get([]byte(account)) != nil
		return nil
	})
	return allowed, err
}

// SetMinter grants or revokes the minter role.
func (s *Store) SetMinter(ctx context.Context, account domain.Account, allowed bool) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if account.IsZero() {
		return fmt.Errorf("minter account is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(minterBucket))
		if bucket == nil {
			return fmt.Errorf("minter bucket is missing")
		}
		if allowed {
			return bucket.Put([]byte(account), []byte{1})
		}
		return bucket.Delete([]byte(account))
	})
}

// Minters lists accounts holding the minter role, in key order.
func (s *Store) Minters(ctx context.Context) ([]domain.Account, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}

	var minters []domain.Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(minterBucket))
		if bucket == nil {
			return fmt.Errorf("minter bucket is missing")
		}
		return bucket.ForEach(func(key, _ []byte) error {
			minters = append(minters, domain.Account(key))
			return nil
		})
	})
	return minters, err
}
