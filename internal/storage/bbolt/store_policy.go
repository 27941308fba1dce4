package bbolt

import (
	"context"
	"fmt"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/storage"
	"go.etcd.io/bbolt"
)

// DefaultPolicyKind returns the collection default policy kind.
func (s *Store) DefaultPolicyKind(ctx context.Context) (domain.PolicyKind, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}

	var kind domain.PolicyKind
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(policyBucket))
		if bucket == nil {
			return fmt.Errorf("policy bucket is missing")
		}
		payload := bucket.Get([]byte(defaultKey))
		if payload == nil {
			return storage.ErrNotFound
		}
		kind = domain.PolicyKind(payload)
		return nil
	})
	return kind, err
}

// SetDefaultPolicyKind overwrites the collection default policy.
func (s *Store) SetDefaultPolicyKind(ctx context.Context, kind domain.PolicyKind) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if kind == "" {
		return fmt.Errorf("policy kind is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(policyBucket))
		if bucket == nil {
			return fmt.Errorf("policy bucket is missing")
		}
		return bucket.Put([]byte(defaultKey), []byte(kind))
	})
}

// TokenPolicyKind returns the per-token override kind.
func (s *Store) TokenPolicyKind(ctx context.Context, tokenID uint64) (domain.PolicyKind, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}

	var kind domain.PolicyKind
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenPolicyBucket))
		if bucket == nil {
			return fmt.Errorf("token policy bucket is missing")
		}
		payload := bucket.Get(tokenKey(tokenID))
		if payload == nil {
			return storage.ErrNotFound
		}
		kind = domain.PolicyKind(payload)
		return nil
	})
	return kind, err
}

// SetTokenPolicyKinds writes the same override kind for every id in one
// transaction.
func (s *Store) SetTokenPolicyKinds(ctx context.Context, tokenIDs []uint64, kind domain.PolicyKind) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if kind == "" {
		return fmt.Errorf("policy kind is required")
	}
	if len(tokenIDs) == 0 {
		return fmt.Errorf("at least one token id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenPolicyBucket))
		if bucket == nil {
			return fmt.Errorf("token policy bucket is missing")
		}
		for _, tokenID := range tokenIDs {
			if tokenID == 0 {
				return fmt.Errorf("token id must be positive")
			}
			if err := bucket.Put(tokenKey(tokenID), []byte(kind)); err != nil {
				return fmt.Errorf("set policy for token %d: %w", tokenID, err)
			}
		}
		return nil
	})
}
