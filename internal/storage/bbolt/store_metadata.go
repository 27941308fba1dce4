package bbolt

import (
	"context"
	"fmt"
	"strings"

	"github.com/louisbranch/mintage/internal/storage"
	"go.etcd.io/bbolt"
)

// Base returns the collection base metadata string.
func (s *Store) Base(ctx context.Context) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}

	var base string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(metadataBucket))
		if bucket == nil {
			return fmt.Errorf("metadata bucket is missing")
		}
		payload := bucket.Get([]byte(baseKey))
		if payload == nil {
			return storage.ErrNotFound
		}
		base = string(payload)
		return nil
	})
	return base, err
}

// SetBase overwrites the collection base metadata string.
func (s *Store) SetBase(ctx context.Context, base string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(base) == "" {
		return fmt.Errorf("base metadata string is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(metadataBucket))
		if bucket == nil {
			return fmt.Errorf("metadata bucket is missing")
		}
		return bucket.Put([]byte(baseKey), []byte(base))
	})
}

// TokenURI returns the per-token metadata override.
func (s *Store) TokenURI(ctx context.Context, tokenID uint64) (string, error) {
	if err := s.ready(ctx); err != nil {
		return "", err
	}

	var uri string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenMetadataBucket))
		if bucket == nil {
			return fmt.Errorf("token metadata bucket is missing")
		}
		payload := bucket.Get(tokenKey(tokenID))
		if payload == nil {
			return storage.ErrNotFound
		}
		uri = string(payload)
		return nil
	})
	return uri, err
}

// SetTokenURIs writes overrides pairwise in one transaction.
func (s *Store) SetTokenURIs(ctx context.Context, tokenIDs []uint64, uris []string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if len(tokenIDs) != len(uris) {
		return fmt.Errorf("token ids and uris must have equal length")
	}
	if len(tokenIDs) == 0 {
		return fmt.Errorf("at least one token id is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(tokenMetadataBucket))
		if bucket == nil {
			return fmt.Errorf("token metadata bucket is missing")
		}
		for i, tokenID := range tokenIDs {
			if tokenID == 0 {
				return fmt.Errorf("token id must be positive")
			}
			if err := bucket.Put(tokenKey(tokenID), []byte(uris[i])); err != nil {
				return fmt.Errorf("set uri for token %d: %w", tokenID, err)
			}
		}
		return nil
	})
}
