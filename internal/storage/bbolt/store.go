// Package bbolt provides a BoltDB-backed collection store. Every mutating
// method performs its writes inside a single update transaction, so a failed
// call leaves no partial state behind.
package bbolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/mintage/internal/collection/domain"
	"github.com/louisbranch/mintage/internal/storage"
	"go.etcd.io/bbolt"
)

const (
	settingsBucket      = "settings"
	ledgerBucket        = "ledger"
	balanceBucket       = "balances"
	policyBucket        = "policy"
	tokenPolicyBucket   = "policy_tokens"
	metadataBucket      = "metadata"
	tokenMetadataBucket = "metadata_tokens"
	minterBucket        = "minters"
)

const (
	settingsKey = "settings"
	defaultKey  = "default"
	baseKey     = "base"
)

// Store provides a BoltDB-backed collection store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Settings returns the collection settings record.
func (s *Store) Settings(ctx context.Context) (domain.Settings, error) {
	if err := s.ready(ctx); err != nil {
		return domain.Settings{}, err
	}

	var settings domain.Settings
	err := s.db.View(func(tx *bbolt.Tx) error {
		loaded, err := readSettings(tx)
		if err != nil {
			return err
		}
		settings = loaded
		return nil
	})
	return settings, err
}

// PutSettings overwrites the collection settings record.
func (s *Store) PutSettings(ctx context.Context, settings domain.Settings) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	if settings.Owner.IsZero() {
		return fmt.Errorf("collection owner is required")
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		return writeSettings(tx, settings)
	})
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) ensureBuckets() error {
	buckets := []string{
		settingsBucket,
		ledgerBucket,
		balanceBucket,
		policyBucket,
		tokenPolicyBucket,
		metadataBucket,
		tokenMetadataBucket,
		minterBucket,
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func readSettings(tx *bbolt.Tx) (domain.Settings, error) {
	bucket := tx.Bucket([]byte(settingsBucket))
	if bucket == nil {
		return domain.Settings{}, fmt.Errorf("settings bucket is missing")
	}
	payload := bucket.Get([]byte(settingsKey))
	if payload == nil {
		return domain.Settings{}, storage.ErrNotFound
	}
	var settings domain.Settings
	if err := json.Unmarshal(payload, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func writeSettings(tx *bbolt.Tx, settings domain.Settings) error {
	bucket := tx.Bucket([]byte(settingsBucket))
	if bucket == nil {
		return fmt.Errorf("settings bucket is missing")
	}
	payload, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	return bucket.Put([]byte(settingsKey), payload)
}

// tokenKey encodes token ids big-endian so bucket iteration is id-ordered.
func tokenKey(tokenID uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, tokenID)
	return key
}
