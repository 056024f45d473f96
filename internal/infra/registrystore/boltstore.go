// Package registrystore persists registry snapshots for the scaling engine.
// The default backend is a bbolt file with msgpack values; a path ending in
// .json selects a plain JSON document instead.
package registrystore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"
)

var bucketSnapshots = []byte("snapshots")

// defaultName keys snapshots saved without a name.
const defaultName = "default"

type BoltStore struct {
	db   *bolt.DB
	path string
	now  func() time.Time
}

type Option func(*storeOptions)

type storeOptions struct {
	now func() time.Time
}

// WithNow is useful for tests.
func WithNow(now func() time.Time) Option {
	return func(o *storeOptions) { o.now = now }
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

var _ ports.RegistryStore = (*BoltStore)(nil)

// NewBoltStore opens (or creates) a bbolt database at path.
func NewBoltStore(path string, opts ...Option) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &domain.OpError{
			Op:   "registrystore.mkdir",
			Kind: domain.KindExecution,
			Path: path,
			Err:  err,
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &domain.OpError{
			Op:   "registrystore.open",
			Kind: domain.KindExecution,
			Path: path,
			Err:  fmt.Errorf("bbolt open: %w", err),
		}
	}

	o := buildOptions(opts)
	return &BoltStore{db: db, path: path, now: o.now}, nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SaveSnapshot stores snap under its name, replacing any earlier snapshot
// with that name. A fresh ID is assigned on every save.
func (s *BoltStore) SaveSnapshot(snap domain.RegistrySnapshot) (string, error) {
	snap = stamp(snap, s.now)

	b, err := msgpack.Marshal(toDTO(snap))
	if err != nil {
		return "", &domain.OpError{
			Op:   "registrystore.marshal",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		bk, err := tx.CreateBucketIfNotExists(bucketSnapshots)
		if err != nil {
			return err
		}
		return bk.Put([]byte(snap.Name), b)
	})
	if err != nil {
		return "", &domain.OpError{
			Op:   "registrystore.save",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return snap.ID, nil
}

func (s *BoltStore) LoadSnapshot(name string) (domain.RegistrySnapshot, error) {
	key := snapshotKey(name)

	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketSnapshots)
		if bk == nil {
			return nil
		}
		// bbolt slices are only valid inside the transaction.
		if v := bk.Get([]byte(key)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	if err != nil {
		return domain.RegistrySnapshot{}, &domain.OpError{
			Op:   "registrystore.load",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	if raw == nil {
		return domain.RegistrySnapshot{}, notFound(s.path, key)
	}

	var dto snapshotDTO
	if err := msgpack.Unmarshal(raw, &dto); err != nil {
		return domain.RegistrySnapshot{}, corrupt(s.path, key, err)
	}
	snap, err := fromDTO(dto)
	if err != nil {
		return domain.RegistrySnapshot{}, corrupt(s.path, key, err)
	}
	return snap, nil
}

// ListSnapshots returns the stored snapshot names in key order.
func (s *BoltStore) ListSnapshots() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bolt.Tx) error {
		bk := tx.Bucket(bucketSnapshots)
		if bk == nil {
			return nil
		}
		return bk.ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, &domain.OpError{
			Op:   "registrystore.list",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return names, nil
}

// Open picks the backend for path: .json gets a JSONStore, anything else a
// BoltStore. Relative paths resolve against root.
func Open(root, path string, opts ...Option) (ports.RegistryStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, &domain.OpError{
			Op:   "registrystore.open",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("store path is empty: %w", domain.ErrInvalidConfig),
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONStore(path, opts...), nil
	}
	return NewBoltStore(path, opts...)
}

func stamp(snap domain.RegistrySnapshot, now func() time.Time) domain.RegistrySnapshot {
	snap.Name = snapshotKey(snap.Name)
	snap.ID = uuid.NewString()
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = now()
	}
	snap.CreatedAt = snap.CreatedAt.UTC()
	return snap
}

func snapshotKey(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultName
	}
	return name
}

func notFound(path, name string) error {
	return &domain.OpError{
		Op:   "registrystore.load",
		Kind: domain.KindNotFound,
		Path: path,
		Err:  fmt.Errorf("snapshot %q: %w", name, domain.ErrNotFound),
	}
}

func corrupt(path, name string, err error) error {
	return &domain.OpError{
		Op:   "registrystore.decode",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  errors.Join(fmt.Errorf("snapshot %q is unreadable", name), err),
	}
}
