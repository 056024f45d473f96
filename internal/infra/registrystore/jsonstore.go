package registrystore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
)

// JSONStore keeps every snapshot in one JSON document, handy when the
// registry is checked into version control next to the recipes.
type JSONStore struct {
	path string
	now  func() time.Time

	mu sync.Mutex
}

type jsonDocument struct {
	Snapshots map[string]snapshotDTO `json:"snapshots"`
}

var _ ports.RegistryStore = (*JSONStore)(nil)

func NewJSONStore(path string, opts ...Option) *JSONStore {
	o := buildOptions(opts)
	return &JSONStore{path: path, now: o.now}
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) SaveSnapshot(snap domain.RegistrySnapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}

	snap = stamp(snap, s.now)
	doc.Snapshots[snap.Name] = toDTO(snap)

	if err := s.write(doc); err != nil {
		return "", err
	}
	return snap.ID, nil
}

func (s *JSONStore) LoadSnapshot(name string) (domain.RegistrySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return domain.RegistrySnapshot{}, err
	}

	key := snapshotKey(name)
	dto, ok := doc.Snapshots[key]
	if !ok {
		return domain.RegistrySnapshot{}, notFound(s.path, key)
	}
	snap, err := fromDTO(dto)
	if err != nil {
		return domain.RegistrySnapshot{}, corrupt(s.path, key, err)
	}
	return snap, nil
}

// ListSnapshots returns the stored snapshot names sorted.
func (s *JSONStore) ListSnapshots() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(doc.Snapshots))
	for n := range doc.Snapshots {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

// read returns an empty document when the file does not exist yet.
func (s *JSONStore) read() (jsonDocument, error) {
	doc := jsonDocument{Snapshots: map[string]snapshotDTO{}}

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, &domain.OpError{
			Op:   "registrystore.read",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	if err := json.Unmarshal(b, &doc); err != nil {
		return doc, &domain.OpError{
			Op:   "registrystore.decode",
			Kind: domain.KindInvalidConfig,
			Path: s.path,
			Err:  err,
		}
	}
	if doc.Snapshots == nil {
		doc.Snapshots = map[string]snapshotDTO{}
	}
	return doc, nil
}

func (s *JSONStore) write(doc jsonDocument) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &domain.OpError{
			Op:   "registrystore.mkdir",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return &domain.OpError{
			Op:   "registrystore.marshal",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}

	// Atomic-ish write: tmp then rename.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(b, '\n'), 0o600); err != nil {
		return &domain.OpError{
			Op:   "registrystore.write",
			Kind: domain.KindExecution,
			Path: tmp,
			Err:  err,
		}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return &domain.OpError{
			Op:   "registrystore.rename",
			Kind: domain.KindExecution,
			Path: s.path,
			Err:  err,
		}
	}
	return nil
}
