package usecase

import (
	"errors"
	"sync"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
)

type fakeBakefileLoader struct {
	files map[string]domain.Bakefile
	order []string
	loads int
}

func newFakeLoader(files ...domain.Bakefile) *fakeBakefileLoader {
	l := &fakeBakefileLoader{files: map[string]domain.Bakefile{}}
	for _, f := range files {
		l.files[f.Path] = f
		l.order = append(l.order, f.Path)
	}
	return l
}

func (l *fakeBakefileLoader) LoadBakefile(path string) (domain.Bakefile, error) {
	l.loads++
	bf, ok := l.files[path]
	if !ok {
		return domain.Bakefile{}, &domain.OpError{Op: "fake.load", Kind: domain.KindNotFound, Path: path, Err: domain.ErrNotFound}
	}
	return bf, nil
}

func (l *fakeBakefileLoader) ListBakefiles(_ string, _ []string) ([]domain.BakefileRef, error) {
	refs := make([]domain.BakefileRef, 0, len(l.order))
	for _, p := range l.order {
		refs = append(refs, domain.BakefileRef{Name: l.files[p].Name, Path: p})
	}
	return refs, nil
}

type errBakefileLoader struct{ err error }

func (l errBakefileLoader) LoadBakefile(string) (domain.Bakefile, error) {
	return domain.Bakefile{}, l.err
}

func (l errBakefileLoader) ListBakefiles(string, []string) ([]domain.BakefileRef, error) {
	return nil, l.err
}

type fakeStore struct {
	saved []domain.RegistrySnapshot
}

func (s *fakeStore) SaveSnapshot(snap domain.RegistrySnapshot) (string, error) {
	s.saved = append(s.saved, snap)
	return "snap-1", nil
}

func (s *fakeStore) LoadSnapshot(name string) (domain.RegistrySnapshot, error) {
	for i := len(s.saved) - 1; i >= 0; i-- {
		if s.saved[i].Name == name {
			return s.saved[i], nil
		}
	}
	return domain.RegistrySnapshot{}, &domain.OpError{Op: "fake.load", Kind: domain.KindNotFound, Err: domain.ErrNotFound}
}

func (s *fakeStore) ListSnapshots() ([]string, error) { return nil, nil }

func (s *fakeStore) Close() error { return nil }

type errStore struct{ err error }

func (s errStore) SaveSnapshot(domain.RegistrySnapshot) (string, error) { return "", s.err }
func (s errStore) LoadSnapshot(string) (domain.RegistrySnapshot, error) {
	return domain.RegistrySnapshot{}, s.err
}
func (s errStore) ListSnapshots() ([]string, error) { return nil, s.err }
func (s errStore) Close() error                     { return nil }

// fakeWatcher lets tests fire change events by hand.
type fakeWatcher struct {
	mu       sync.Mutex
	paths    []string
	onChange func(string)
	started  chan struct{}
	stopped  bool
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{started: make(chan struct{})}
}

func (w *fakeWatcher) Watch(paths []string, onChange func(string)) error {
	if len(paths) == 0 {
		return errors.New("no paths")
	}
	w.mu.Lock()
	w.paths = paths
	w.onChange = onChange
	w.mu.Unlock()
	close(w.started)
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	return nil
}

func (w *fakeWatcher) fire(path string) {
	w.mu.Lock()
	fn := w.onChange
	w.mu.Unlock()
	fn(path)
}

var (
	_ ports.BakefileLoader = (*fakeBakefileLoader)(nil)
	_ ports.RegistryStore  = (*fakeStore)(nil)
	_ ports.Watcher        = (*fakeWatcher)(nil)
)
