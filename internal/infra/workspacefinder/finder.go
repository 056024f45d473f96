package workspacefinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
)

// Finder walks upward from a directory or bakefile to the nearest directory
// holding a bake.yaml file.
type Finder struct {
	configFile string
	// ceiling, when set, is the last directory searched.
	ceiling string
}

type FinderOption func(*Finder)

// WithCeiling stops the upward search at dir instead of the filesystem root.
func WithCeiling(dir string) FinderOption {
	return func(f *Finder) {
		if dir != "" {
			f.ceiling = filepath.Clean(dir)
		}
	}
}

func NewFinder(opts ...FinderOption) *Finder {
	f := &Finder{configFile: ConfigFile}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

var _ ports.WorkspaceLocator = (*Finder)(nil)

func (f *Finder) FindRoot(startDir string) (string, error) {
	if startDir == "" {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindInvalidConfig,
			Err:  errors.New("startDir is empty"),
		}
	}

	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", &domain.OpError{
			Op:   "workspacefinder.findroot",
			Kind: domain.KindExecution,
			Path: startDir,
			Err:  err,
		}
	}

	// A bakefile path starts the search in its directory.
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		abs = filepath.Dir(abs)
	}

	for cur := filepath.Clean(abs); ; {
		if isConfigFile(filepath.Join(cur, f.configFile)) {
			return cur, nil
		}

		parent := filepath.Dir(cur)
		if parent == cur || cur == f.ceiling {
			return "", &domain.OpError{
				Op:   "workspacefinder.findroot",
				Kind: domain.KindNotFound,
				Path: abs,
				Err:  fmt.Errorf("no %s in %s or any parent: %w", f.configFile, abs, domain.ErrNotFound),
			}
		}
		cur = parent
	}
}

// isConfigFile reports whether path is a regular file; a directory named
// bake.yaml does not mark a workspace.
func isConfigFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
