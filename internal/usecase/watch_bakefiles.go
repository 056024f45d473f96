package usecase

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
)

// WatchBakefiles rebuilds the registry every time a bakefile changes.
type WatchBakefiles struct {
	build   *BuildRegistry
	watcher ports.Watcher
}

func NewWatchBakefiles(build *BuildRegistry, w ports.Watcher) *WatchBakefiles {
	return &WatchBakefiles{build: build, watcher: w}
}

// Run builds once, reports the outcome, then watches the resolved bakefiles
// and reports every rebuild until ctx is done. Glob patterns are watched as
// patterns, so a file that starts matching one later triggers a rebuild and
// joins the registry. Only a failure to list the bakefiles or start the
// watcher is returned; build errors go to onResult.
func (uc *WatchBakefiles) Run(ctx context.Context, root string, cfg domain.Config, patterns []string, onResult func(BuildResult, error)) error {
	res, err := uc.build.Execute(ctx, root, cfg, patterns)
	onResult(res, err)

	if len(patterns) == 0 {
		patterns = cfg.Bakefiles
	}
	paths, err := uc.watchList(root, patterns)
	if err != nil {
		return err
	}

	changes := make(chan string, 1)
	err = uc.watcher.Watch(paths, func(path string) {
		select {
		case changes <- path:
		default:
			// A rebuild is already pending.
		}
	})
	if err != nil {
		return err
	}
	defer uc.watcher.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case path := <-changes:
			res, err := uc.build.Execute(ctx, root, cfg, patterns)
			onResult(res, domain.WithPath(err, filepath.Clean(path)))
		}
	}
}

// watchList returns the files currently matched by patterns plus every glob
// pattern made absolute against root.
func (uc *WatchBakefiles) watchList(root string, patterns []string) ([]string, error) {
	refs, err := uc.build.bakefiles.ListBakefiles(root, patterns)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(refs)+len(patterns))
	for _, r := range refs {
		paths = append(paths, r.Path)
	}
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[") {
			continue
		}
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
