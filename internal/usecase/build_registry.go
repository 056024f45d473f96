package usecase

import (
	"context"
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/infra/logger"
	"github.com/AustinGrey/bake-file/internal/ports"
)

// BuildResult is a validated registry together with the bakefiles it came
// from.
type BuildResult struct {
	Files    []domain.BakefileRef
	Bakefile domain.Bakefile
	Registry *domain.Registry
}

type BuildRegistry struct {
	bakefiles ports.BakefileLoader
}

func NewBuildRegistry(bl ports.BakefileLoader) *BuildRegistry {
	return &BuildRegistry{bakefiles: bl}
}

// Execute loads the bakefiles named by patterns (cfg.Bakefiles when empty),
// merges them in order and builds the registry with cfg's prefix table and
// tolerance.
func (uc *BuildRegistry) Execute(ctx context.Context, root string, cfg domain.Config, patterns []string) (BuildResult, error) {
	log := logger.Component("usecase.build")
	start := time.Now()

	if len(patterns) == 0 {
		patterns = cfg.Bakefiles
	}

	opts, err := cfg.RegistryOptions()
	if err != nil {
		return BuildResult{}, err
	}

	refs, err := uc.bakefiles.ListBakefiles(root, patterns)
	if err != nil {
		return BuildResult{}, err
	}
	if len(refs) == 0 {
		return BuildResult{}, &domain.OpError{
			Op:   "usecase.build",
			Kind: domain.KindNotFound,
			Path: root,
			Err:  domain.ErrNotFound,
		}
	}

	files := make([]domain.Bakefile, 0, len(refs))
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return BuildResult{}, err
		}
		bf, err := uc.bakefiles.LoadBakefile(ref.Path)
		if err != nil {
			log.Debug("bakefile.load_failed", "path", ref.Path, "err", err)
			return BuildResult{}, err
		}
		files = append(files, bf)
	}

	merged := domain.MergeBakefiles(files...)
	reg, err := domain.BuildRegistry(merged.Units, opts...)
	if err != nil {
		log.Debug("registry.build_failed", "files", len(files), "err", err)
		return BuildResult{}, err
	}

	log.Info("registry.built",
		"files", len(files),
		"definitions", len(merged.Units),
		"records", len(reg.Records()),
		"unconvertible", len(reg.Unconvertible()),
		"prefixes", string(cfg.Prefixes),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return BuildResult{Files: refs, Bakefile: merged, Registry: reg}, nil
}
