package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/infra/registrystore"
	"github.com/AustinGrey/bake-file/internal/infra/workspacefinder"
	"github.com/AustinGrey/bake-file/internal/infra/yamlbakefile"
	"github.com/AustinGrey/bake-file/internal/ports"
	"github.com/AustinGrey/bake-file/internal/usecase"
)

type workspaceCtx struct {
	root string
	cfg  domain.Config

	bakefiles ports.BakefileLoader
}

func loadWorkspace(workspaceFlag string) (*workspaceCtx, error) {
	root, err := resolveWorkspaceRoot(workspaceFlag)
	if err != nil {
		return nil, err
	}

	cfg, err := workspacefinder.LoadConfig(root)
	if err != nil {
		return nil, err
	}

	return &workspaceCtx{
		root:      root,
		cfg:       cfg,
		bakefiles: yamlbakefile.NewLoader(yamlbakefile.WithDefaultPatterns(cfg.Bakefiles...)),
	}, nil
}

func (ws *workspaceCtx) build(ctx context.Context, files []string) (usecase.BuildResult, error) {
	patterns, err := resolveBakefileArgs(ws, files)
	if err != nil {
		return usecase.BuildResult{}, err
	}
	return usecase.NewBuildRegistry(ws.bakefiles).Execute(ctx, ws.root, ws.cfg, patterns)
}

func (ws *workspaceCtx) openStore() (ports.RegistryStore, error) {
	return registrystore.Open(ws.root, ws.cfg.Paths.Store)
}

// storePath is the store location as shown to users.
func (ws *workspaceCtx) storePath() string {
	if filepath.IsAbs(ws.cfg.Paths.Store) {
		return ws.cfg.Paths.Store
	}
	return filepath.Join(ws.root, ws.cfg.Paths.Store)
}

func resolveWorkspaceRoot(workspaceFlag string) (string, error) {
	w := strings.TrimSpace(workspaceFlag)
	if w != "" {
		abs, err := filepath.Abs(w)
		if err != nil {
			return "", fmt.Errorf("invalid workspace path: %w", err)
		}
		return abs, nil
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	locator := workspacefinder.NewFinder()
	root, err := locator.FindRoot(wd)
	if err != nil {
		return "", fmt.Errorf("workspace not found from %q (tip: run `bake init`): %w", wd, err)
	}
	return root, nil
}

// resolveBakefileArgs turns -f values into patterns for the loader. Paths and
// globs pass through; a bare name like "pastry" resolves to pastry.yaml or
// pastry.yml at the workspace root.
func resolveBakefileArgs(ws *workspaceCtx, files []string) ([]string, error) {
	out := make([]string, 0, len(files))
	for _, f := range files {
		in := strings.TrimSpace(f)
		if in == "" {
			return nil, fmt.Errorf("bakefile path is empty")
		}

		if looksLikePath(in) || hasYAMLExt(in) || strings.ContainsAny(in, "*?[") {
			out = append(out, in)
			continue
		}

		found := ""
		for _, ext := range []string{".yaml", ".yml"} {
			if p := filepath.Join(ws.root, in+ext); fileExists(p) {
				found = p
				break
			}
		}
		if found == "" {
			return nil, fmt.Errorf("bakefile %q not found in %q", in, ws.root)
		}
		out = append(out, found)
	}
	return out, nil
}

func looksLikePath(s string) bool {
	return strings.Contains(s, "/") || strings.Contains(s, string(filepath.Separator))
}

func hasYAMLExt(s string) bool {
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
