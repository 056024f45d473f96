package workspacefinder

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AustinGrey/bake-file/internal/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "ws")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "bake.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadConfig_AppliesDefaults(t *testing.T) {
	// Partial config (only prefixes)
	root := writeConfig(t, "bake:\n  prefixes: reduced\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Prefixes != domain.PrefixesReduced {
		t.Fatalf("expected prefixes=reduced, got=%s", cfg.Prefixes)
	}
	if len(cfg.Bakefiles) != 1 || cfg.Bakefiles[0] != "bakefile.yaml" {
		t.Fatalf("expected default bakefiles, got=%v", cfg.Bakefiles)
	}
	if cfg.Tolerance != domain.DefaultTolerance {
		t.Fatalf("expected default tolerance, got=%v", cfg.Tolerance)
	}
	if cfg.Paths.Store != ".bake/registry.db" {
		t.Fatalf("expected default store, got=%s", cfg.Paths.Store)
	}
}

func TestLoadConfig_AllFields(t *testing.T) {
	root := writeConfig(t, `
bake:
  bakefiles:
    - bakefile.yaml
    - units/*.yaml
  prefixes: full
  tolerance: 0
  paths:
    store: out/units.json
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if len(cfg.Bakefiles) != 2 || cfg.Bakefiles[1] != "units/*.yaml" {
		t.Fatalf("unexpected bakefiles: %v", cfg.Bakefiles)
	}
	if cfg.Tolerance != 0 {
		t.Fatalf("expected explicit zero tolerance, got=%v", cfg.Tolerance)
	}
	if cfg.Paths.Store != "out/units.json" {
		t.Fatalf("unexpected store: %s", cfg.Paths.Store)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown prefixes":   "bake:\n  prefixes: imperial\n",
		"negative tolerance": "bake:\n  tolerance: -1\n",
		"empty bakefile":     "bake:\n  bakefiles: [\"\"]\n",
		"malformed":          "bake: [\n",
	}

	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			root := writeConfig(t, content)
			_, err := LoadConfig(root)
			if !domain.IsKind(err, domain.KindInvalidConfig) {
				t.Fatalf("expected invalid_config, got: %v", err)
			}
		})
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if !domain.IsKind(err, domain.KindNotFound) {
		t.Fatalf("expected not_found, got: %v", err)
	}
	if cfg.Prefixes != domain.PrefixesFull {
		t.Fatalf("expected defaults alongside the error, got=%+v", cfg)
	}
}
