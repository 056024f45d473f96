package workspacefinder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFile is the workspace marker and configuration file.
const ConfigFile = "bake.yaml"

// LoadConfig loads bake.yaml from the workspace root and applies defaults.
func LoadConfig(root string) (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path := filepath.Join(root, ConfigFile)
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var y yamlConfig
	if err := yaml.Unmarshal(b, &y); err != nil {
		return cfg, &domain.OpError{
			Op:   "workspacefinder.loadconfig",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	// Apply parsed values on top of defaults.
	if len(y.Bake.Bakefiles) > 0 {
		cfg.Bakefiles = nil
		for i, p := range y.Bake.Bakefiles {
			if strings.TrimSpace(p) == "" {
				return cfg, invalidConfig(path, fmt.Sprintf("bake.bakefiles[%d] is empty", i))
			}
			cfg.Bakefiles = append(cfg.Bakefiles, p)
		}
	}
	if y.Bake.Prefixes != "" {
		set := domain.PrefixSet(strings.TrimSpace(y.Bake.Prefixes))
		if _, err := domain.PrefixTableFor(set); err != nil {
			return cfg, domain.WithPath(err, path)
		}
		cfg.Prefixes = set
	}
	if y.Bake.Tolerance != nil {
		if *y.Bake.Tolerance < 0 {
			return cfg, invalidConfig(path, fmt.Sprintf("bake.tolerance must not be negative, got %v", *y.Bake.Tolerance))
		}
		cfg.Tolerance = *y.Bake.Tolerance
	}
	if y.Bake.Paths.Store != "" {
		cfg.Paths.Store = y.Bake.Paths.Store
	}

	return cfg, nil
}

type yamlConfig struct {
	Bake struct {
		Bakefiles []string `yaml:"bakefiles"`
		Prefixes  string   `yaml:"prefixes"`
		Tolerance *float64 `yaml:"tolerance"`

		Paths struct {
			Store string `yaml:"store"`
		} `yaml:"paths"`
	} `yaml:"bake"`
}

func invalidConfig(path, msg string) error {
	return &domain.OpError{
		Op:   "workspacefinder.loadconfig",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrInvalidConfig),
	}
}
