package yamlbakefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
	"gopkg.in/yaml.v3"
)

type Loader struct {
	defaultPatterns []string
}

func NewLoader(opts ...Option) *Loader {
	l := &Loader{defaultPatterns: []string{"bakefile.yaml"}}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type Option func(*Loader)

// WithDefaultPatterns sets the patterns used when ListBakefiles gets none.
func WithDefaultPatterns(patterns ...string) Option {
	return func(l *Loader) {
		if len(patterns) > 0 {
			l.defaultPatterns = patterns
		}
	}
}

var _ ports.BakefileLoader = (*Loader)(nil)

func (l *Loader) LoadBakefile(path string) (domain.Bakefile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Bakefile{}, &domain.OpError{
			Op:   "yamlbakefile.load",
			Kind: domain.KindNotFound,
			Path: path,
			Err:  err,
		}
	}

	var yb yamlBakefile
	if err := yaml.Unmarshal(b, &yb); err != nil {
		return domain.Bakefile{}, &domain.OpError{
			Op:   "yamlbakefile.load",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  err,
		}
	}

	return mapAndValidate(path, yb)
}

// ListBakefiles expands patterns (paths or globs relative to root) in order.
// Plain paths must exist; globs may match nothing. Duplicates are dropped.
func (l *Loader) ListBakefiles(root string, patterns []string) ([]domain.BakefileRef, error) {
	if len(patterns) == 0 {
		patterns = l.defaultPatterns
	}

	seen := map[string]bool{}
	var refs []domain.BakefileRef
	for _, pattern := range patterns {
		p := pattern
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}

		var matches []string
		if hasGlobMeta(pattern) {
			m, err := filepath.Glob(p)
			if err != nil {
				return nil, &domain.OpError{
					Op:   "yamlbakefile.list",
					Kind: domain.KindInvalidConfig,
					Path: pattern,
					Err:  err,
				}
			}
			matches = m
		} else {
			if _, err := os.Stat(p); err != nil {
				return nil, &domain.OpError{
					Op:   "yamlbakefile.list",
					Kind: domain.KindNotFound,
					Path: p,
					Err:  err,
				}
			}
			matches = []string{p}
		}

		for _, m := range matches {
			clean := filepath.Clean(m)
			if seen[clean] {
				continue
			}
			seen[clean] = true

			n, _ := readBakefileName(clean)
			if strings.TrimSpace(n) == "" {
				base := filepath.Base(clean)
				n = strings.TrimSuffix(base, filepath.Ext(base))
			}
			refs = append(refs, domain.BakefileRef{Name: n, Path: clean})
		}
	}

	return refs, nil
}

func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}

func readBakefileName(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var v struct {
		Name string `yaml:"name"`
	}
	if err := yaml.Unmarshal(b, &v); err != nil {
		return "", err
	}
	return v.Name, nil
}

type yamlBakefile struct {
	Name string `yaml:"name"`
	// Units is a single definition or a sequence of them.
	Units yaml.Node `yaml:"units"`
}

func mapAndValidate(path string, yb yamlBakefile) (domain.Bakefile, error) {
	bf := domain.Bakefile{
		Name: strings.TrimSpace(yb.Name),
		Path: path,
	}

	n := &yb.Units
	switch {
	case n.Kind == 0, n.Kind == yaml.ScalarNode && n.Tag == "!!null":
		return bf, nil

	case n.Kind == yaml.ScalarNode:
		def, err := mapScalar(path, "units", n)
		if err != nil {
			return domain.Bakefile{}, err
		}
		bf.Units = []domain.UnitDefinition{def}
		return bf, nil

	case n.Kind == yaml.SequenceNode:
		bf.Units = make([]domain.UnitDefinition, 0, len(n.Content))
		for i, item := range n.Content {
			field := fmt.Sprintf("units[%d]", i)

			var def domain.UnitDefinition
			var err error
			switch item.Kind {
			case yaml.ScalarNode:
				def, err = mapScalar(path, field, item)
			case yaml.SequenceNode:
				def, err = mapPair(path, field, item)
			default:
				err = invalidField(path, field, "expected a unit name, a relation string or a [non-metric, metric] pair")
			}
			if err != nil {
				return domain.Bakefile{}, err
			}
			bf.Units = append(bf.Units, def)
		}
		return bf, nil

	default:
		return domain.Bakefile{}, invalidField(path, "units", "expected a unit definition or a list of them")
	}
}

func mapScalar(path, field string, n *yaml.Node) (domain.UnitDefinition, error) {
	if n.Tag != "!!str" {
		return domain.UnitDefinition{}, invalidField(path, field, fmt.Sprintf("expected a string, got %q", n.Value))
	}
	def, err := domain.ParseUnitDefinition(n.Value)
	if err != nil {
		return domain.UnitDefinition{}, &domain.OpError{
			Op:   "yamlbakefile.validate",
			Kind: domain.KindInvalidUnitRelation,
			Path: path,
			Err:  fmt.Errorf("field %s (line %d): %w", field, n.Line, err),
		}
	}
	def.Path = path
	return def, nil
}

func mapPair(path, field string, n *yaml.Node) (domain.UnitDefinition, error) {
	if len(n.Content) != 2 {
		return domain.UnitDefinition{}, invalidField(path, field, fmt.Sprintf("a pair needs exactly 2 items, got %d", len(n.Content)))
	}
	for i, side := range n.Content {
		if side.Kind != yaml.ScalarNode || side.Tag != "!!str" {
			return domain.UnitDefinition{}, invalidField(path, fmt.Sprintf("%s[%d]", field, i), "expected an amount string")
		}
	}
	def := domain.Relation(n.Content[0].Value, n.Content[1].Value)
	def.Path = path
	return def, nil
}

func invalidField(path, field, msg string) error {
	return &domain.OpError{
		Op:   "yamlbakefile.validate",
		Kind: domain.KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, domain.ErrInvalidConfig),
	}
}
