package fsworkspace

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
)

type Initializer struct{}

func NewInitializer() *Initializer {
	return &Initializer{}
}

var _ ports.WorkspaceInitializer = (*Initializer)(nil)

// Init writes bake.yaml and a starter bakefile under spec.Root. Existing files
// are kept unless force is set.
func (i *Initializer) Init(spec domain.WorkspaceSpec, force bool) error {
	root := filepath.Clean(spec.Root)

	name := strings.TrimSpace(spec.Name)
	if name == "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return &domain.OpError{Op: "fsworkspace.init", Kind: domain.KindExecution, Path: root, Err: err}
		}
		name = filepath.Base(abs)
	}
	vars := map[string]string{"name": name}

	if err := os.MkdirAll(filepath.Join(root, ".bake", "logs"), 0o755); err != nil {
		return &domain.OpError{Op: "fsworkspace.mkdir", Kind: domain.KindExecution, Path: root, Err: err}
	}

	if err := ensureGitignore(root); err != nil {
		return &domain.OpError{Op: "fsworkspace.gitignore", Kind: domain.KindExecution, Path: root, Err: err}
	}

	return fs.WalkDir(templatesFS, "templates", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel := strings.TrimPrefix(p, "templates/")
		dst := filepath.Join(root, rel)

		if !force {
			if _, statErr := os.Stat(dst); statErr == nil {
				return nil
			}
		}

		b, err := fs.ReadFile(templatesFS, p)
		if err != nil {
			return err
		}
		content, err := renderTemplate(rel, string(b), vars)
		if err != nil {
			return err
		}

		if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
			return &domain.OpError{Op: "fsworkspace.write", Kind: domain.KindExecution, Path: dst, Err: err}
		}
		return nil
	})
}

func ensureGitignore(root string) error {
	const header = "# bake"
	entries := []string{
		".bake/",
	}

	path := filepath.Join(root, ".gitignore")
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			lines := append([]string{header}, entries...)
			lines = append(lines, "")
			return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644)
		}
		return err
	}

	existing := string(b)
	present := map[string]bool{}
	for _, line := range strings.Split(existing, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		present[trimmed] = true
	}

	var missing []string
	for _, e := range entries {
		if !present[e] {
			missing = append(missing, e)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	var out strings.Builder
	out.Grow(len(existing) + 32)

	out.WriteString(existing)
	if existing != "" && !strings.HasSuffix(existing, "\n") {
		out.WriteByte('\n')
	}
	out.WriteByte('\n')
	if !present[header] {
		out.WriteString(header)
		out.WriteByte('\n')
	}
	for _, e := range missing {
		out.WriteString(e)
		out.WriteByte('\n')
	}

	return os.WriteFile(path, []byte(out.String()), 0o644)
}
