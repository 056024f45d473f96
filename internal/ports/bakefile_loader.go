package ports

import "github.com/AustinGrey/bake-file/internal/domain"

// BakefileLoader loads bakefiles from a source (e.g., filesystem).
type BakefileLoader interface {
	LoadBakefile(path string) (domain.Bakefile, error)
	ListBakefiles(root string, patterns []string) ([]domain.BakefileRef, error)
}
