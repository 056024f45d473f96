package ports

import "github.com/AustinGrey/bake-file/internal/domain"

type WorkspaceInitializer interface {
	Init(spec domain.WorkspaceSpec, force bool) error
}
