package tui

import (
	"context"
	"log/slog"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ports"
)

// RegistryLoader builds the registry for a workspace root.
type RegistryLoader interface {
	LoadRegistry(ctx context.Context, root string) (*domain.Registry, []domain.BakefileRef, error)
}

type Deps struct {
	WorkspaceLocator     ports.WorkspaceLocator
	WorkspaceInitializer ports.WorkspaceInitializer
	Registry             RegistryLoader

	// StartDir is where the workspace search begins.
	StartDir string

	Logger *slog.Logger
	Debug  bool
}
