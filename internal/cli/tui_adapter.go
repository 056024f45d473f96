package cli

import (
	"context"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/ui/tui"
)

// registryLoader builds the registry for the TUI the same way the
// subcommands do.
type registryLoader struct{}

func (registryLoader) LoadRegistry(ctx context.Context, root string) (*domain.Registry, []domain.BakefileRef, error) {
	ws, err := loadWorkspace(root)
	if err != nil {
		return nil, nil, err
	}
	res, err := ws.build(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return res.Registry, res.Files, nil
}

var _ tui.RegistryLoader = registryLoader{}
