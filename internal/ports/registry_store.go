package ports

import "github.com/AustinGrey/bake-file/internal/domain"

// RegistryStore persists resolved registries for the recipe-scaling engine.
type RegistryStore interface {
	SaveSnapshot(snap domain.RegistrySnapshot) (id string, err error)
	LoadSnapshot(name string) (domain.RegistrySnapshot, error)
	ListSnapshots() ([]string, error)
	Close() error
}
