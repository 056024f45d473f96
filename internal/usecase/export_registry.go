package usecase

import (
	"time"

	"github.com/AustinGrey/bake-file/internal/domain"
	"github.com/AustinGrey/bake-file/internal/infra/logger"
	"github.com/AustinGrey/bake-file/internal/ports"
)

type ExportRegistry struct {
	store ports.RegistryStore
	now   func() time.Time
}

type ExportOption func(*ExportRegistry)

// WithClock is useful for tests.
func WithClock(now func() time.Time) ExportOption {
	return func(uc *ExportRegistry) {
		if now != nil {
			uc.now = now
		}
	}
}

func NewExportRegistry(store ports.RegistryStore, opts ...ExportOption) *ExportRegistry {
	uc := &ExportRegistry{store: store, now: time.Now}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Execute saves reg under name and returns the stored snapshot ID.
func (uc *ExportRegistry) Execute(name string, reg *domain.Registry) (string, error) {
	snap := domain.NewSnapshot(name, reg, uc.now())

	id, err := uc.store.SaveSnapshot(snap)
	if err != nil {
		return "", err
	}

	logger.Component("usecase.export").Info("registry.exported",
		"id", id,
		"name", name,
		"records", len(snap.Records),
	)
	return id, nil
}
