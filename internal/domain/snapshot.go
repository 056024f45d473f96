package domain

import (
	"fmt"
	"time"
)

// RegistrySnapshot is the persisted form of a built registry, as read by the
// recipe-scaling engine.
type RegistrySnapshot struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Prefixes  PrefixSet

	Records       []ConversionRecord
	Unconvertible []string
}

// NewSnapshot captures reg under name. The ID is assigned by the store.
func NewSnapshot(name string, reg *Registry, now time.Time) RegistrySnapshot {
	return RegistrySnapshot{
		Name:          name,
		CreatedAt:     now.UTC(),
		Prefixes:      reg.Prefixes().Set(),
		Records:       reg.Records(),
		Unconvertible: reg.Unconvertible(),
	}
}

// Registry rebuilds a read-only registry from the snapshot.
func (s RegistrySnapshot) Registry() (*Registry, error) {
	table, err := PrefixTableFor(s.Prefixes)
	if err != nil {
		return nil, err
	}

	reg := &Registry{
		prefixes: table,
		records:  make(map[string]ConversionRecord, len(s.Records)),
		declared: make(map[string]struct{}, len(s.Records)+len(s.Unconvertible)),
	}
	for _, rec := range s.Records {
		if !rec.Multiplier.IsPositive() {
			return nil, &OpError{
				Op:   "snapshot.registry",
				Kind: KindInvalidConfig,
				Err:  fmt.Errorf("record %q has non-positive multiplier %s: %w", rec.Unit, rec.Multiplier, ErrInvalidConfig),
			}
		}
		reg.records[rec.Unit] = rec
		reg.declared[rec.Unit] = struct{}{}
	}
	for _, name := range s.Unconvertible {
		reg.declared[name] = struct{}{}
	}
	return reg, nil
}
