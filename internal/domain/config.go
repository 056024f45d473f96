package domain

// Config represents the workspace configuration loaded from bake.yaml.
type Config struct {
	// Bakefiles are paths or globs relative to the workspace root, merged in
	// order.
	Bakefiles []string
	Prefixes  PrefixSet
	Tolerance float64
	Paths     PathsConfig
}

type PathsConfig struct {
	Store string
}

// DefaultConfig provides sane defaults if bake.yaml is partially missing.
func DefaultConfig() Config {
	return Config{
		Bakefiles: []string{"bakefile.yaml"},
		Prefixes:  PrefixesFull,
		Tolerance: DefaultTolerance,
		Paths: PathsConfig{
			Store: ".bake/registry.db",
		},
	}
}

// RegistryOptions turns the config into BuildRegistry options.
func (c Config) RegistryOptions() ([]RegistryOption, error) {
	table, err := PrefixTableFor(c.Prefixes)
	if err != nil {
		return nil, err
	}
	return []RegistryOption{
		WithPrefixTable(table),
		WithTolerance(c.Tolerance),
	}, nil
}

// WorkspaceSpec describes where to scaffold a new workspace.
type WorkspaceSpec struct {
	Root string
	Name string
}
