// Package domain contains the quantity model for bakefiles: the SI prefix
// table, the amount grammar, the unit classifier and the custom unit registry.
//
// The domain is persistence-agnostic: it does not depend on YAML parsing,
// bbolt or the filesystem. Infra/adapters map into/from these types.
package domain
