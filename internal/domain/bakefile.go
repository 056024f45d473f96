package domain

import (
	"fmt"
	"strings"
)

// relationSeparator splits the textual relation form "1oz = 25g".
const relationSeparator = " = "

// DefinitionKind tells the two UnitDefinition shapes apart.
type DefinitionKind string

const (
	DefinitionUnconvertible DefinitionKind = "unconvertible"
	DefinitionRelation      DefinitionKind = "relation"
)

// UnitDefinition declares a custom unit.
// Unconvertible definitions only carry Name. Relations carry the raw amount
// texts on each side: NonMetric ("1 cup") and Metric ("240 ml").
type UnitDefinition struct {
	Kind DefinitionKind

	Name string

	NonMetric string
	Metric    string

	// Source is the text the definition was read from, used in errors.
	Source string
	// Path is the bakefile the definition came from (optional).
	Path string
}

// Unconvertible declares a unit with no metric equivalent, e.g. "package".
func Unconvertible(name string) UnitDefinition {
	return UnitDefinition{Kind: DefinitionUnconvertible, Name: name, Source: name}
}

// Relation declares that nonMetric equals metric, e.g. ("1oz", "25g").
func Relation(nonMetric, metric string) UnitDefinition {
	return UnitDefinition{
		Kind:      DefinitionRelation,
		NonMetric: nonMetric,
		Metric:    metric,
		Source:    fmt.Sprintf("[%q, %q]", nonMetric, metric),
	}
}

// ParseUnitDefinition reads the scalar form of a definition: either a bare
// unit name or "<non-metric amount> = <metric amount>".
func ParseUnitDefinition(s string) (UnitDefinition, error) {
	if strings.Contains(s, relationSeparator) {
		parts := strings.Split(s, relationSeparator)
		if len(parts) != 2 {
			return UnitDefinition{}, invalidDefinition(s, fmt.Sprintf("expected exactly one %q", relationSeparator))
		}
		def := Relation(parts[0], parts[1])
		def.Source = s
		return def, nil
	}

	name := strings.TrimSpace(s)
	if name == "" {
		return UnitDefinition{}, invalidDefinition(s, "unit name is empty")
	}
	if strings.Contains(name, "=") {
		return UnitDefinition{}, invalidDefinition(s, fmt.Sprintf("relations must use %q as separator", relationSeparator))
	}
	if _, ok := ParseAmount(name); ok {
		return UnitDefinition{}, invalidDefinition(s, "a unit name must not be an amount; pairs must be nested in the units list")
	}
	return Unconvertible(name), nil
}

// String renders the definition in its scalar form.
func (d UnitDefinition) String() string {
	if d.Kind == DefinitionRelation {
		return d.NonMetric + relationSeparator + d.Metric
	}
	return d.Name
}

// Bakefile is a recipe project's unit declarations.
type Bakefile struct {
	Name  string
	Units []UnitDefinition

	// Path is where the bakefile was read from (optional).
	Path string
}

// BakefileRef is a lightweight reference to a bakefile on disk.
type BakefileRef struct {
	Name string
	Path string
}

// MergeBakefiles combines bakefiles in order: the first non-empty name wins
// and unit definitions are concatenated. Conflicts between files are left to
// the registry build.
func MergeBakefiles(files ...Bakefile) Bakefile {
	out := Bakefile{}
	for _, f := range files {
		if out.Name == "" && strings.TrimSpace(f.Name) != "" {
			out.Name = f.Name
		}
		out.Units = append(out.Units, f.Units...)
	}
	if len(files) == 1 {
		out.Path = files[0].Path
	}
	return out
}

func invalidDefinition(source, msg string) error {
	return &OpError{
		Op:   "bakefile.parse_unit",
		Kind: KindInvalidUnitRelation,
		Err:  fmt.Errorf("%q: %s: %w", source, msg, ErrInvalidUnitRelation),
	}
}
