package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the relative difference under which two declarations of
// the same unit are considered equal.
const DefaultTolerance = 0.001

// ConversionRecord relates one custom unit to grams or liters.
type ConversionRecord struct {
	Unit      string
	Dimension Dimension
	// Multiplier converts one Unit into the dimension's base unit.
	Multiplier decimal.Decimal
	// Via is the custom unit the relation was declared against, empty when
	// declared directly against a metric amount.
	Via string
}

// MultiplierFloat returns Multiplier as a float64.
func (r ConversionRecord) MultiplierFloat() float64 {
	f, _ := r.Multiplier.Float64()
	return f
}

// BaseAmount is an amount expressed in grams or liters.
type BaseAmount struct {
	Value     decimal.Decimal
	Dimension Dimension
}

func (b BaseAmount) String() string {
	return b.Value.String() + " " + b.Dimension.BaseUnit()
}

// Registry resolves custom unit names to conversion records. It is immutable
// after BuildRegistry and safe for concurrent reads.
type Registry struct {
	prefixes *PrefixTable
	records  map[string]ConversionRecord
	declared map[string]struct{}
}

type registryConfig struct {
	prefixes  *PrefixTable
	tolerance decimal.Decimal
}

// RegistryOption configures BuildRegistry.
type RegistryOption func(*registryConfig)

// WithPrefixTable selects the prefix table used to read metric amounts.
func WithPrefixTable(t *PrefixTable) RegistryOption {
	return func(c *registryConfig) {
		if t != nil {
			c.prefixes = t
		}
	}
}

// WithTolerance overrides the relative tolerance for repeated declarations.
func WithTolerance(tol float64) RegistryOption {
	return func(c *registryConfig) {
		if tol >= 0 {
			c.tolerance = decimal.NewFromFloat(tol)
		}
	}
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

type relation struct {
	index int
	def   UnitDefinition
	unit  string
	qty   decimal.Decimal
	rhs   Amount
	class Unit
}

type registryBuilder struct {
	cfg       registryConfig
	relations map[string][]relation
	order     []string
	declared  map[string]struct{}
	records   map[string]ConversionRecord
	state     map[string]visitState
}

// BuildRegistry validates defs and resolves every relation into a
// ConversionRecord. Validation is eager: the first invalid definition aborts
// the build and no partial registry is returned.
func BuildRegistry(defs []UnitDefinition, opts ...RegistryOption) (*Registry, error) {
	cfg := registryConfig{
		prefixes:  FullPrefixes,
		tolerance: decimal.NewFromFloat(DefaultTolerance),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	b := &registryBuilder{
		cfg:       cfg,
		relations: map[string][]relation{},
		declared:  map[string]struct{}{},
		records:   map[string]ConversionRecord{},
		state:     map[string]visitState{},
	}

	for i, def := range defs {
		if err := b.add(i, def); err != nil {
			return nil, err
		}
	}

	for _, unit := range b.order {
		if _, err := b.resolve(unit, nil); err != nil {
			return nil, err
		}
	}

	return &Registry{
		prefixes: cfg.prefixes,
		records:  b.records,
		declared: b.declared,
	}, nil
}

func (b *registryBuilder) add(i int, def UnitDefinition) error {
	switch def.Kind {
	case DefinitionUnconvertible:
		name := strings.TrimSpace(def.Name)
		if name == "" {
			return relationErr(i, def, "unit name is empty", nil)
		}
		if c := b.cfg.prefixes.Classify(name); c.Class != ClassNonMetric {
			return relationErr(i, def, fmt.Sprintf("%q is already a %s unit", name, c.Class), nil)
		}
		b.declared[name] = struct{}{}
		return nil

	case DefinitionRelation:
		rel, err := b.parseRelation(i, def)
		if err != nil {
			return err
		}
		if _, seen := b.relations[rel.unit]; !seen {
			b.order = append(b.order, rel.unit)
		}
		b.relations[rel.unit] = append(b.relations[rel.unit], rel)
		b.declared[rel.unit] = struct{}{}
		return nil

	default:
		return relationErr(i, def, fmt.Sprintf("unknown definition kind %q", def.Kind), nil)
	}
}

func (b *registryBuilder) parseRelation(i int, def UnitDefinition) (relation, error) {
	lhs, ok := ParseAmount(def.NonMetric)
	if !ok {
		return relation{}, relationErr(i, def, fmt.Sprintf("left side %q is not an amount", def.NonMetric), nil)
	}
	if c := b.cfg.prefixes.Classify(lhs.Unit); c.Class != ClassNonMetric {
		return relation{}, relationErr(i, def, fmt.Sprintf("left side %q must use a non-metric unit", def.NonMetric), nil)
	}
	if !lhs.Value.IsPositive() {
		return relation{}, relationErr(i, def, fmt.Sprintf("left side %q must be greater than zero", def.NonMetric), nil)
	}

	rhs, ok := ParseAmount(def.Metric)
	if !ok {
		return relation{}, relationErr(i, def, fmt.Sprintf("right side %q is not an amount", def.Metric), nil)
	}
	if !rhs.Value.IsPositive() {
		return relation{}, relationErr(i, def, fmt.Sprintf("right side %q must be greater than zero", def.Metric), nil)
	}
	class := b.cfg.prefixes.Classify(rhs.Unit)
	if class.Class == ClassIU {
		return relation{}, relationErr(i, def, fmt.Sprintf("right side %q has no mass or volume", def.Metric), nil)
	}

	return relation{
		index: i,
		def:   def,
		unit:  lhs.Unit,
		qty:   lhs.Value,
		rhs:   rhs,
		class: class,
	}, nil
}

// resolve computes the record for unit, following references to other
// custom units depth-first. stack holds the units currently being resolved.
func (b *registryBuilder) resolve(unit string, stack []string) (ConversionRecord, error) {
	switch b.state[unit] {
	case visited:
		return b.records[unit], nil
	case visiting:
		return ConversionRecord{}, cycleErr(b.relations[unit][0], append(stack, unit))
	}

	b.state[unit] = visiting
	stack = append(stack, unit)

	var first ConversionRecord
	var firstRel relation
	for k, rel := range b.relations[unit] {
		rec, err := b.evaluate(rel, stack)
		if err != nil {
			return ConversionRecord{}, err
		}
		if k == 0 {
			first, firstRel = rec, rel
			continue
		}
		if b.conflicts(first, rec) {
			return ConversionRecord{}, conflictErr(firstRel, first, rel, rec)
		}
	}

	b.state[unit] = visited
	b.records[unit] = first
	return first, nil
}

func (b *registryBuilder) evaluate(rel relation, stack []string) (ConversionRecord, error) {
	rec := ConversionRecord{Unit: rel.unit}

	var base decimal.Decimal
	switch rel.class.Class {
	case ClassMetric:
		rec.Dimension = rel.class.Metric.Dimension
		base = rel.rhs.Value.Mul(rel.class.Metric.Factor())

	default:
		ref := rel.rhs.Unit
		if _, ok := b.relations[ref]; !ok {
			return ConversionRecord{}, b.unresolvedRef(rel, ref)
		}
		refRec, err := b.resolve(ref, stack)
		if err != nil {
			return ConversionRecord{}, err
		}
		rec.Dimension = refRec.Dimension
		rec.Via = ref
		base = rel.rhs.Value.Mul(refRec.Multiplier)
	}

	rec.Multiplier = base.Div(rel.qty)
	return rec, nil
}

func (b *registryBuilder) unresolvedRef(rel relation, ref string) error {
	if _, err := b.cfg.prefixes.ParseMetricUnit(ref); IsKind(err, KindUnknownPrefix) {
		return relationErr(rel.index, rel.def, fmt.Sprintf("right side %q is not a metric amount", rel.def.Metric), err)
	}
	if _, ok := b.declared[ref]; ok {
		return relationErr(rel.index, rel.def, fmt.Sprintf("unit %q has no metric equivalent", ref), nil)
	}
	return relationErr(rel.index, rel.def, fmt.Sprintf("right side %q is neither metric nor a declared unit", rel.def.Metric), nil)
}

// conflicts reports whether two records for the same unit disagree by more
// than the configured relative tolerance.
func (b *registryBuilder) conflicts(a, c ConversionRecord) bool {
	if a.Dimension != c.Dimension {
		return true
	}
	largest := decimal.Max(a.Multiplier.Abs(), c.Multiplier.Abs())
	if largest.IsZero() {
		return false
	}
	diff := a.Multiplier.Sub(c.Multiplier).Abs()
	return diff.Div(largest).GreaterThan(b.cfg.tolerance)
}

// Resolve returns the conversion record for a custom unit name. Names that
// were never declared, or were declared without a metric equivalent, report
// false.
func (r *Registry) Resolve(unit string) (ConversionRecord, bool) {
	rec, ok := r.records[unit]
	return rec, ok
}

// Declared reports whether unit was declared, with or without a relation.
func (r *Registry) Declared(unit string) bool {
	_, ok := r.declared[unit]
	return ok
}

// Records returns all conversion records sorted by unit name.
func (r *Registry) Records() []ConversionRecord {
	out := make([]ConversionRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Unit < out[j].Unit })
	return out
}

// Unconvertible returns declared units without a metric equivalent, sorted.
func (r *Registry) Unconvertible() []string {
	var out []string
	for name := range r.declared {
		if _, ok := r.records[name]; !ok {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// Prefixes returns the prefix table the registry reads metric amounts with.
func (r *Registry) Prefixes() *PrefixTable {
	return r.prefixes
}

// ToBase converts a into grams or liters, using the prefix table for metric
// units and the conversion records for custom units.
func (r *Registry) ToBase(a Amount) (BaseAmount, error) {
	c := r.prefixes.Classify(a.Unit)
	switch c.Class {
	case ClassMetric:
		return BaseAmount{Value: a.Value.Mul(c.Metric.Factor()), Dimension: c.Metric.Dimension}, nil
	case ClassIU:
		return BaseAmount{}, notConvertible(a, "IU measures efficacy, not mass or volume")
	}

	if rec, ok := r.records[a.Unit]; ok {
		return BaseAmount{Value: a.Value.Mul(rec.Multiplier), Dimension: rec.Dimension}, nil
	}
	if r.Declared(a.Unit) {
		return BaseAmount{}, notConvertible(a, fmt.Sprintf("unit %q has no metric equivalent", a.Unit))
	}
	return BaseAmount{}, &OpError{
		Op:   "registry.to_base",
		Kind: KindNotFound,
		Err:  fmt.Errorf("unit %q is not declared: %w", a.Unit, ErrNotFound),
	}
}

func relationErr(i int, def UnitDefinition, msg string, cause error) error {
	var err error
	if cause != nil {
		err = fmt.Errorf("units[%d] %s: %s: %w: %w", i, def.Source, msg, ErrInvalidUnitRelation, cause)
	} else {
		err = fmt.Errorf("units[%d] %s: %s: %w", i, def.Source, msg, ErrInvalidUnitRelation)
	}
	return &OpError{
		Op:   "registry.build",
		Kind: KindInvalidUnitRelation,
		Path: def.Path,
		Err:  err,
	}
}

func conflictErr(a relation, ar ConversionRecord, c relation, cr ConversionRecord) error {
	return &OpError{
		Op:   "registry.build",
		Kind: KindConflictingDefinition,
		Path: c.def.Path,
		Err: fmt.Errorf("units[%d] %s: %q is %s %s but units[%d] %s declared %s %s: %w",
			c.index, c.def.Source, c.unit, cr.Multiplier.String(), cr.Dimension.BaseUnit(),
			a.index, a.def.Source, ar.Multiplier.String(), ar.Dimension.BaseUnit(),
			ErrConflictingDefinition),
	}
}

func cycleErr(rel relation, chain []string) error {
	start := 0
	last := chain[len(chain)-1]
	for i, u := range chain {
		if u == last {
			start = i
			break
		}
	}
	return &OpError{
		Op:   "registry.build",
		Kind: KindCyclicDefinition,
		Path: rel.def.Path,
		Err:  fmt.Errorf("units[%d] %s: %s: %w", rel.index, rel.def.Source, strings.Join(chain[start:], " -> "), ErrCyclicDefinition),
	}
}

func notConvertible(a Amount, msg string) error {
	return &OpError{
		Op:   "registry.to_base",
		Kind: KindNotConvertible,
		Err:  fmt.Errorf("%s: %s: %w", a, msg, ErrNotConvertible),
	}
}

// IsRegistryError reports whether err came from validating unit definitions.
func IsRegistryError(err error) bool {
	return errors.Is(err, ErrInvalidUnitRelation) ||
		errors.Is(err, ErrConflictingDefinition) ||
		errors.Is(err, ErrCyclicDefinition) ||
		errors.Is(err, ErrUnknownPrefix)
}
