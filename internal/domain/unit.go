package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Dimension is the physical quantity a metric unit measures.
type Dimension string

const (
	DimensionMass   Dimension = "mass"
	DimensionVolume Dimension = "volume"
)

// BaseUnit returns the canonical unit symbol for the dimension.
func (d Dimension) BaseUnit() string {
	switch d {
	case DimensionMass:
		return "g"
	case DimensionVolume:
		return "l"
	default:
		return ""
	}
}

// UnitClass is the outcome of classifying a unit token.
type UnitClass string

const (
	ClassMetric    UnitClass = "metric"
	ClassIU        UnitClass = "iu"
	ClassNonMetric UnitClass = "non_metric"
)

// MetricUnit is a prefixed gram or liter.
type MetricUnit struct {
	Prefix    string
	Dimension Dimension
	Exponent  int
}

// String rebuilds the unit token, e.g. "kg".
func (u MetricUnit) String() string {
	return u.Prefix + u.Dimension.BaseUnit()
}

// Factor is the multiplier from this unit to the dimension's base unit.
func (u MetricUnit) Factor() decimal.Decimal {
	return decimal.New(1, int32(u.Exponent))
}

// Unit is a classified unit token. Metric is only meaningful when Class is
// ClassMetric.
type Unit struct {
	Token  string
	Class  UnitClass
	Metric MetricUnit
}

var dimensionsBySuffix = map[byte]Dimension{
	'g': DimensionMass,
	'l': DimensionVolume,
}

// Classify classifies token using the full prefix table.
func Classify(token string) Unit {
	return FullPrefixes.Classify(token)
}

// ParseMetricUnit is the strict form of Classify for tokens that must be
// metric, using the full prefix table.
func ParseMetricUnit(token string) (MetricUnit, error) {
	return FullPrefixes.ParseMetricUnit(token)
}

// Classify decides whether token is a metric unit, IU, or anything else.
// Tokens that look metric but carry an unknown prefix are non-metric; use
// ParseMetricUnit to surface the prefix error instead.
func (t *PrefixTable) Classify(token string) Unit {
	if mu, err := t.ParseMetricUnit(token); err == nil {
		return Unit{Token: token, Class: ClassMetric, Metric: mu}
	}
	if isIU(token) {
		return Unit{Token: token, Class: ClassIU}
	}
	return Unit{Token: token, Class: ClassNonMetric}
}

// ParseMetricUnit decomposes token into prefix and dimension. A token that
// ends in g or l behind a prefix-sized remainder outside the table fails with
// UnknownPrefix; any other non-metric token fails with InvalidUnitRelation.
func (t *PrefixTable) ParseMetricUnit(token string) (MetricUnit, error) {
	if token == "" {
		return MetricUnit{}, notMetric(token)
	}
	dim, ok := dimensionsBySuffix[token[len(token)-1]]
	if !ok {
		return MetricUnit{}, notMetric(token)
	}

	prefix := token[:len(token)-1]
	// Longer remainders are plain words ("bowl"), unless they are SI prefixes
	// missing from a reduced table.
	if len(prefix) > t.maxLen && !FullPrefixes.Has(prefix) {
		return MetricUnit{}, notMetric(token)
	}
	exp, err := t.ExponentOf(prefix)
	if err != nil {
		return MetricUnit{}, unknownPrefix(token, prefix)
	}
	return MetricUnit{Prefix: prefix, Dimension: dim, Exponent: exp}, nil
}

// isIU reports whether token is the international (efficacy) unit.
func isIU(token string) bool {
	return token == "IU" || token == "I.U."
}

func notMetric(token string) error {
	return &OpError{
		Op:   "unit.parse_metric",
		Kind: KindInvalidUnitRelation,
		Err:  fmt.Errorf("%q is not a metric unit: %w", token, ErrInvalidUnitRelation),
	}
}

func unknownPrefix(token, prefix string) error {
	return &OpError{
		Op:   "unit.parse_metric",
		Kind: KindUnknownPrefix,
		Err:  fmt.Errorf("%q has prefix %q: %w", token, prefix, ErrUnknownPrefix),
	}
}
