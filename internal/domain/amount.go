package domain

import (
	"regexp"

	"github.com/shopspring/decimal"
)

// amountPattern is the amount grammar: digits, an optional fraction, at most
// one separator space and a unit token. The unit starts with a letter, never
// ends with whitespace and never contains '=' or a line break.
var amountPattern = regexp.MustCompile(`^([0-9]+(?:\.[0-9]+)?) ?(\pL(?:[^=\r\n]*[^=\s])?)$`)

// Amount is a non-negative value paired with a unit token, e.g. "47g" or
// "2 cup".
type Amount struct {
	Value decimal.Decimal
	Unit  string
}

// ParseAmount splits s into value and unit. It reports false instead of
// failing when s is not an amount, so it can be used as a guard over
// untrusted input.
func ParseAmount(s string) (Amount, bool) {
	m := amountPattern.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, false
	}
	v, err := decimal.NewFromString(m[1])
	if err != nil {
		return Amount{}, false
	}
	return Amount{Value: v, Unit: m[2]}, true
}

// String renders the amount with a single separator space.
func (a Amount) String() string {
	return a.Value.String() + " " + a.Unit
}

// Float64 returns the value as a float64.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

// IsMetricAmount reports whether s is an amount in grams, liters (optionally
// prefixed) or IU, using the full prefix table.
func IsMetricAmount(s string) bool {
	return FullPrefixes.IsMetricAmount(s)
}

// IsNonMetricAmount reports whether s is an amount whose unit is not metric.
func IsNonMetricAmount(s string) bool {
	return FullPrefixes.IsNonMetricAmount(s)
}

// IsMetricAmount is IsMetricAmount against this table's prefixes.
func (t *PrefixTable) IsMetricAmount(s string) bool {
	a, ok := ParseAmount(s)
	if !ok {
		return false
	}
	return t.Classify(a.Unit).Class != ClassNonMetric
}

// IsNonMetricAmount is IsNonMetricAmount against this table's prefixes.
func (t *PrefixTable) IsNonMetricAmount(s string) bool {
	a, ok := ParseAmount(s)
	if !ok {
		return false
	}
	return t.Classify(a.Unit).Class == ClassNonMetric
}
