package domain

import (
	"fmt"
	"strings"
)

// PrefixSet names one of the supported prefix tables.
type PrefixSet string

const (
	PrefixesFull    PrefixSet = "full"
	PrefixesReduced PrefixSet = "reduced"
)

// Prefix is a metric prefix token and the power of ten it stands for.
type Prefix struct {
	Symbol   string
	Exponent int
}

// PrefixTable maps metric prefix tokens to their power-of-ten exponent.
// Tables are immutable once built.
type PrefixTable struct {
	set       PrefixSet
	prefixes  []Prefix
	exponents map[string]int
	maxLen    int
}

// FullPrefixes is the complete SI prefix range and the default table.
var FullPrefixes = mustPrefixTable(PrefixesFull, []Prefix{
	{"", 0},
	{"da", 1},
	{"h", 2},
	{"k", 3},
	{"M", 6},
	{"G", 9},
	{"T", 12},
	{"P", 15},
	{"E", 18},
	{"Z", 21},
	{"Y", 24},
	{"d", -1},
	{"c", -2},
	{"m", -3},
	{"μ", -6},
	{"n", -9},
	{"p", -12},
	{"f", -15},
	{"a", -18},
	{"z", -21},
	{"y", -24},
})

// ReducedPrefixes only knows grams/liters, milli and kilo.
var ReducedPrefixes = mustPrefixTable(PrefixesReduced, []Prefix{
	{"", 0},
	{"m", -3},
	{"k", 3},
})

// NewPrefixTable builds a table from prefixes. Symbols must be unique, which
// keeps longest-match lookups free of ties.
func NewPrefixTable(set PrefixSet, prefixes []Prefix) (*PrefixTable, error) {
	t := &PrefixTable{
		set:       set,
		prefixes:  make([]Prefix, 0, len(prefixes)),
		exponents: make(map[string]int, len(prefixes)),
	}
	for _, p := range prefixes {
		if _, dup := t.exponents[p.Symbol]; dup {
			return nil, fmt.Errorf("prefix table %s: duplicate prefix %q", set, p.Symbol)
		}
		if strings.ContainsAny(p.Symbol, " \t") {
			return nil, fmt.Errorf("prefix table %s: prefix %q contains whitespace", set, p.Symbol)
		}
		t.exponents[p.Symbol] = p.Exponent
		t.prefixes = append(t.prefixes, p)
		if len(p.Symbol) > t.maxLen {
			t.maxLen = len(p.Symbol)
		}
	}
	return t, nil
}

func mustPrefixTable(set PrefixSet, prefixes []Prefix) *PrefixTable {
	t, err := NewPrefixTable(set, prefixes)
	if err != nil {
		panic(err)
	}
	return t
}

// PrefixTableFor returns the table for a configured set; empty means full.
func PrefixTableFor(set PrefixSet) (*PrefixTable, error) {
	switch set {
	case "", PrefixesFull:
		return FullPrefixes, nil
	case PrefixesReduced:
		return ReducedPrefixes, nil
	default:
		return nil, &OpError{
			Op:   "prefix.table",
			Kind: KindInvalidConfig,
			Err:  fmt.Errorf("unsupported prefix set %q: %w", set, ErrInvalidConfig),
		}
	}
}

// Set reports which configuration the table was built for.
func (t *PrefixTable) Set() PrefixSet { return t.set }

// Prefixes returns the table entries in definition order.
func (t *PrefixTable) Prefixes() []Prefix {
	out := make([]Prefix, len(t.prefixes))
	copy(out, t.prefixes)
	return out
}

// ExponentOf returns the power of ten for prefix, or an UnknownPrefix error.
func (t *PrefixTable) ExponentOf(prefix string) (int, error) {
	exp, ok := t.exponents[prefix]
	if !ok {
		return 0, &OpError{
			Op:   "prefix.exponent",
			Kind: KindUnknownPrefix,
			Err:  fmt.Errorf("%q: %w", prefix, ErrUnknownPrefix),
		}
	}
	return exp, nil
}

// Has reports whether prefix belongs to the table.
func (t *PrefixTable) Has(prefix string) bool {
	_, ok := t.exponents[prefix]
	return ok
}

// ExponentOf looks prefix up in the full SI table.
func ExponentOf(prefix string) (int, error) {
	return FullPrefixes.ExponentOf(prefix)
}
