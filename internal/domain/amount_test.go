package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in    string
		ok    bool
		value string
		unit  string
	}{
		{"47g", true, "47", "g"},
		{"1 ml", true, "1", "ml"},
		{"2.5 cup", true, "2.5", "cup"},
		{"14cup", true, "14", "cup"},
		{"5 I.U.", true, "5", "I.U."},
		{"1 fl oz", true, "1", "fl oz"},
		{"3 μg", true, "3", "μg"},
		{"007g", true, "7", "g"},

		{"", false, "", ""},
		{"g", false, "", ""},
		{"12", false, "", ""},
		{"1.5", false, "", ""},
		{" 1g", false, "", ""},
		{"1g ", false, "", ""},
		{"2  oz", false, "", ""},
		{"1 ", false, "", ""},
		{"-1g", false, "", ""},
		{"+1g", false, "", ""},
		{"1,5g", false, "", ""},
		{"1,000g", false, "", ""},
		{"1e3g", true, "1", "e3g"},
		{"1.g", false, "", ""},
		{"2 cup\nsalt", false, "", ""},
		{"2 cup\r\nsalt", false, "", ""},
		{"2 cup\n", false, "", ""},
		{".5g", false, "", ""},
		{"1 = 2", false, "", ""},
		{"1 2", false, "", ""},
		{"1 oz = 25g", false, "", ""},
	}

	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			a, ok := ParseAmount(c.in)
			require.Equal(t, c.ok, ok, "ParseAmount(%q)", c.in)
			if !c.ok {
				return
			}
			assert.True(t, decimal.RequireFromString(c.value).Equal(a.Value), "value %s", a.Value)
			assert.Equal(t, c.unit, a.Unit)
		})
	}
}

func TestAmountString(t *testing.T) {
	a, ok := ParseAmount("2.50cup")
	require.True(t, ok)
	assert.Equal(t, "2.5 cup", a.String())
	assert.InDelta(t, 2.5, a.Float64(), 1e-12)
}

func TestIsMetricAmount(t *testing.T) {
	for _, s := range []string{"47g", "1 ml", "2kg", "3 dag", "1.5 Ml", "10 IU", "10 I.U.", "4 μl", "0g"} {
		assert.True(t, IsMetricAmount(s), "IsMetricAmount(%q)", s)
	}
	for _, s := range []string{"2 oz", "14cup", "1 L", "da l", "1 da l", "3 bowl", "", "g"} {
		assert.False(t, IsMetricAmount(s), "IsMetricAmount(%q)", s)
	}
}

func TestIsNonMetricAmount(t *testing.T) {
	for _, s := range []string{"2 oz", "14cup", "1 Xg", "3 bowl", "1 package"} {
		assert.True(t, IsNonMetricAmount(s), "IsNonMetricAmount(%q)", s)
	}
	for _, s := range []string{"47g", "1 ml", "5 IU", "oz", "", "1 = 2"} {
		assert.False(t, IsNonMetricAmount(s), "IsNonMetricAmount(%q)", s)
	}
}

// Every string lands in exactly one of: not an amount, metric, non-metric.
func TestAmountClassesPartitionStrings(t *testing.T) {
	inputs := []string{
		"", " ", "g", "47g", "1 ml", "2kg", "2 oz", "14cup", "1 da l", "1 dal",
		"5 IU", "5 I.U.", "5 iu", "1.5", "1. 5g", "2  oz", "1 = 2", "3 μg", "9 Yl",
		"1 Xg", "12 bowl", "1\tg", "1 g\n", "1 fl oz",
	}
	for _, table := range []*PrefixTable{FullPrefixes, ReducedPrefixes} {
		for _, s := range inputs {
			_, parsed := ParseAmount(s)
			metric := table.IsMetricAmount(s)
			nonMetric := table.IsNonMetricAmount(s)

			n := 0
			for _, b := range []bool{!parsed, metric, nonMetric} {
				if b {
					n++
				}
			}
			assert.Equal(t, 1, n, "table=%s input=%q parsed=%v metric=%v nonMetric=%v", table.Set(), s, parsed, metric, nonMetric)
		}
	}
}

func TestReducedPrefixesClassifyLess(t *testing.T) {
	assert.True(t, ReducedPrefixes.IsMetricAmount("2 kg"))
	assert.True(t, ReducedPrefixes.IsMetricAmount("250 ml"))
	assert.False(t, ReducedPrefixes.IsMetricAmount("2 dag"))
	assert.True(t, ReducedPrefixes.IsNonMetricAmount("2 dag"))
}
