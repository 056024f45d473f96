package usecase

import "github.com/AustinGrey/bake-file/internal/domain"

// Classification describes how a string reads under the amount grammar.
type Classification struct {
	Input string

	IsAmount bool
	Amount   domain.Amount
	Unit     domain.Unit

	Metric    bool
	NonMetric bool
}

// ClassifyInput never fails; strings outside the grammar come back with
// IsAmount false.
func ClassifyInput(table *domain.PrefixTable, s string) Classification {
	out := Classification{
		Input:     s,
		Metric:    table.IsMetricAmount(s),
		NonMetric: table.IsNonMetricAmount(s),
	}

	a, ok := domain.ParseAmount(s)
	if !ok {
		return out
	}
	out.IsAmount = true
	out.Amount = a
	out.Unit = table.Classify(a.Unit)
	return out
}
