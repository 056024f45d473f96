package usecase

import (
	"fmt"

	"github.com/AustinGrey/bake-file/internal/domain"
)

// Conversion is an amount read from user input and its base-unit value.
type Conversion struct {
	Input domain.Amount
	Unit  domain.Unit
	Base  domain.BaseAmount
}

// ConvertAmount parses s with the registry's prefix table and converts it to
// grams or liters.
func ConvertAmount(reg *domain.Registry, s string) (Conversion, error) {
	a, ok := domain.ParseAmount(s)
	if !ok {
		return Conversion{}, &domain.OpError{
			Op:   "usecase.convert",
			Kind: domain.KindInvalidUnitRelation,
			Err:  fmt.Errorf("%q is not an amount (expected \"<number> <unit>\"): %w", s, domain.ErrInvalidUnitRelation),
		}
	}

	base, err := reg.ToBase(a)
	if err != nil {
		return Conversion{}, err
	}

	return Conversion{
		Input: a,
		Unit:  reg.Prefixes().Classify(a.Unit),
		Base:  base,
	}, nil
}
