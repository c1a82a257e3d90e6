package nutrition

import "math"

// Product is the part of a stored product the scaler needs. Macros are the
// totals for ReferenceGrams of the product, which is not necessarily 100.
type Product struct {
	ID             uint
	Name           string
	ReferenceGrams float64
	Macros
}

// Scale converts a product's stored macros into the contribution of grams
// consumed. Calories round to the nearest integer while protein, carbs and
// fats round to one decimal; stored history depends on that asymmetry.
func Scale(p Product, grams float64) (Macros, error) {
	if !(p.ReferenceGrams > 0) || math.IsInf(p.ReferenceGrams, 0) {
		return Macros{}, ErrInvalidProduct
	}
	if !(grams > 0) || math.IsInf(grams, 0) {
		return Macros{}, ErrInvalidQuantity
	}

	ratio := grams / p.ReferenceGrams
	return Macros{
		Calories: Round(p.Calories*ratio, 0),
		Protein:  Round(p.Protein*ratio, 1),
		Carbs:    Round(p.Carbs*ratio, 1),
		Fats:     Round(p.Fats*ratio, 1),
	}, nil
}
