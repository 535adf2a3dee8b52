package rating

import (
	"filmsocial/backend/internal/apperr"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept for every rating.
const Precision = 1

var (
	MinRating = decimal.Zero
	MaxRating = decimal.NewFromInt(10)
)

// Validate rejects ratings outside [0, 10] or with more than one fractional digit.
func Validate(x decimal.Decimal) error {
	if x.LessThan(MinRating) || x.GreaterThan(MaxRating) {
		return apperr.Validation("rating %s is out of range [0, 10]", x.String())
	}
	if !x.Equal(x.Round(Precision)) {
		return apperr.Validation("rating %s has more than one decimal place", x.String())
	}
	return nil
}

// Add returns the aggregate after a rating x was added, where n is the review
// count including the new review. The first rating becomes the aggregate as is.
func Add(current decimal.NullDecimal, n int64, x decimal.Decimal) decimal.NullDecimal {
	if !current.Valid || n <= 1 {
		return clamp(x)
	}
	sum := current.Decimal.Mul(decimal.NewFromInt(n - 1)).Add(x)
	return clamp(sum.DivRound(decimal.NewFromInt(n), Precision))
}

// Remove returns the aggregate after a rating x was removed, where n is the
// review count before removal. Removing the last rating yields no aggregate.
func Remove(current decimal.NullDecimal, n int64, x decimal.Decimal) decimal.NullDecimal {
	if !current.Valid || n <= 1 {
		return decimal.NullDecimal{}
	}
	sum := current.Decimal.Mul(decimal.NewFromInt(n)).Sub(x)
	return clamp(sum.DivRound(decimal.NewFromInt(n-1), Precision))
}

// Mean computes the aggregate of ratings from scratch, applying Add in order.
func Mean(ratings []decimal.Decimal) decimal.NullDecimal {
	var agg decimal.NullDecimal
	for i, r := range ratings {
		agg = Add(agg, int64(i+1), r)
	}
	return agg
}

func clamp(x decimal.Decimal) decimal.NullDecimal {
	switch {
	case x.LessThan(MinRating):
		x = MinRating
	case x.GreaterThan(MaxRating):
		x = MaxRating
	}
	return decimal.NewNullDecimal(x.Round(Precision))
}
