package arbitrary

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/authcorp/proptest/combinatorics"
	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

// IntegerArbitrary generates integers of type N within a closed range.
type IntegerArbitrary[N shrink.Integer] struct {
	min, max N
}

// Integers generates any value of N.
func Integers[N shrink.Integer]() *IntegerArbitrary[N] {
	min, max := integerBounds[N]()
	return &IntegerArbitrary[N]{min: min, max: max}
}

// integerBounds returns the smallest and largest value of N.
func integerBounds[N shrink.Integer]() (N, N) {
	var zero N
	if !shrink.IsSigned[N]() {
		return zero, zero - 1
	}
	bits := 0
	for v := N(1); v != 0; v <<= 1 {
		bits++
	}
	max := N(1)<<(bits-1) - 1
	return -max - 1, max
}

// Between restricts values to [min, max].
// Panics with INVALID_CONFIGURATION if min > max.
func (a *IntegerArbitrary[N]) Between(min, max N) *IntegerArbitrary[N] {
	if min > max {
		panic(apperrors.InvalidConfiguration("min %v must not be greater than max %v", min, max))
	}
	return &IntegerArbitrary[N]{min: min, max: max}
}

// GreaterOrEqual restricts values to [min, current max].
func (a *IntegerArbitrary[N]) GreaterOrEqual(min N) *IntegerArbitrary[N] {
	return a.Between(min, a.max)
}

// LessOrEqual restricts values to [current min, max].
func (a *IntegerArbitrary[N]) LessOrEqual(max N) *IntegerArbitrary[N] {
	return a.Between(a.min, max)
}

// Generator implements Arbitrary.
func (a *IntegerArbitrary[N]) Generator(genSize int) generator.RandomGenerator[N] {
	return generator.Integer(a.min, a.max, genSize)
}

// Exhaustive implements Arbitrary.
func (a *IntegerArbitrary[N]) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[N], bool) {
	return exhaustive.Within(exhaustive.IntegralRange(a.min, a.max), maxNumberOfSamples)
}

// EdgeCases returns the bounds, their neighbours and the small values around
// zero that lie in range.
func (a *IntegerArbitrary[N]) EdgeCases() []shrink.Shrinkable[N] {
	values := integralEdgeCases(shrink.ToBig(a.min), shrink.ToBig(a.max))
	return mapEach(values, func(v *big.Int) shrink.Shrinkable[N] {
		return shrink.NewInteger(shrink.FromBig[N](v), a.min, a.max)
	})
}

func integralEdgeCases(min, max *big.Int) []*big.Int {
	one := big.NewInt(1)
	candidates := []*big.Int{
		new(big.Int).Set(min),
		new(big.Int).Add(min, one),
		big.NewInt(-2), big.NewInt(-1), big.NewInt(0), big.NewInt(1), big.NewInt(2),
		new(big.Int).Sub(max, one),
		new(big.Int).Set(max),
	}
	seen := make(map[string]struct{}, len(candidates))
	var edgeCases []*big.Int
	for _, c := range candidates {
		if c.Cmp(min) < 0 || c.Cmp(max) > 0 {
			continue
		}
		if _, ok := seen[c.String()]; ok {
			continue
		}
		seen[c.String()] = struct{}{}
		edgeCases = append(edgeCases, c)
	}
	return edgeCases
}

// BigIntegerArbitrary generates arbitrary precision integers.
type BigIntegerArbitrary struct {
	min, max *big.Int
}

// BigIntegers generates values in the int64 range unless restricted.
func BigIntegers() *BigIntegerArbitrary {
	return &BigIntegerArbitrary{min: big.NewInt(math.MinInt64), max: big.NewInt(math.MaxInt64)}
}

// Between restricts values to [min, max].
// Panics with INVALID_CONFIGURATION if min > max.
func (a *BigIntegerArbitrary) Between(min, max *big.Int) *BigIntegerArbitrary {
	if min.Cmp(max) > 0 {
		panic(apperrors.InvalidConfiguration("min %s must not be greater than max %s", min, max))
	}
	return &BigIntegerArbitrary{min: new(big.Int).Set(min), max: new(big.Int).Set(max)}
}

// Generator implements Arbitrary.
func (a *BigIntegerArbitrary) Generator(genSize int) generator.RandomGenerator[*big.Int] {
	return generator.Integral(a.min, a.max, genSize)
}

// Exhaustive implements Arbitrary.
func (a *BigIntegerArbitrary) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[*big.Int], bool) {
	span := new(big.Int).Sub(a.max, a.min)
	if !span.IsInt64() || span.Int64() >= maxNumberOfSamples {
		return nil, false
	}
	min, max := a.min, a.max
	return exhaustive.New(span.Int64()+1, func() combinatorics.Iterator[*big.Int] {
		return func(yield func(*big.Int) bool) {
			for v := new(big.Int).Set(min); v.Cmp(max) <= 0; v.Add(v, big.NewInt(1)) {
				if !yield(new(big.Int).Set(v)) {
					return
				}
			}
		}
	}), true
}

// EdgeCases implements Arbitrary.
func (a *BigIntegerArbitrary) EdgeCases() []shrink.Shrinkable[*big.Int] {
	return mapEach(integralEdgeCases(a.min, a.max), func(v *big.Int) shrink.Shrinkable[*big.Int] {
		return shrink.NewIntegral(v, a.min, a.max)
	})
}

// DefaultScale is the number of fractional digits of BigDecimals.
const DefaultScale = 2

// DecimalArbitrary generates decimals with a fixed maximum scale.
type DecimalArbitrary struct {
	min, max decimal.Decimal
	scale    int32
}

// BigDecimals generates decimals in [-1e9, 1e9] with DefaultScale.
func BigDecimals() *DecimalArbitrary {
	bound := decimal.New(1, 9)
	return &DecimalArbitrary{min: bound.Neg(), max: bound, scale: DefaultScale}
}

// Between restricts values to [min, max].
// Panics with INVALID_CONFIGURATION if min > max.
func (a *DecimalArbitrary) Between(min, max decimal.Decimal) *DecimalArbitrary {
	if min.GreaterThan(max) {
		panic(apperrors.InvalidConfiguration("min %s must not be greater than max %s", min, max))
	}
	return &DecimalArbitrary{min: min, max: max, scale: a.scale}
}

// OfScale sets the maximum number of fractional digits.
// Panics with INVALID_CONFIGURATION if scale is negative.
func (a *DecimalArbitrary) OfScale(scale int32) *DecimalArbitrary {
	if scale < 0 {
		panic(apperrors.InvalidConfiguration("scale %d must not be negative", scale))
	}
	return &DecimalArbitrary{min: a.min, max: a.max, scale: scale}
}

// Generator implements Arbitrary.
func (a *DecimalArbitrary) Generator(genSize int) generator.RandomGenerator[decimal.Decimal] {
	return generator.Decimal(a.min, a.max, a.scale, genSize)
}

// Exhaustive enumerates every value of the configured scale in range.
func (a *DecimalArbitrary) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[decimal.Decimal], bool) {
	first := a.min.RoundCeil(a.scale)
	last := a.max.RoundFloor(a.scale)
	if first.GreaterThan(last) {
		return exhaustive.FromValues[decimal.Decimal](), true
	}
	steps := last.Sub(first).Shift(a.scale).BigInt()
	if !steps.IsInt64() || steps.Int64() >= maxNumberOfSamples {
		return nil, false
	}
	unit := decimal.New(1, -a.scale)
	count := steps.Int64() + 1
	return exhaustive.New(count, func() combinatorics.Iterator[decimal.Decimal] {
		return func(yield func(decimal.Decimal) bool) {
			v := first
			for i := int64(0); i < count; i++ {
				if !yield(v) {
					return
				}
				v = v.Add(unit)
			}
		}
	}), true
}

// EdgeCases returns the bounds, zero, one and the smallest unit of the scale,
// each with both signs, if they lie in range.
func (a *DecimalArbitrary) EdgeCases() []shrink.Shrinkable[decimal.Decimal] {
	unit := decimal.New(1, -a.scale)
	candidates := []decimal.Decimal{
		a.min.RoundCeil(a.scale),
		a.max.RoundFloor(a.scale),
		decimal.Zero,
		decimal.NewFromInt(1), decimal.NewFromInt(-1),
		unit, unit.Neg(),
	}
	seen := make(map[string]struct{})
	var edgeCases []shrink.Shrinkable[decimal.Decimal]
	for _, c := range candidates {
		if c.LessThan(a.min) || c.GreaterThan(a.max) {
			continue
		}
		key := c.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		edgeCases = append(edgeCases, shrink.NewDecimal(c, a.min, a.max))
	}
	return edgeCases
}
