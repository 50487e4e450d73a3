package generator

import (
	"math/big"
	"math/rand"

	"github.com/shopspring/decimal"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/shrink"
)

type partition struct {
	min, max *big.Int
}

// Integral generates integers in [min, max]. Values are drawn from windows
// around the shrinking target whose widths grow with genSize, plus the full
// range, so small generation sizes favour small values.
// Panics with INVALID_CONFIGURATION if min > max.
func Integral(min, max *big.Int, genSize int) RandomGenerator[*big.Int] {
	if min.Cmp(max) > 0 {
		panic(apperrors.InvalidConfiguration("min %s must not be greater than max %s", min, max))
	}
	partitions := partitionsFor(min, max, genSize)
	return func(r *rand.Rand) shrink.Shrinkable[*big.Int] {
		p := partitions[r.Intn(len(partitions))]
		return shrink.NewIntegral(randomBetween(r, p.min, p.max), min, max)
	}
}

// Integer generates integers of any Go integer type in [min, max].
func Integer[N shrink.Integer](min, max N, genSize int) RandomGenerator[N] {
	if min > max {
		panic(apperrors.InvalidConfiguration("min %v must not be greater than max %v", min, max))
	}
	return Map(Integral(shrink.ToBig(min), shrink.ToBig(max), genSize), shrink.FromBig[N])
}

func partitionsFor(lower, upper *big.Int, genSize int) []partition {
	target := shrink.Target(lower, upper)
	limit := big.NewInt(int64(max(genSize, 10)))
	var partitions []partition
	for width := big.NewInt(10); width.Cmp(limit) <= 0; width = new(big.Int).Mul(width, big.NewInt(10)) {
		lo := bigMax(lower, new(big.Int).Sub(target, width))
		hi := bigMin(upper, new(big.Int).Add(target, width))
		if lo.Cmp(lower) == 0 && hi.Cmp(upper) == 0 {
			break
		}
		partitions = append(partitions, partition{min: lo, max: hi})
	}
	return append(partitions, partition{min: lower, max: upper})
}

func randomBetween(r *rand.Rand, lower, upper *big.Int) *big.Int {
	span := new(big.Int).Sub(upper, lower)
	span.Add(span, big.NewInt(1))
	offset := new(big.Int).Rand(r, span)
	return offset.Add(offset, lower)
}

func bigMax(a, b *big.Int) *big.Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func bigMin(a, b *big.Int) *big.Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Decimal generates decimals in [min, max] with at most scale fractional
// digits.
// Panics with INVALID_CONFIGURATION if the range holds no value of that scale.
func Decimal(min, max decimal.Decimal, scale int32, genSize int) RandomGenerator[decimal.Decimal] {
	if scale < 0 {
		panic(apperrors.InvalidConfiguration("scale %d must not be negative", scale))
	}
	if min.GreaterThan(max) {
		panic(apperrors.InvalidConfiguration("min %s must not be greater than max %s", min, max))
	}
	unscaledMin := min.Shift(scale).Ceil().BigInt()
	unscaledMax := max.Shift(scale).Floor().BigInt()
	if unscaledMin.Cmp(unscaledMax) > 0 {
		panic(apperrors.InvalidConfiguration("no value with scale %d in [%s, %s]", scale, min, max))
	}
	partitions := partitionsFor(unscaledMin, unscaledMax, genSize)
	return func(r *rand.Rand) shrink.Shrinkable[decimal.Decimal] {
		p := partitions[r.Intn(len(partitions))]
		value := decimal.NewFromBigInt(randomBetween(r, p.min, p.max), -scale)
		return shrink.NewDecimal(value, min, max)
	}
}
