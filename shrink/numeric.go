package shrink

import (
	"math/big"

	"github.com/shopspring/decimal"

	apperrors "github.com/authcorp/proptest/errors"
)

// Integer is the set of Go integer types with a numeric shrinker.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
	bigTen = big.NewInt(10)
)

// Target returns the value integral shrinking moves toward: 0 if the range
// contains it, otherwise the bound nearest to 0.
func Target(min, max *big.Int) *big.Int {
	switch {
	case min.Sign() > 0:
		return new(big.Int).Set(min)
	case max.Sign() < 0:
		return new(big.Int).Set(max)
	default:
		return new(big.Int)
	}
}

// IntegralCandidates shrinks integers toward Target. Candidates are the target
// itself, the bisection points from the value toward the target, and steps of
// ceil(d/2^k) away from the value, where d is the distance to the target.
type IntegralCandidates struct {
	Target *big.Int
}

// CandidatesFor implements Candidates.
func (c IntegralCandidates) CandidatesFor(value *big.Int) []*big.Int {
	diff := new(big.Int).Sub(c.Target, value)
	if diff.Sign() == 0 {
		return nil
	}

	seen := make(map[string]struct{})
	var candidates []*big.Int
	add := func(candidate *big.Int) {
		if candidate.Cmp(value) == 0 {
			return
		}
		key := candidate.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, candidate)
	}

	add(new(big.Int).Set(c.Target))

	current := new(big.Int).Set(value)
	for {
		remaining := new(big.Int).Sub(c.Target, current)
		if remaining.CmpAbs(bigOne) <= 0 {
			break
		}
		current = new(big.Int).Add(current, new(big.Int).Quo(remaining, bigTwo))
		add(current)
	}

	step := new(big.Int).Abs(diff)
	for {
		step = new(big.Int).Quo(new(big.Int).Add(step, bigOne), bigTwo)
		if diff.Sign() > 0 {
			add(new(big.Int).Add(value, step))
		} else {
			add(new(big.Int).Sub(value, step))
		}
		if step.Cmp(bigOne) <= 0 {
			break
		}
	}
	return candidates
}

type integral struct {
	value  *big.Int
	min    *big.Int
	max    *big.Int
	target *big.Int
}

// NewIntegral creates a shrinkable integer within [min, max]. The distance is
// the absolute difference to the target, saturated at math.MaxInt64. Shrinking
// ranks candidates by the exact difference so values beyond the saturation
// point still shrink.
// Panics with an INVALID_CONFIGURATION error if min > max or value is out of range.
func NewIntegral(value, min, max *big.Int) Shrinkable[*big.Int] {
	if min.Cmp(max) > 0 {
		panic(apperrors.InvalidConfiguration("min %s must not be greater than max %s", min, max))
	}
	if value.Cmp(min) < 0 || value.Cmp(max) > 0 {
		panic(apperrors.InvalidConfiguration("value %s is outside [%s, %s]", value, min, max))
	}
	return &integral{
		value:  new(big.Int).Set(value),
		min:    new(big.Int).Set(min),
		max:    new(big.Int).Set(max),
		target: Target(min, max),
	}
}

func (i *integral) Value() *big.Int { return new(big.Int).Set(i.value) }

func (i *integral) Distance() Distance {
	return DistanceOfBig(new(big.Int).Sub(i.value, i.target))
}

func (i *integral) Shrink(falsifier Falsifier[*big.Int]) Sequence[*big.Int] {
	return NewDeepSearchBy[*big.Int](i, i.candidates, i.closer, falsifier)
}

// closer reports whether a is strictly closer to the target than b.
func (i *integral) closer(a, b Shrinkable[*big.Int]) bool {
	da := new(big.Int).Sub(a.Value(), i.target)
	db := new(big.Int).Sub(b.Value(), i.target)
	return da.CmpAbs(db) < 0
}

func (i *integral) candidates(s Shrinkable[*big.Int]) []Shrinkable[*big.Int] {
	var shrinkables []Shrinkable[*big.Int]
	for _, c := range (IntegralCandidates{Target: i.target}).CandidatesFor(s.Value()) {
		if c.Cmp(i.min) < 0 || c.Cmp(i.max) > 0 {
			continue
		}
		shrinkables = append(shrinkables, &integral{value: c, min: i.min, max: i.max, target: i.target})
	}
	return shrinkables
}

// NewInteger creates a shrinkable integer of any Go integer type.
func NewInteger[N Integer](value, min, max N) Shrinkable[N] {
	return Map(NewIntegral(ToBig(value), ToBig(min), ToBig(max)), FromBig[N])
}

// IsSigned reports whether N is a signed integer type.
func IsSigned[N Integer]() bool {
	var zero N
	return zero-1 < zero
}

// ToBig converts an integer to a big.Int.
func ToBig[N Integer](n N) *big.Int {
	if IsSigned[N]() {
		return big.NewInt(int64(n))
	}
	return new(big.Int).SetUint64(uint64(n))
}

// FromBig converts a big.Int that fits N back to N.
func FromBig[N Integer](b *big.Int) N {
	if IsSigned[N]() {
		return N(b.Int64())
	}
	return N(b.Uint64())
}

// DecimalTarget is Target for decimals.
func DecimalTarget(min, max decimal.Decimal) decimal.Decimal {
	switch {
	case min.Sign() > 0:
		return min
	case max.Sign() < 0:
		return max
	default:
		return decimal.Zero
	}
}

// DecimalCandidates shrinks decimals toward Target within [Min, Max]. A value
// with fractional digits first loses precision: it is truncated to its
// integral part or rounded one decimal place down or up. Integral values
// shrink like integers.
type DecimalCandidates struct {
	Target decimal.Decimal
	Min    decimal.Decimal
	Max    decimal.Decimal
}

// CandidatesFor implements Candidates.
func (c DecimalCandidates) CandidatesFor(value decimal.Decimal) []decimal.Decimal {
	if value.Equal(c.Target) {
		return nil
	}

	seen := make(map[string]struct{})
	var candidates []decimal.Decimal
	add := func(candidate decimal.Decimal) {
		if candidate.Equal(value) || candidate.LessThan(c.Min) || candidate.GreaterThan(c.Max) {
			return
		}
		key := candidate.String()
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		candidates = append(candidates, candidate)
	}

	add(c.Target)
	if digits := FractionalDigits(value); digits > 0 {
		places := int32(digits - 1)
		add(value.Truncate(0))
		add(value.RoundDown(places))
		add(value.RoundUp(places))
		return candidates
	}

	integralTarget := c.Target.Floor()
	if value.GreaterThan(c.Target) {
		integralTarget = c.Target.Ceil()
	}
	for _, n := range (IntegralCandidates{Target: integralTarget.BigInt()}).CandidatesFor(value.BigInt()) {
		add(decimal.NewFromBigInt(n, 0))
	}
	return candidates
}

// FractionalDigits returns the number of significant digits after the
// decimal point, ignoring trailing zeros.
func FractionalDigits(d decimal.Decimal) int {
	exp := d.Exponent()
	if exp >= 0 {
		return 0
	}
	coefficient := d.Coefficient()
	remainder := new(big.Int)
	for exp < 0 {
		quotient, r := new(big.Int).QuoRem(coefficient, bigTen, remainder)
		if r.Sign() != 0 {
			break
		}
		coefficient = quotient
		exp++
	}
	return int(-exp)
}

type decimalShrinkable struct {
	value      decimal.Decimal
	candidates DecimalCandidates
}

// NewDecimal creates a shrinkable decimal within [min, max]. The distance is
// the number of fractional digits beyond those of the target followed by the
// absolute difference to the target rounded up, so the target is the only
// value at the minimal distance.
// Panics with an INVALID_CONFIGURATION error if min > max or value is out of range.
func NewDecimal(value, min, max decimal.Decimal) Shrinkable[decimal.Decimal] {
	if min.GreaterThan(max) {
		panic(apperrors.InvalidConfiguration("min %s must not be greater than max %s", min, max))
	}
	if value.LessThan(min) || value.GreaterThan(max) {
		panic(apperrors.InvalidConfiguration("value %s is outside [%s, %s]", value, min, max))
	}
	return &decimalShrinkable{
		value:      value,
		candidates: DecimalCandidates{Target: DecimalTarget(min, max), Min: min, Max: max},
	}
}

func (d *decimalShrinkable) Value() decimal.Decimal { return d.value }

func (d *decimalShrinkable) Distance() Distance {
	magnitude := d.value.Sub(d.candidates.Target).Abs().Ceil().BigInt()
	return DistanceOf(d.extraDigits(d.value)).Append(DistanceOfBig(magnitude))
}

func (d *decimalShrinkable) extraDigits(v decimal.Decimal) int64 {
	return int64(max(0, FractionalDigits(v)-FractionalDigits(d.candidates.Target)))
}

// closer orders by extra fractional digits, then by the exact difference to
// the target.
func (d *decimalShrinkable) closer(a, b Shrinkable[decimal.Decimal]) bool {
	da, db := d.extraDigits(a.Value()), d.extraDigits(b.Value())
	if da != db {
		return da < db
	}
	target := d.candidates.Target
	return a.Value().Sub(target).Abs().LessThan(b.Value().Sub(target).Abs())
}

func (d *decimalShrinkable) Shrink(falsifier Falsifier[decimal.Decimal]) Sequence[decimal.Decimal] {
	return NewDeepSearchBy[decimal.Decimal](d, func(s Shrinkable[decimal.Decimal]) []Shrinkable[decimal.Decimal] {
		var shrinkables []Shrinkable[decimal.Decimal]
		for _, c := range d.candidates.CandidatesFor(s.Value()) {
			shrinkables = append(shrinkables, &decimalShrinkable{value: c, candidates: d.candidates})
		}
		return shrinkables
	}, d.closer, falsifier)
}
