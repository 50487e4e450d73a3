package arbitrary

import (
	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

type runeRange struct {
	lo, hi rune
}

func (r runeRange) size() int { return int(r.hi-r.lo) + 1 }

// CharArbitrary generates runes from a union of ranges. Runes shrink toward
// the first rune of the first range.
type CharArbitrary struct {
	ranges []runeRange
}

// Chars generates printable ASCII characters unless restricted by Range or
// With.
func Chars() *CharArbitrary {
	return &CharArbitrary{}
}

func (a *CharArbitrary) effective() []runeRange {
	if len(a.ranges) == 0 {
		return []runeRange{{lo: ' ', hi: '~'}}
	}
	return a.ranges
}

// Range adds all runes in [lo, hi].
// Panics with INVALID_CONFIGURATION if lo > hi.
func (a *CharArbitrary) Range(lo, hi rune) *CharArbitrary {
	if lo > hi {
		panic(apperrors.InvalidConfiguration("char range %q..%q is empty", lo, hi))
	}
	ranges := append(append([]runeRange(nil), a.ranges...), runeRange{lo: lo, hi: hi})
	return &CharArbitrary{ranges: ranges}
}

// With adds the given runes.
func (a *CharArbitrary) With(chars ...rune) *CharArbitrary {
	result := a
	for _, c := range chars {
		result = result.Range(c, c)
	}
	return result
}

func (a *CharArbitrary) count() int {
	total := 0
	for _, r := range a.effective() {
		total += r.size()
	}
	return total
}

func (a *CharArbitrary) at(index int) rune {
	for _, r := range a.effective() {
		if index < r.size() {
			return r.lo + rune(index)
		}
		index -= r.size()
	}
	panic(apperrors.New(apperrors.ErrCodeInternal, "char index out of range"))
}

// Generator implements Arbitrary.
func (a *CharArbitrary) Generator(genSize int) generator.RandomGenerator[rune] {
	return generator.Map(generator.Integer(0, a.count()-1, genSize), a.at)
}

// Exhaustive implements Arbitrary.
func (a *CharArbitrary) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[rune], bool) {
	return exhaustive.Within(exhaustive.Map(exhaustive.IntegralRange(0, a.count()-1), a.at), maxNumberOfSamples)
}

// EdgeCases returns the first and last rune of every range.
func (a *CharArbitrary) EdgeCases() []shrink.Shrinkable[rune] {
	last := a.count() - 1
	seen := make(map[int]struct{})
	var edgeCases []shrink.Shrinkable[rune]
	offset := 0
	for _, r := range a.effective() {
		for _, index := range []int{offset, offset + r.size() - 1} {
			if _, ok := seen[index]; ok {
				continue
			}
			seen[index] = struct{}{}
			edgeCases = append(edgeCases, shrink.Map(shrink.NewInteger(index, 0, last), a.at))
		}
		offset += r.size()
	}
	return edgeCases
}

// StringArbitrary generates strings of runes from a CharArbitrary.
type StringArbitrary struct {
	chars     *CharArbitrary
	minLength int
	maxLength int
}

// Strings generates printable ASCII strings of up to generator.DefaultMaxSize
// runes.
func Strings() *StringArbitrary {
	return &StringArbitrary{chars: Chars(), maxLength: generator.DefaultMaxSize}
}

func (a *StringArbitrary) with(fn func(*StringArbitrary)) *StringArbitrary {
	copied := *a
	fn(&copied)
	if copied.minLength < 0 || copied.maxLength < copied.minLength {
		panic(apperrors.InvalidConfiguration("invalid string length range [%d, %d]", copied.minLength, copied.maxLength))
	}
	return &copied
}

// WithChars restricts runes to chars.
func (a *StringArbitrary) WithChars(chars ...rune) *StringArbitrary {
	return a.with(func(s *StringArbitrary) { s.chars = s.chars.With(chars...) })
}

// WithCharRange restricts runes to [lo, hi], in addition to previously
// configured runes.
func (a *StringArbitrary) WithCharRange(lo, hi rune) *StringArbitrary {
	return a.with(func(s *StringArbitrary) { s.chars = s.chars.Range(lo, hi) })
}

// OfMinLength sets the minimum number of runes.
func (a *StringArbitrary) OfMinLength(n int) *StringArbitrary {
	return a.with(func(s *StringArbitrary) {
		s.minLength = n
		s.maxLength = max(s.maxLength, n)
	})
}

// OfMaxLength sets the maximum number of runes.
func (a *StringArbitrary) OfMaxLength(n int) *StringArbitrary {
	return a.with(func(s *StringArbitrary) { s.maxLength = n })
}

// OfLength fixes the number of runes.
func (a *StringArbitrary) OfLength(n int) *StringArbitrary {
	return a.with(func(s *StringArbitrary) {
		s.minLength = n
		s.maxLength = n
	})
}

// Generator implements Arbitrary.
func (a *StringArbitrary) Generator(genSize int) generator.RandomGenerator[string] {
	runes := generator.ListOf(GeneratorWithEdgeCases[rune](a.chars, genSize), a.minLength, a.maxLength, genSize)
	return generator.Map(runes, runesToString)
}

// Exhaustive implements Arbitrary.
func (a *StringArbitrary) Exhaustive(maxNumberOfSamples int64) (exhaustive.Generator[string], bool) {
	chars, ok := a.chars.Exhaustive(maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	g, ok := exhaustive.Within(exhaustive.List(chars, a.minLength, a.maxLength), maxNumberOfSamples)
	if !ok {
		return nil, false
	}
	return exhaustive.Map(g, runesToString), true
}

// EdgeCases returns the shortest string of the first rune and, if allowed,
// single rune strings of the rune edge cases.
func (a *StringArbitrary) EdgeCases() []shrink.Shrinkable[string] {
	var edgeCases []shrink.Shrinkable[string]
	charEdgeCases := a.chars.EdgeCases()
	switch {
	case a.minLength == 0:
		edgeCases = append(edgeCases, shrink.Map[[]rune](shrink.NewList[rune](nil, 0), runesToString))
	case a.minLength > 1:
		elements := make([]shrink.Shrinkable[rune], a.minLength)
		for i := range elements {
			elements[i] = charEdgeCases[0]
		}
		return []shrink.Shrinkable[string]{shrink.Map[[]rune](shrink.NewList(elements, a.minLength), runesToString)}
	}
	if a.minLength <= 1 && a.maxLength >= 1 {
		for _, c := range charEdgeCases {
			list := shrink.NewList([]shrink.Shrinkable[rune]{c}, a.minLength)
			edgeCases = append(edgeCases, shrink.Map[[]rune](list, runesToString))
		}
	}
	return edgeCases
}

func runesToString(runes []rune) string {
	return string(runes)
}
