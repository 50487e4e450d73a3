// Package combinators composes several arbitraries into one. Combined values
// shrink one component at a time, left to right.
package combinators

import (
	"github.com/authcorp/proptest/arbitrary"
	"github.com/authcorp/proptest/combinatorics"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

// Combinator combines an ordered list of arbitraries. The typed
// CombinatorN wrappers delegate to it.
type Combinator struct {
	values arbitrary.Arbitrary[[]any]
}

// Combine starts a combination of arbs.
func Combine(arbs ...arbitrary.Arbitrary[any]) *Combinator {
	return &Combinator{values: combined(append([]arbitrary.Arbitrary[any](nil), arbs...))}
}

func combined(arbs []arbitrary.Arbitrary[any]) arbitrary.Arbitrary[[]any] {
	return arbitrary.New(arbitrary.Spec[[]any]{
		Generator: func(genSize int) generator.RandomGenerator[[]any] {
			parts := make([]generator.RandomGenerator[any], len(arbs))
			for i, a := range arbs {
				parts[i] = a.Generator(genSize)
			}
			return generator.Combine(parts, cloneValues)
		},
		Exhaustive: func(max int64) (exhaustive.Generator[[]any], bool) {
			gens := make([]exhaustive.Generator[any], len(arbs))
			for i, a := range arbs {
				g, ok := a.Exhaustive(max)
				if !ok {
					return nil, false
				}
				gens[i] = g
			}
			return exhaustive.Within(exhaustive.Combine(gens), max)
		},
		EdgeCases: func() []shrink.Shrinkable[[]any] {
			inputs := make([]combinatorics.Iterator[shrink.Shrinkable[any]], len(arbs))
			for i, a := range arbs {
				edgeCases := a.EdgeCases()
				if len(edgeCases) == 0 {
					return nil
				}
				inputs[i] = combinatorics.FromSlice(edgeCases)
			}
			product := combinatorics.Take(combinatorics.Combine(inputs), arbitrary.MaxEdgeCases)
			return combinatorics.Collect(combinatorics.Map(product, func(parts []shrink.Shrinkable[any]) shrink.Shrinkable[[]any] {
				return shrink.NewCombined(parts, cloneValues)
			}))
		},
	})
}

func cloneValues(values []any) []any {
	return append([]any(nil), values...)
}

// Filter keeps only combinations accepted by pred.
func (c *Combinator) Filter(pred func([]any) bool) *Combinator {
	return &Combinator{values: arbitrary.Filter(c.values, pred)}
}

// Values returns the arbitrary of the combined component values.
func (c *Combinator) Values() arbitrary.Arbitrary[[]any] {
	return c.values
}

// As combines the component values with fn.
func As[T any](c *Combinator, fn func([]any) T) arbitrary.Arbitrary[T] {
	return arbitrary.Map(c.values, fn)
}

// FlatAs derives an arbitrary from the component values. Components shrink
// before the derived value.
func FlatAs[T any](c *Combinator, fn func([]any) arbitrary.Arbitrary[T]) arbitrary.Arbitrary[T] {
	return arbitrary.FlatMap(c.values, fn)
}

// Combinator2 combines two typed arbitraries.
type Combinator2[A, B any] struct {
	c *Combinator
}

// Combine2 starts a combination of a and b.
func Combine2[A, B any](a arbitrary.Arbitrary[A], b arbitrary.Arbitrary[B]) *Combinator2[A, B] {
	return &Combinator2[A, B]{c: Combine(arbitrary.Boxed(a), arbitrary.Boxed(b))}
}

// component converts a boxed value back to T. A nil box stands for the zero
// value, which is what a nil interface or pointer component boxes to.
func component[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

func unpack2[A, B any](values []any) (A, B) {
	return component[A](values[0]), component[B](values[1])
}

// Filter keeps only combinations accepted by pred.
func (c *Combinator2[A, B]) Filter(pred func(A, B) bool) *Combinator2[A, B] {
	return &Combinator2[A, B]{c: c.c.Filter(func(values []any) bool { return pred(unpack2[A, B](values)) })}
}

// AsPair combines the values into a Pair.
func (c *Combinator2[A, B]) AsPair() arbitrary.Arbitrary[Pair[A, B]] {
	return As2(c, NewPair[A, B])
}

// As2 combines the values of c with fn.
func As2[A, B, T any](c *Combinator2[A, B], fn func(A, B) T) arbitrary.Arbitrary[T] {
	return As(c.c, func(values []any) T { return fn(unpack2[A, B](values)) })
}

// FlatAs2 derives an arbitrary from the values of c.
func FlatAs2[A, B, T any](c *Combinator2[A, B], fn func(A, B) arbitrary.Arbitrary[T]) arbitrary.Arbitrary[T] {
	return FlatAs(c.c, func(values []any) arbitrary.Arbitrary[T] { return fn(unpack2[A, B](values)) })
}

// Combinator3 combines three typed arbitraries.
type Combinator3[A, B, C any] struct {
	c *Combinator
}

// Combine3 starts a combination of a, b and c.
func Combine3[A, B, C any](a arbitrary.Arbitrary[A], b arbitrary.Arbitrary[B], c arbitrary.Arbitrary[C]) *Combinator3[A, B, C] {
	return &Combinator3[A, B, C]{c: Combine(arbitrary.Boxed(a), arbitrary.Boxed(b), arbitrary.Boxed(c))}
}

func unpack3[A, B, C any](values []any) (A, B, C) {
	return component[A](values[0]), component[B](values[1]), component[C](values[2])
}

// Filter keeps only combinations accepted by pred.
func (c *Combinator3[A, B, C]) Filter(pred func(A, B, C) bool) *Combinator3[A, B, C] {
	return &Combinator3[A, B, C]{c: c.c.Filter(func(values []any) bool { return pred(unpack3[A, B, C](values)) })}
}

// AsTriple combines the values into a Triple.
func (c *Combinator3[A, B, C]) AsTriple() arbitrary.Arbitrary[Triple[A, B, C]] {
	return As3(c, NewTriple[A, B, C])
}

// As3 combines the values of c with fn.
func As3[A, B, C, T any](c *Combinator3[A, B, C], fn func(A, B, C) T) arbitrary.Arbitrary[T] {
	return As(c.c, func(values []any) T { return fn(unpack3[A, B, C](values)) })
}

// FlatAs3 derives an arbitrary from the values of c.
func FlatAs3[A, B, C, T any](c *Combinator3[A, B, C], fn func(A, B, C) arbitrary.Arbitrary[T]) arbitrary.Arbitrary[T] {
	return FlatAs(c.c, func(values []any) arbitrary.Arbitrary[T] { return fn(unpack3[A, B, C](values)) })
}

// Combinator4 combines four typed arbitraries.
type Combinator4[A, B, C, D any] struct {
	c *Combinator
}

// Combine4 starts a combination of a, b, c and d.
func Combine4[A, B, C, D any](a arbitrary.Arbitrary[A], b arbitrary.Arbitrary[B], c arbitrary.Arbitrary[C], d arbitrary.Arbitrary[D]) *Combinator4[A, B, C, D] {
	return &Combinator4[A, B, C, D]{c: Combine(arbitrary.Boxed(a), arbitrary.Boxed(b), arbitrary.Boxed(c), arbitrary.Boxed(d))}
}

func unpack4[A, B, C, D any](values []any) (A, B, C, D) {
	return component[A](values[0]), component[B](values[1]), component[C](values[2]), component[D](values[3])
}

// Filter keeps only combinations accepted by pred.
func (c *Combinator4[A, B, C, D]) Filter(pred func(A, B, C, D) bool) *Combinator4[A, B, C, D] {
	return &Combinator4[A, B, C, D]{c: c.c.Filter(func(values []any) bool { return pred(unpack4[A, B, C, D](values)) })}
}

// AsQuad combines the values into a Quad.
func (c *Combinator4[A, B, C, D]) AsQuad() arbitrary.Arbitrary[Quad[A, B, C, D]] {
	return As4(c, NewQuad[A, B, C, D])
}

// As4 combines the values of c with fn.
func As4[A, B, C, D, T any](c *Combinator4[A, B, C, D], fn func(A, B, C, D) T) arbitrary.Arbitrary[T] {
	return As(c.c, func(values []any) T { return fn(unpack4[A, B, C, D](values)) })
}

// FlatAs4 derives an arbitrary from the values of c.
func FlatAs4[A, B, C, D, T any](c *Combinator4[A, B, C, D], fn func(A, B, C, D) arbitrary.Arbitrary[T]) arbitrary.Arbitrary[T] {
	return FlatAs(c.c, func(values []any) arbitrary.Arbitrary[T] { return fn(unpack4[A, B, C, D](values)) })
}
