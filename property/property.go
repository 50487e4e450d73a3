// Package property checks properties against generated samples and shrinks
// the samples that falsify them.
package property

import (
	"context"
	"fmt"

	"github.com/authcorp/proptest/arbitrary"
	"github.com/authcorp/proptest/combinators"
	"github.com/authcorp/proptest/shrink"
)

// Checkable is a property that a Checker can run.
type Checkable interface {
	Name() string
	check(ctx context.Context, c *Checker, cfg Config) Result
}

// Property binds a falsifier to the arbitrary that generates its samples.
type Property[T any] struct {
	name      string
	arbitrary arbitrary.Arbitrary[T]
	falsifier shrink.Falsifier[T]
	format    func(T) string
}

// ForAll creates a property that holds if predicate returns true for all
// values of arb. Predicates may call shrink.Assume to discard a sample.
func ForAll[T any](name string, arb arbitrary.Arbitrary[T], predicate func(T) bool) *Property[T] {
	return New(name, arb, shrink.Predicate(predicate))
}

// ForAllErr creates a property that holds if check returns nil for all values
// of arb.
func ForAllErr[T any](name string, arb arbitrary.Arbitrary[T], check func(T) error) *Property[T] {
	return New(name, arb, shrink.ErrorPredicate(check))
}

// ForAll2 creates a property over two independently generated values.
func ForAll2[A, B any](name string, a arbitrary.Arbitrary[A], b arbitrary.Arbitrary[B], predicate func(A, B) bool) *Property[combinators.Pair[A, B]] {
	return ForAll(name, combinators.Combine2(a, b).AsPair(), func(p combinators.Pair[A, B]) bool {
		return predicate(p.Unpack())
	})
}

// ForAll3 creates a property over three independently generated values.
func ForAll3[A, B, C any](name string, a arbitrary.Arbitrary[A], b arbitrary.Arbitrary[B], c arbitrary.Arbitrary[C], predicate func(A, B, C) bool) *Property[combinators.Triple[A, B, C]] {
	return ForAll(name, combinators.Combine3(a, b, c).AsTriple(), func(t combinators.Triple[A, B, C]) bool {
		return predicate(t.Unpack())
	})
}

// New creates a property from a falsifier.
func New[T any](name string, arb arbitrary.Arbitrary[T], falsifier shrink.Falsifier[T]) *Property[T] {
	return &Property[T]{
		name:      name,
		arbitrary: arb,
		falsifier: falsifier,
		format:    func(v T) string { return fmt.Sprintf("%v", v) },
	}
}

// Name returns the property name.
func (p *Property[T]) Name() string { return p.name }

// WithFormat sets how samples are rendered in failure records.
func (p *Property[T]) WithFormat(format func(T) string) *Property[T] {
	p.format = format
	return p
}
