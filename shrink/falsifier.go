package shrink

import (
	"errors"
	"fmt"
)

// Status classifies the evaluation of a single candidate.
type Status int

const (
	// Falsified means the property did not hold for the candidate.
	Falsified Status = iota
	// Verified means the property held for the candidate.
	Verified
	// FilteredOut means an assumption or filter rejected the candidate. It
	// neither counts as a check nor as a shrinking step.
	FilteredOut
)

func (s Status) String() string {
	switch s {
	case Falsified:
		return "FALSIFIED"
	case Verified:
		return "VERIFIED"
	case FilteredOut:
		return "FILTERED_OUT"
	default:
		return "UNKNOWN"
	}
}

// ErrAssumption is the signal raised by Assume when a precondition does not hold.
var ErrAssumption = errors.New("shrink: assumption not met")

// Assume rejects the current candidate unless condition holds. It must be
// called from inside a predicate evaluated through Predicate.
func Assume(condition bool) {
	if !condition {
		panic(ErrAssumption)
	}
}

// Verdict is the outcome of evaluating one candidate.
type Verdict struct {
	Status Status
	Err    error
}

// Falsifier evaluates a candidate value against a property.
type Falsifier[T any] func(value T) Verdict

// Predicate turns a boolean property into a Falsifier. Panics raised with
// ErrAssumption are treated as FilteredOut; any other panic falsifies the
// property and is reported as the verdict's error.
func Predicate[T any](property func(T) bool) Falsifier[T] {
	return func(value T) (verdict Verdict) {
		defer func() {
			if r := recover(); r != nil {
				verdict = verdictFromPanic(r)
			}
		}()
		if property(value) {
			return Verdict{Status: Verified}
		}
		return Verdict{Status: Falsified}
	}
}

// ErrorPredicate turns a property returning an error into a Falsifier; a nil
// error means the property holds.
func ErrorPredicate[T any](property func(T) error) Falsifier[T] {
	return func(value T) (verdict Verdict) {
		defer func() {
			if r := recover(); r != nil {
				verdict = verdictFromPanic(r)
			}
		}()
		if err := property(value); err != nil {
			if errors.Is(err, ErrAssumption) {
				return Verdict{Status: FilteredOut}
			}
			return Verdict{Status: Falsified, Err: err}
		}
		return Verdict{Status: Verified}
	}
}

func verdictFromPanic(r any) Verdict {
	if err, ok := r.(error); ok {
		if errors.Is(err, ErrAssumption) {
			return Verdict{Status: FilteredOut}
		}
		return Verdict{Status: Falsified, Err: err}
	}
	return Verdict{Status: Falsified, Err: fmt.Errorf("panic: %v", r)}
}

// WithFilter returns a falsifier that classifies values rejected by filter
// as FilteredOut before consulting f.
func (f Falsifier[T]) WithFilter(filter func(T) bool) Falsifier[T] {
	return func(value T) Verdict {
		if !filter(value) {
			return Verdict{Status: FilteredOut}
		}
		return f(value)
	}
}

// Contramap adapts a falsifier of U to values of T.
func Contramap[T, U any](f Falsifier[U], fn func(T) U) Falsifier[T] {
	return func(value T) Verdict {
		return f(fn(value))
	}
}

// FalsificationResult tags a shrinkable with the verdict it received.
type FalsificationResult[T any] struct {
	shrinkable Shrinkable[T]
	status     Status
	err        error
}

// FalsifiedResult creates a falsified result without an error.
func FalsifiedResult[T any](s Shrinkable[T]) FalsificationResult[T] {
	return FalsificationResult[T]{shrinkable: s, status: Falsified}
}

// NewResult creates a result from a shrinkable and a verdict.
func NewResult[T any](s Shrinkable[T], verdict Verdict) FalsificationResult[T] {
	return FalsificationResult[T]{shrinkable: s, status: verdict.Status, err: verdict.Err}
}

// Evaluate runs f against the value of s.
func Evaluate[T any](f Falsifier[T], s Shrinkable[T]) FalsificationResult[T] {
	return NewResult(s, f(s.Value()))
}

// MapResult transforms the shrinkable of a result, keeping status and error.
func MapResult[T, U any](r FalsificationResult[T], fn func(Shrinkable[T]) Shrinkable[U]) FalsificationResult[U] {
	return FalsificationResult[U]{shrinkable: fn(r.shrinkable), status: r.status, err: r.err}
}

// Shrinkable returns the evaluated shrinkable.
func (r FalsificationResult[T]) Shrinkable() Shrinkable[T] { return r.shrinkable }

// Value returns the evaluated value.
func (r FalsificationResult[T]) Value() T { return r.shrinkable.Value() }

// Distance returns the distance of the evaluated shrinkable.
func (r FalsificationResult[T]) Distance() Distance { return r.shrinkable.Distance() }

// Status returns the verdict status.
func (r FalsificationResult[T]) Status() Status { return r.status }

// Err returns the error raised while evaluating, if any.
func (r FalsificationResult[T]) Err() error { return r.err }

// WithErr returns a copy of r carrying err, unless r already has one.
func (r FalsificationResult[T]) WithErr(err error) FalsificationResult[T] {
	if r.err == nil {
		r.err = err
	}
	return r
}
