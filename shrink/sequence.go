package shrink

import "sort"

// Sequence is a resumable shrinking search. Each call to Next tries candidates
// until one is accepted or the search is exhausted. count is invoked once per
// accepted step and onFalsified receives the new best result.
//
// A Sequence models exactly one shrink run and must not be shared between
// goroutines.
type Sequence[T any] interface {
	Next(count func(), onFalsified func(FalsificationResult[T])) bool
	Current() FalsificationResult[T]
}

type dontShrink[T any] struct {
	current FalsificationResult[T]
}

// DontShrink returns a sequence that is exhausted from the start.
func DontShrink[T any](s Shrinkable[T]) Sequence[T] {
	return &dontShrink[T]{current: FalsifiedResult(s)}
}

func (d *dontShrink[T]) Next(func(), func(FalsificationResult[T])) bool { return false }
func (d *dontShrink[T]) Current() FalsificationResult[T]                { return d.current }

type deepSearch[T any] struct {
	current      FalsificationResult[T]
	candidatesOf func(Shrinkable[T]) []Shrinkable[T]
	less         func(a, b Shrinkable[T]) bool
	falsifier    Falsifier[T]
	pending      []Shrinkable[T]
	loaded       bool
	exhausted    bool
}

// NewDeepSearch searches from start by repeatedly replacing the current best
// with its smallest falsifying candidate. Candidates are tried in ascending
// distance order and only those strictly smaller than the current best are
// considered. Verified and filtered out candidates are skipped without
// counting.
func NewDeepSearch[T any](start Shrinkable[T], candidatesOf func(Shrinkable[T]) []Shrinkable[T], falsifier Falsifier[T]) Sequence[T] {
	return NewDeepSearchBy(start, candidatesOf, byDistance[T], falsifier)
}

// NewDeepSearchBy is NewDeepSearch with an explicit order. less must be a
// strict order whose minimum is the shrinking target; shrinkables whose
// Distance saturates use it to keep ranking candidates exactly.
func NewDeepSearchBy[T any](start Shrinkable[T], candidatesOf func(Shrinkable[T]) []Shrinkable[T], less func(a, b Shrinkable[T]) bool, falsifier Falsifier[T]) Sequence[T] {
	return &deepSearch[T]{
		current:      FalsifiedResult(start),
		candidatesOf: candidatesOf,
		less:         less,
		falsifier:    falsifier,
	}
}

func byDistance[T any](a, b Shrinkable[T]) bool {
	return a.Distance().Less(b.Distance())
}

func (d *deepSearch[T]) Next(count func(), onFalsified func(FalsificationResult[T])) bool {
	if d.exhausted {
		return false
	}
	if !d.loaded {
		d.pending = d.smallerCandidates()
		d.loaded = true
	}
	for len(d.pending) > 0 {
		candidate := d.pending[0]
		d.pending = d.pending[1:]

		result := Evaluate(d.falsifier, candidate)
		if result.Status() != Falsified {
			continue
		}
		d.current = result
		d.pending = nil
		d.loaded = false
		count()
		onFalsified(result)
		return true
	}
	d.exhausted = true
	return false
}

func (d *deepSearch[T]) smallerCandidates() []Shrinkable[T] {
	best := d.current.Shrinkable()
	var smaller []Shrinkable[T]
	for _, c := range d.candidatesOf(best) {
		if d.less(c, best) {
			smaller = append(smaller, c)
		}
	}
	sort.SliceStable(smaller, func(i, j int) bool {
		return d.less(smaller[i], smaller[j])
	})
	return smaller
}

func (d *deepSearch[T]) Current() FalsificationResult[T] { return d.current }

// ElementsOptions describes how the positions of a composite value are put
// back together while shrinking one position at a time.
type ElementsOptions[E, T any] struct {
	// CombineValues builds the composite value evaluated by the falsifier.
	CombineValues func([]E) T
	// CombineShrinkables builds the composite shrinkable reported as result.
	CombineShrinkables func([]Shrinkable[E]) Shrinkable[T]
	// Valid, if set, rejects element combinations; rejected candidates are
	// treated as filtered out.
	Valid func([]E) bool
}

type elementsSequence[E, T any] struct {
	elements  []Shrinkable[E]
	falsifier Falsifier[T]
	opts      ElementsOptions[E, T]
	position  int
	inner     Sequence[E]
	current   FalsificationResult[T]
}

// NewElements shrinks the positions of a composite value left to right. Each
// position is shrunk to exhaustion with its own shrinker while the others stay
// fixed, and every candidate is judged on the whole composite value.
func NewElements[E, T any](elements []Shrinkable[E], falsifier Falsifier[T], opts ElementsOptions[E, T]) Sequence[T] {
	copied := make([]Shrinkable[E], len(elements))
	copy(copied, elements)
	return &elementsSequence[E, T]{
		elements:  copied,
		falsifier: falsifier,
		opts:      opts,
		current:   FalsifiedResult(opts.CombineShrinkables(copied)),
	}
}

func (s *elementsSequence[E, T]) Next(count func(), onFalsified func(FalsificationResult[T])) bool {
	for s.position < len(s.elements) {
		if s.inner == nil {
			s.inner = s.elements[s.position].Shrink(s.elementFalsifier(s.position))
		}
		accepted := s.inner.Next(count, func(r FalsificationResult[E]) {
			s.elements[s.position] = r.Shrinkable()
			s.current = NewResult(s.opts.CombineShrinkables(s.snapshot()), Verdict{Status: Falsified, Err: r.Err()})
			onFalsified(s.current)
		})
		if accepted {
			return true
		}
		s.inner = nil
		s.position++
	}
	return false
}

func (s *elementsSequence[E, T]) elementFalsifier(position int) Falsifier[E] {
	return func(candidate E) Verdict {
		values := make([]E, len(s.elements))
		for i, e := range s.elements {
			values[i] = e.Value()
		}
		values[position] = candidate
		if s.opts.Valid != nil && !s.opts.Valid(values) {
			return Verdict{Status: FilteredOut}
		}
		return s.falsifier(s.opts.CombineValues(values))
	}
}

func (s *elementsSequence[E, T]) snapshot() []Shrinkable[E] {
	copied := make([]Shrinkable[E], len(s.elements))
	copy(copied, s.elements)
	return copied
}

func (s *elementsSequence[E, T]) Current() FalsificationResult[T] { return s.current }

type andThen[T any] struct {
	first    Sequence[T]
	followup func(FalsificationResult[T]) Sequence[T]
	second   Sequence[T]
}

// AndThen runs seq to exhaustion and then continues with the sequence
// followup builds from its final result.
func AndThen[T any](seq Sequence[T], followup func(FalsificationResult[T]) Sequence[T]) Sequence[T] {
	return &andThen[T]{first: seq, followup: followup}
}

func (a *andThen[T]) Next(count func(), onFalsified func(FalsificationResult[T])) bool {
	if a.second == nil {
		if a.first.Next(count, onFalsified) {
			return true
		}
		a.second = a.followup(a.first.Current())
	}
	return a.second.Next(count, onFalsified)
}

func (a *andThen[T]) Current() FalsificationResult[T] {
	if a.second == nil {
		return a.first.Current()
	}
	return a.second.Current()
}

type mappedSequence[T, U any] struct {
	source Sequence[T]
	mapper func(FalsificationResult[T]) FalsificationResult[U]
}

// MapSequence transforms every result reported by seq.
func MapSequence[T, U any](seq Sequence[T], mapper func(FalsificationResult[T]) FalsificationResult[U]) Sequence[U] {
	return &mappedSequence[T, U]{source: seq, mapper: mapper}
}

func (m *mappedSequence[T, U]) Next(count func(), onFalsified func(FalsificationResult[U])) bool {
	return m.source.Next(count, func(r FalsificationResult[T]) {
		onFalsified(m.mapper(r))
	})
}

func (m *mappedSequence[T, U]) Current() FalsificationResult[U] {
	return m.mapper(m.source.Current())
}
