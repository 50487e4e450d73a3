package shrink

type flatMapped[T, U any] struct {
	upstream   Shrinkable[T]
	regenerate func(T) Shrinkable[U]
	downstream Shrinkable[U]
}

// NewFlatMapped creates the shrinkable of a dependent generation. regenerate
// must be deterministic: it is called again for every upstream candidate.
//
// Shrinking reduces the upstream value first, judging each candidate by its
// regenerated downstream value, and then shrinks the downstream value that
// belongs to the final upstream.
func NewFlatMapped[T, U any](upstream Shrinkable[T], regenerate func(T) Shrinkable[U]) Shrinkable[U] {
	return &flatMapped[T, U]{
		upstream:   upstream,
		regenerate: regenerate,
		downstream: regenerate(upstream.Value()),
	}
}

func (f *flatMapped[T, U]) Value() U { return f.downstream.Value() }

func (f *flatMapped[T, U]) Distance() Distance {
	return f.upstream.Distance().Append(f.downstream.Distance())
}

func (f *flatMapped[T, U]) Shrink(falsifier Falsifier[U]) Sequence[U] {
	upstream := f.upstream.Shrink(func(t T) Verdict {
		return falsifier(f.regenerate(t).Value())
	})
	regenerated := MapSequence(upstream, func(r FalsificationResult[T]) FalsificationResult[U] {
		return MapResult(r, func(s Shrinkable[T]) Shrinkable[U] {
			return NewFlatMapped(s, f.regenerate)
		})
	})
	return AndThen(regenerated, func(r FalsificationResult[U]) Sequence[U] {
		current, ok := r.Shrinkable().(*flatMapped[T, U])
		if !ok {
			return DontShrink(r.Shrinkable())
		}
		return current.shrinkDownstream(falsifier)
	})
}

func (f *flatMapped[T, U]) shrinkDownstream(falsifier Falsifier[U]) Sequence[U] {
	downstream := f.downstream.Shrink(falsifier)
	return MapSequence(downstream, func(r FalsificationResult[U]) FalsificationResult[U] {
		return MapResult(r, func(s Shrinkable[U]) Shrinkable[U] {
			return &flatMapped[T, U]{upstream: f.upstream, regenerate: f.regenerate, downstream: s}
		})
	})
}
