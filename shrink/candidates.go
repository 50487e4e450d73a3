package shrink

// Candidates enumerates the next-step shrink candidates of a single value.
type Candidates[T any] interface {
	CandidatesFor(value T) []T
}

// CandidatesFunc adapts a plain function to Candidates.
type CandidatesFunc[T any] func(value T) []T

// CandidatesFor implements Candidates.
func (f CandidatesFunc[T]) CandidatesFor(value T) []T { return f(value) }

// ListCandidates removes elements from a list without going below MinSize:
// the right half, the left half, and every single element.
type ListCandidates[E any] struct {
	MinSize int
}

// CandidatesFor implements Candidates.
func (c ListCandidates[E]) CandidatesFor(elements []E) [][]E {
	n := len(elements)
	if n <= c.MinSize || n == 0 {
		return nil
	}

	var candidates [][]E
	half := n / 2
	if half > 1 && n-half >= c.MinSize {
		candidates = append(candidates, cloneSlice(elements[:n-half]))
		candidates = append(candidates, cloneSlice(elements[half:]))
	}
	for i := range elements {
		removed := make([]E, 0, n-1)
		removed = append(removed, elements[:i]...)
		removed = append(removed, elements[i+1:]...)
		candidates = append(candidates, removed)
	}
	return candidates
}

func cloneSlice[E any](s []E) []E {
	copied := make([]E, len(s))
	copy(copied, s)
	return copied
}
