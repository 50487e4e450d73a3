package arbitrary

import (
	"math/rand"
	"sync"
	"sync/atomic"

	apperrors "github.com/authcorp/proptest/errors"
	"github.com/authcorp/proptest/exhaustive"
	"github.com/authcorp/proptest/generator"
	"github.com/authcorp/proptest/shrink"
)

// lazy is an arbitrary whose definition is computed on first generation and
// memoized.
type lazy[T any] struct {
	supplier func() Arbitrary[T]
	value    Arbitrary[T]
	once     sync.Once
	done     uint32
}

// Lazy defers calling supplier until a value is generated, so arbitraries
// can refer to themselves. Lazy arbitraries have no edge cases and no
// exhaustive generator.
func Lazy[T any](supplier func() Arbitrary[T]) Arbitrary[T] {
	return &lazy[T]{supplier: supplier}
}

func (l *lazy[T]) get() Arbitrary[T] {
	l.once.Do(func() {
		l.value = l.supplier()
		atomic.StoreUint32(&l.done, 1)
	})
	return l.value
}

// evaluated reports whether the supplier has been called.
func (l *lazy[T]) evaluated() bool {
	return atomic.LoadUint32(&l.done) == 1
}

func (l *lazy[T]) Generator(genSize int) generator.RandomGenerator[T] {
	return func(r *rand.Rand) shrink.Shrinkable[T] {
		return l.get().Generator(genSize)(r)
	}
}

func (l *lazy[T]) Exhaustive(int64) (exhaustive.Generator[T], bool) { return nil, false }

func (l *lazy[T]) EdgeCases() []shrink.Shrinkable[T] { return nil }

// LazyOf picks one of the suppliers' arbitraries for every value. Recursive
// grammars terminate as long as at least one supplier does not recurse.
func LazyOf[T any](suppliers ...func() Arbitrary[T]) Arbitrary[T] {
	arbs := make([]Arbitrary[T], len(suppliers))
	for i, s := range suppliers {
		arbs[i] = Lazy(s)
	}
	return OneOf(arbs...)
}

// Recursive applies recur to base a number of times in [minDepth, maxDepth].
// The depth shrinks before the value.
// Panics with INVALID_CONFIGURATION if the depth range is invalid.
func Recursive[T any](base func() Arbitrary[T], recur func(Arbitrary[T]) Arbitrary[T], minDepth, maxDepth int) Arbitrary[T] {
	if minDepth < 0 || maxDepth < minDepth {
		panic(apperrors.InvalidConfiguration("invalid recursion depth range [%d, %d]", minDepth, maxDepth))
	}
	return FlatMap[int, T](Integers[int]().Between(minDepth, maxDepth), func(depth int) Arbitrary[T] {
		a := base()
		for i := 0; i < depth; i++ {
			a = recur(a)
		}
		return a
	})
}

// Arena gives arbitraries of a cyclic grammar stable identities. A Handle can
// be used before its arbitrary is defined; references are resolved when a
// value is generated.
type Arena struct {
	mu    sync.RWMutex
	nodes map[int]any
	next  int
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: make(map[int]any)}
}

// Handle refers to an arbitrary in an arena.
type Handle[T any] struct {
	arena *Arena
	id    int
}

// Declare reserves an identity for an arbitrary of T.
func Declare[T any](arena *Arena) Handle[T] {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	id := arena.next
	arena.next++
	return Handle[T]{arena: arena, id: id}
}

// Define binds the arbitrary of h. Redefining replaces the previous
// arbitrary.
func Define[T any](h Handle[T], a Arbitrary[T]) {
	h.arena.mu.Lock()
	defer h.arena.mu.Unlock()
	h.arena.nodes[h.id] = a
}

// ID returns the identity of h within its arena.
func (h Handle[T]) ID() int { return h.id }

// Arbitrary returns an arbitrary that delegates to the definition of h.
// Generating from it panics with CANNOT_GENERATE if h is not defined.
func (h Handle[T]) Arbitrary() Arbitrary[T] {
	return FromGenerator(func(genSize int) generator.RandomGenerator[T] {
		return func(r *rand.Rand) shrink.Shrinkable[T] {
			return h.resolve().Generator(genSize)(r)
		}
	})
}

func (h Handle[T]) resolve() Arbitrary[T] {
	h.arena.mu.RLock()
	node, ok := h.arena.nodes[h.id]
	h.arena.mu.RUnlock()
	if !ok {
		panic(apperrors.CannotGenerate("arbitrary %d is declared but not defined", h.id))
	}
	return node.(Arbitrary[T])
}
