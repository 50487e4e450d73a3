package arbitrary

import (
	"math/big"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/authcorp/proptest/errors"
)

// TypeDescriptor names a type independently of Go's type system, e.g.
// Type("map", Type("string"), Type("int")).
type TypeDescriptor struct {
	Name   string
	Params []TypeDescriptor
}

// Type creates a type descriptor.
func Type(name string, params ...TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Name: name, Params: params}
}

func (td TypeDescriptor) String() string {
	if len(td.Params) == 0 {
		return td.Name
	}
	params := make([]string, len(td.Params))
	for i, p := range td.Params {
		params[i] = p.String()
	}
	return td.Name + "[" + strings.Join(params, ", ") + "]"
}

// Resolver looks up the arbitrary of a type.
type Resolver func(td TypeDescriptor) (Arbitrary[any], error)

// Provider supplies arbitraries for the types it can handle. Arbitraries of
// type parameters are looked up through resolve.
type Provider interface {
	CanProvideFor(td TypeDescriptor) bool
	ProvideFor(td TypeDescriptor, resolve Resolver) (Arbitrary[any], error)
}

type namedProvider struct {
	name    string
	arity   int
	provide func(params []Arbitrary[any]) Arbitrary[any]
}

// ForName provides the arbitrary of a type without parameters.
func ForName(name string, provide func() Arbitrary[any]) Provider {
	return &namedProvider{name: name, provide: func([]Arbitrary[any]) Arbitrary[any] { return provide() }}
}

// ForContainer provides the arbitrary of a type with arity type parameters.
func ForContainer(name string, arity int, provide func(params []Arbitrary[any]) Arbitrary[any]) Provider {
	return &namedProvider{name: name, arity: arity, provide: provide}
}

func (p *namedProvider) CanProvideFor(td TypeDescriptor) bool {
	return td.Name == p.name && len(td.Params) == p.arity
}

func (p *namedProvider) ProvideFor(td TypeDescriptor, resolve Resolver) (Arbitrary[any], error) {
	params := make([]Arbitrary[any], len(td.Params))
	for i, param := range td.Params {
		a, err := resolve(param)
		if err != nil {
			return nil, err
		}
		params[i] = a
	}
	return p.provide(params), nil
}

// Registry maps type descriptors to arbitraries through registered
// providers. Providers are consulted in registration order.
type Registry struct {
	providers map[string]Provider
	order     []string
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider under name, replacing any provider of that name.
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		r.order = append(r.order, name)
	}
	r.providers[name] = p
}

// Unregister removes the provider registered under name.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.providers[name]; !ok {
		return false
	}
	delete(r.providers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Has checks if a provider is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.providers[name]
	return ok
}

// Names returns the provider names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// ForType returns the arbitrary of the first provider that can handle td.
// The error has code CANNOT_GENERATE if no provider can.
func (r *Registry) ForType(td TypeDescriptor) (Arbitrary[any], error) {
	r.mu.RLock()
	providers := make([]Provider, len(r.order))
	for i, name := range r.order {
		providers[i] = r.providers[name]
	}
	r.mu.RUnlock()

	for _, p := range providers {
		if p.CanProvideFor(td) {
			return p.ProvideFor(td, r.ForType)
		}
	}
	return nil, apperrors.CannotGenerate("no arbitrary registered for type %s", td)
}

// ForTypeOf is ForType for a statically known value type.
func ForTypeOf[T any](r *Registry, td TypeDescriptor) (Arbitrary[T], error) {
	a, err := r.ForType(td)
	if err != nil {
		return nil, err
	}
	return Map(a, func(v any) T { return v.(T) }), nil
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the process-wide registry. It is created with the
// built-in providers on first access.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

func registerBuiltins(r *Registry) {
	scalar := func(name string, provide func() Arbitrary[any]) {
		r.Register(name, ForName(name, provide))
	}
	scalar("bool", func() Arbitrary[any] { return Boxed(Booleans()) })
	scalar("int", func() Arbitrary[any] { return Boxed[int](Integers[int]()) })
	scalar("int8", func() Arbitrary[any] { return Boxed[int8](Integers[int8]()) })
	scalar("int16", func() Arbitrary[any] { return Boxed[int16](Integers[int16]()) })
	scalar("int32", func() Arbitrary[any] { return Boxed[int32](Integers[int32]()) })
	scalar("int64", func() Arbitrary[any] { return Boxed[int64](Integers[int64]()) })
	scalar("uint", func() Arbitrary[any] { return Boxed[uint](Integers[uint]()) })
	scalar("uint8", func() Arbitrary[any] { return Boxed[uint8](Integers[uint8]()) })
	scalar("uint16", func() Arbitrary[any] { return Boxed[uint16](Integers[uint16]()) })
	scalar("uint32", func() Arbitrary[any] { return Boxed[uint32](Integers[uint32]()) })
	scalar("uint64", func() Arbitrary[any] { return Boxed[uint64](Integers[uint64]()) })
	scalar("rune", func() Arbitrary[any] { return Boxed[rune](Chars()) })
	scalar("string", func() Arbitrary[any] { return Boxed[string](Strings()) })
	scalar("bigint", func() Arbitrary[any] { return Boxed[*big.Int](BigIntegers()) })
	scalar("decimal", func() Arbitrary[any] { return Boxed[decimal.Decimal](BigDecimals()) })
	scalar("uuid", func() Arbitrary[any] { return Boxed[uuid.UUID](UUIDs()) })

	r.Register("list", ForContainer("list", 1, func(params []Arbitrary[any]) Arbitrary[any] {
		return Boxed[[]any](ListOf(params[0]))
	}))
	r.Register("set", ForContainer("set", 1, func(params []Arbitrary[any]) Arbitrary[any] {
		return Boxed[map[any]struct{}](SetOf(params[0]))
	}))
	r.Register("map", ForContainer("map", 2, func(params []Arbitrary[any]) Arbitrary[any] {
		return Boxed[map[any]any](MapOf(params[0], params[1]))
	}))
}
