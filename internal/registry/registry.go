package registry

import (
	"sync"
	"sync/atomic"

	"github.com/alphadose/haxmap"
)

// Registry is a concurrent name to value lookup.
type Registry[T any] interface {
	Get(name string) (T, bool)
	Add(name string, value T)
	// GetOrAdd returns the value stored under name, or stores and returns the
	// result of valueFn. valueFn runs at most once per missing name, even
	// with concurrent callers. The boolean reports whether the value existed.
	GetOrAdd(name string, valueFn func() T) (T, bool)
	Del(name string)
	Len() int
	// Values returns a snapshot of all stored values in no particular order.
	Values() []T
	Clear()
}

type registry[T any] struct {
	mu     sync.Mutex
	values atomic.Pointer[haxmap.Map[string, T]]
}

func New[T any]() Registry[T] {
	r := &registry[T]{}
	r.values.Store(haxmap.New[string, T]())
	return r
}

func (r *registry[T]) Get(name string) (T, bool) {
	return r.values.Load().Get(name)
}

func (r *registry[T]) Add(name string, value T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values.Load().Set(name, value)
}

func (r *registry[T]) GetOrAdd(name string, valueFn func() T) (T, bool) {
	if v, ok := r.values.Load().Get(name); ok {
		return v, true
	}

	// haxmap may run the constructor once per racing caller, so creation is
	// serialized here and the map is checked again under the lock.
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values.Load().GetOrCompute(name, valueFn)
}

func (r *registry[T]) Del(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values.Load().Del(name)
}

func (r *registry[T]) Len() int {
	return int(r.values.Load().Len())
}

func (r *registry[T]) Values() []T {
	m := r.values.Load()
	out := make([]T, 0, m.Len())
	m.ForEach(func(_ string, v T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func (r *registry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values.Store(haxmap.New[string, T]())
}
