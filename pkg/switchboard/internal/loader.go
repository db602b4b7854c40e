package internal

import (
	"sync"
)

// Loader lazily constructs and caches a value (typically an RPC client) and
// can be Reset to force reconstruction after a failure.
type Loader[T any] interface {
	Get() (T, error)
	Reset()
}

type loader[T any] struct {
	mu       sync.Mutex
	cached   *T
	newValue func() (T, error)
}

func NewLoader[T any](newValue func() (T, error)) Loader[T] {
	return &loader[T]{newValue: newValue}
}

func (l *loader[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return *l.cached, nil
	}

	v, err := l.newValue()
	if err != nil {
		var zero T
		return zero, err
	}
	l.cached = &v
	return v, nil
}

func (l *loader[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cached = nil
}
