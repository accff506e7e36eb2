package editor

import "sync"

// Disposable releases a resource. Dispose must be safe to call more than
// once.
type Disposable interface {
	Dispose()
}

// DisposableFunc adapts a func to the Disposable interface.
type DisposableFunc func()

// Dispose runs the func.
func (f DisposableFunc) Dispose() {
	if f != nil {
		f()
	}
}

// DisposableStore owns a set of disposables and releases them exactly
// once, in registration order.
type DisposableStore struct {
	mu       sync.Mutex
	items    []Disposable
	disposed bool
}

// Add registers d with the store and returns it. If the store is already
// disposed, d is released immediately.
func (s *DisposableStore) Add(d Disposable) Disposable {
	if d == nil {
		return nil
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		d.Dispose()
		return d
	}
	s.items = append(s.items, d)
	s.mu.Unlock()
	return d
}

// Dispose releases all registered disposables in registration order.
func (s *DisposableStore) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	items := s.items
	s.items = nil
	s.mu.Unlock()
	for _, d := range items {
		d.Dispose()
	}
}
