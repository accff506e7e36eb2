package editor

import "sync"

// Signal is a synchronous broadcast channel carrying no payload. Emit
// invokes every currently-subscribed listener, in subscription order,
// before returning, so observers never see two different logical states
// for one delivery.
type Signal struct {
	mu       sync.Mutex
	nextID   uint64
	subs     []signalSub
	disposed bool
}

type signalSub struct {
	id uint64
	fn func()
}

// Subscribe registers a listener and returns a cancel func that stops
// future deliveries to it. Subscribing to a disposed signal is a no-op.
func (s *Signal) Subscribe(fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return func() {}
	}
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, signalSub{id: id, fn: fn})
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
	}
}

// Emit delivers the signal to all current listeners in subscription order.
func (s *Signal) Emit() {
	if s == nil {
		return
	}
	s.mu.Lock()
	subs := make([]signalSub, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, sub := range subs {
		sub.fn()
	}
}

// Dispose drops all listeners and rejects future subscriptions.
func (s *Signal) Dispose() {
	s.mu.Lock()
	s.subs = nil
	s.disposed = true
	s.mu.Unlock()
}
