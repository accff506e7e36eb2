package editor

import "testing"

func TestSignalDeliversInSubscriptionOrder(t *testing.T) {
	var s Signal
	var order []int
	s.Subscribe(func() { order = append(order, 1) })
	s.Subscribe(func() { order = append(order, 2) })
	s.Subscribe(func() { order = append(order, 3) })
	s.Emit()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("unexpected delivery order: %v", order)
	}
}

func TestSignalCancelStopsDelivery(t *testing.T) {
	var s Signal
	first, second := 0, 0
	cancel := s.Subscribe(func() { first++ })
	s.Subscribe(func() { second++ })
	s.Emit()
	cancel()
	cancel()
	s.Emit()
	if first != 1 {
		t.Fatalf("cancelled listener received %d deliveries", first)
	}
	if second != 2 {
		t.Fatalf("remaining listener received %d deliveries", second)
	}
}

func TestSignalEmitIsSynchronous(t *testing.T) {
	var s Signal
	delivered := false
	s.Subscribe(func() { delivered = true })
	s.Emit()
	if !delivered {
		t.Fatalf("emit should deliver before returning")
	}
}

func TestSignalDisposeDropsListeners(t *testing.T) {
	var s Signal
	fired := false
	s.Subscribe(func() { fired = true })
	s.Dispose()
	s.Emit()
	if fired {
		t.Fatalf("disposed signal should not deliver")
	}
	s.Subscribe(func() { fired = true })
	s.Emit()
	if fired {
		t.Fatalf("subscription after dispose should be inert")
	}
}

func TestDisposableStoreReleasesInOrderOnce(t *testing.T) {
	var store DisposableStore
	var order []int
	store.Add(DisposableFunc(func() { order = append(order, 1) }))
	store.Add(DisposableFunc(func() { order = append(order, 2) }))
	store.Dispose()
	store.Dispose()
	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("unexpected release order: %v", order)
	}
}

func TestDisposableStoreAddAfterDispose(t *testing.T) {
	var store DisposableStore
	store.Dispose()
	released := false
	store.Add(DisposableFunc(func() { released = true }))
	if !released {
		t.Fatalf("adding to a disposed store should release immediately")
	}
}
