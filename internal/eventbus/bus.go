package eventbus

import (
	"context"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/workbench/schema"
)

// Bus fanouts editor events to per-workspace subscribers.
type Bus struct {
	mu    sync.Mutex
	subs  map[schema.WorkspaceID]map[chan schema.EditorEvent]struct{}
	log   pslog.Logger
	depth int
}

// New constructs a Bus.
func New(logger pslog.Logger) *Bus {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Bus{
		subs:  make(map[schema.WorkspaceID]map[chan schema.EditorEvent]struct{}),
		log:   logger,
		depth: 256,
	}
}

// Subscribe registers a subscriber for the workspace and returns a
// channel + cancel.
func (b *Bus) Subscribe(workspace schema.WorkspaceID) (<-chan schema.EditorEvent, func()) {
	if b == nil {
		return nil, func() {}
	}
	ch := make(chan schema.EditorEvent, b.depth)
	b.mu.Lock()
	wsSubs := b.subs[workspace]
	if wsSubs == nil {
		wsSubs = make(map[chan schema.EditorEvent]struct{})
		b.subs[workspace] = wsSubs
	}
	wsSubs[ch] = struct{}{}
	count := len(wsSubs)
	b.mu.Unlock()
	if b.log != nil {
		b.log.With("workspace", workspace).Debug("eventbus subscribe", "subs", count)
	}
	return ch, func() {
		b.mu.Lock()
		subs := b.subs[workspace]
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(b.subs, workspace)
			}
			// Publish sends under the same lock, so closing here
			// cannot race a send.
			close(ch)
		}
		b.mu.Unlock()
		if b.log != nil {
			b.log.With("workspace", workspace).Debug("eventbus unsubscribe")
		}
	}
}

// OnEditorEvent publishes an editor event to the event's workspace.
// Sends happen under the bus lock and never block, so a slow subscriber
// drops events rather than stalling the publisher.
func (b *Bus) OnEditorEvent(event schema.EditorEvent) {
	if b == nil {
		return
	}
	dropped := 0
	b.mu.Lock()
	for sub := range b.subs[event.Workspace] {
		select {
		case sub <- event:
		default:
			dropped++
		}
	}
	b.mu.Unlock()
	if dropped > 0 && b.log != nil {
		b.log.With("workspace", event.Workspace).Trace("eventbus dropped", "count", dropped)
	}
}
