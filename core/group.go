package core

import (
	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/schema"
)

// openEditor ties a live input to the signal subscriptions the service
// holds on it.
type openEditor struct {
	input   editor.Input
	cancels []func()
}

func (e *openEditor) unwire() {
	for _, cancel := range e.cancels {
		cancel()
	}
	e.cancels = nil
}

// group is an ordered set of open editors with at most one active entry.
// Slice order is open order; the oldest editor sits at the front.
type group struct {
	id      schema.GroupID
	editors []*openEditor
	active  schema.InputID
}

func (g *group) find(id schema.InputID) (int, *openEditor) {
	for i, e := range g.editors {
		if e.input.InputID() == id {
			return i, e
		}
	}
	return -1, nil
}

func (g *group) removeAt(idx int) *openEditor {
	entry := g.editors[idx]
	g.editors = append(g.editors[:idx], g.editors[idx+1:]...)
	if g.active == entry.input.InputID() {
		g.active = 0
		if len(g.editors) > 0 {
			next := idx - 1
			if next < 0 {
				next = 0
			}
			g.active = g.editors[next].input.InputID()
		}
	}
	return entry
}

// removeOldestInactive evicts the oldest editor that is neither active
// nor dirty, falling back to the oldest non-active, then the oldest.
func (g *group) removeOldestInactive() *openEditor {
	for _, dirtyOK := range []bool{false, true} {
		for i, e := range g.editors {
			if e.input.InputID() == g.active {
				continue
			}
			if !dirtyOK && e.input.Dirty() {
				continue
			}
			return g.removeAt(i)
		}
	}
	if len(g.editors) == 0 {
		return nil
	}
	return g.removeAt(0)
}

// snapshot captures the group for listing. Active is the index of the
// active editor, -1 when the group is empty.
func (g *group) snapshot() schema.GroupSnapshot {
	snap := schema.GroupSnapshot{ID: g.id, Active: -1}
	for i, e := range g.editors {
		snap.Editors = append(snap.Editors, editor.Snapshot(e.input))
		if e.input.InputID() == g.active {
			snap.Active = i
		}
	}
	return snap
}

// serializable captures the group's restorable editors, skipping inputs
// without an untyped form. Active indexes into the serialized list.
func (g *group) serializable() (schema.GroupSnapshot, int) {
	snap := schema.GroupSnapshot{ID: g.id, Active: -1}
	skipped := 0
	for _, e := range g.editors {
		es := editor.Snapshot(e.input)
		if es.Untyped == nil {
			skipped++
			continue
		}
		snap.Editors = append(snap.Editors, es)
		if e.input.InputID() == g.active {
			snap.Active = len(snap.Editors) - 1
		}
	}
	return snap, skipped
}

// workspaceState holds a workspace's groups in display order.
type workspaceState struct {
	groups map[schema.GroupID]*group
	order  []schema.GroupID
}

func newWorkspaceState() *workspaceState {
	return &workspaceState{groups: make(map[schema.GroupID]*group)}
}

func (w *workspaceState) getOrCreateGroup(id schema.GroupID) *group {
	g := w.groups[id]
	if g == nil {
		g = &group{id: id}
		w.groups[id] = g
		w.order = append(w.order, id)
	}
	return g
}
