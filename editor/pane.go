package editor

import (
	"fmt"
	"sync"

	"pkt.systems/workbench/schema"
)

// Built-in pane kinds.
const (
	// TextPane opens plain text documents.
	TextPane schema.EditorID = "workbench.pane.text"
	// DiffPane opens side-by-side comparisons.
	DiffPane schema.EditorID = "workbench.pane.diff"
)

// PaneDescriptor describes a registered pane kind able to open inputs.
type PaneDescriptor struct {
	ID    schema.EditorID
	Label string
}

// PaneRegistry holds pane descriptors in registration order. Ordering is
// significant: the first candidate offered for an input is the default
// preference.
type PaneRegistry struct {
	mu    sync.Mutex
	panes []PaneDescriptor
}

// NewPaneRegistry constructs an empty registry.
func NewPaneRegistry() *PaneRegistry {
	return &PaneRegistry{}
}

// DefaultPaneRegistry returns a registry with the built-in text and diff
// panes.
func DefaultPaneRegistry() *PaneRegistry {
	r := NewPaneRegistry()
	_ = r.Register(PaneDescriptor{ID: TextPane, Label: "Text Editor"})
	_ = r.Register(PaneDescriptor{ID: DiffPane, Label: "Diff Editor"})
	return r
}

// Register adds a pane descriptor. Registering an id twice is an error.
func (r *PaneRegistry) Register(pane PaneDescriptor) error {
	if pane.ID == "" {
		return fmt.Errorf("register pane: %w", schema.ErrInvalidRequest)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.panes {
		if p.ID == pane.ID {
			return fmt.Errorf("register pane %q: %w", pane.ID, schema.ErrPaneRegistered)
		}
	}
	r.panes = append(r.panes, pane)
	return nil
}

// Lookup returns the descriptor registered under id.
func (r *PaneRegistry) Lookup(id schema.EditorID) (PaneDescriptor, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.panes {
		if p.ID == id {
			return p, true
		}
	}
	return PaneDescriptor{}, false
}

// CandidatesFor returns the panes able to open the input. A pane matching
// the input's declared editor id is moved to the front; the rest keep
// registration order.
func (r *PaneRegistry) CandidatesFor(in Input) []PaneDescriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	candidates := make([]PaneDescriptor, 0, len(r.panes))
	if id := in.EditorID(); id != "" {
		for _, p := range r.panes {
			if p.ID == id {
				candidates = append(candidates, p)
				break
			}
		}
	}
	for _, p := range r.panes {
		if len(candidates) > 0 && p.ID == candidates[0].ID {
			continue
		}
		candidates = append(candidates, p)
	}
	return candidates
}
