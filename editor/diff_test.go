package editor

import (
	"testing"

	"pkt.systems/workbench/schema"
)

func TestDiffInputStructuralMatch(t *testing.T) {
	d1 := NewDiffInput(NewFileInput("file:///tmp/a.txt"), NewFileInput("file:///tmp/b.txt"))
	d2 := NewDiffInput(NewFileInput("file:///tmp/a.txt"), NewFileInput("file:///tmp/b.txt"))
	d3 := NewDiffInput(NewFileInput("file:///tmp/a.txt"), NewFileInput("file:///tmp/c.txt"))

	if !d1.Matches(d1) {
		t.Fatalf("diff should match itself")
	}
	if !d1.Matches(d2) {
		t.Fatalf("diffs over matching sides should match")
	}
	if d1.Matches(d3) {
		t.Fatalf("diffs over different sides must not match")
	}
	if d1.Matches(NewFileInput("file:///tmp/a.txt")) {
		t.Fatalf("diff must not match a plain file input")
	}
}

func TestDiffInputDisposesChildren(t *testing.T) {
	original := NewFileInput("file:///tmp/a.txt")
	modified := NewFileInput("file:///tmp/b.txt")
	d := NewDiffInput(original, modified)
	d.Dispose()
	if !original.Disposed() || !modified.Disposed() {
		t.Fatalf("disposing the diff should dispose both sides")
	}
}

func TestDiffInputForwardsDirtyAndLabel(t *testing.T) {
	modified := NewFileInput("file:///tmp/b.txt")
	d := NewDiffInput(NewFileInput("file:///tmp/a.txt"), modified)

	dirtyFired := 0
	d.OnDirtyChanged(func() { dirtyFired++ })
	modified.SetContents([]byte("edit"))
	if dirtyFired != 1 {
		t.Fatalf("expected forwarded dirty notification, got %d", dirtyFired)
	}
	if !d.Dirty() {
		t.Fatalf("diff should report the modified side's dirty state")
	}

	labelFired := 0
	d.OnLabelChanged(func() { labelFired++ })
	modified.SetName("renamed.txt")
	if labelFired != 1 {
		t.Fatalf("expected forwarded label notification, got %d", labelFired)
	}
	if d.Name() != "a.txt ↔ renamed.txt" {
		t.Fatalf("unexpected diff name %q", d.Name())
	}
}

func TestDiffInputCopyIsDeep(t *testing.T) {
	d := NewDiffInput(NewFileInput("file:///tmp/a.txt"), NewFileInput("file:///tmp/b.txt"))
	dup, ok := d.Copy().(*DiffInput)
	if !ok {
		t.Fatalf("copy should be a diff input")
	}
	if dup.InputID() == d.InputID() {
		t.Fatalf("copy should be a new instance")
	}
	if dup.Original().InputID() == d.Original().InputID() {
		t.Fatalf("copy should duplicate the sides")
	}
	if !d.Matches(dup) {
		t.Fatalf("copy over the same resources should still match structurally")
	}
}

func TestPaneRegistryCandidates(t *testing.T) {
	reg := DefaultPaneRegistry()
	if err := reg.Register(PaneDescriptor{ID: TextPane}); err == nil {
		t.Fatalf("duplicate registration should error")
	}
	diff := NewDiffInput(NewFileInput("file:///tmp/a.txt"), NewFileInput("file:///tmp/b.txt"))
	candidates := reg.CandidatesFor(diff)
	if len(candidates) != 2 {
		t.Fatalf("expected both panes, got %d", len(candidates))
	}
	if candidates[0].ID != DiffPane {
		t.Fatalf("declared pane should lead, got %q", candidates[0].ID)
	}
	preferred := diff.PreferredPane(candidates)
	if preferred == nil || preferred.ID != DiffPane {
		t.Fatalf("unexpected preferred pane %+v", preferred)
	}
	if _, ok := reg.Lookup(schema.EditorID("missing")); ok {
		t.Fatalf("lookup of unknown pane should fail")
	}
}
