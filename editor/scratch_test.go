package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"pkt.systems/workbench/schema"
)

func TestScratchInputDirtyTracking(t *testing.T) {
	in := NewScratchInput("notes")
	if in.Dirty() {
		t.Fatalf("fresh scratch should be clean")
	}
	fired := 0
	in.OnDirtyChanged(func() { fired++ })
	in.SetContents([]byte("draft"))
	if !in.Dirty() || fired != 1 {
		t.Fatalf("expected dirty after edit, fired=%d", fired)
	}
	if err := in.Revert(context.Background(), schema.DefaultGroup, schema.RevertOptions{}); err != nil {
		t.Fatalf("revert: %v", err)
	}
	if in.Dirty() || fired != 2 {
		t.Fatalf("expected clean after revert, fired=%d", fired)
	}
}

func TestScratchInputSaveWithoutTargetCancels(t *testing.T) {
	in := NewScratchInput("notes")
	in.SetContents([]byte("draft"))
	saved, err := in.Save(context.Background(), schema.DefaultGroup, schema.SaveOptions{})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved != nil {
		t.Fatalf("scratch save without target should cancel")
	}
}

func TestScratchInputSaveConvertsToFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.txt")
	in := NewScratchInput("notes")
	in.SetContents([]byte("draft"))

	saved, err := in.Save(context.Background(), schema.DefaultGroup, schema.SaveOptions{Target: FileResource(target)})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	file, ok := saved.(*FileInput)
	if !ok {
		t.Fatalf("expected file input, got %T", saved)
	}
	if file.Resource() != FileResource(target) {
		t.Fatalf("unexpected resource %q", file.Resource())
	}
	if data, err := os.ReadFile(target); err != nil || string(data) != "draft" {
		t.Fatalf("unexpected content %q, err %v", data, err)
	}
	if in.Dirty() {
		t.Fatalf("scratch should be clean after conversion")
	}
}

func TestScratchInputsDoNotCrossMatch(t *testing.T) {
	a := NewScratchInput("a")
	b := NewScratchInput("b")
	if a.Matches(b) {
		t.Fatalf("distinct scratch inputs must not match")
	}
	untypedA := schema.UntypedInput{
		Resource: a.Resource(),
		Options:  schema.UntypedOptions{Override: TextPane},
	}
	if !a.MatchesDescriptor(untypedA) {
		t.Fatalf("scratch should match its own descriptor")
	}
	if b.MatchesDescriptor(untypedA) {
		t.Fatalf("scratch must not match another scratch's descriptor")
	}
}

func TestScratchInputCapabilities(t *testing.T) {
	in := NewScratchInput("notes")
	if !in.HasCapability(schema.CapabilityUntitled) {
		t.Fatalf("expected untitled capability")
	}
	if !in.HasCapability(schema.CapabilityScratchpad) {
		t.Fatalf("expected scratchpad capability")
	}
	if in.ToUntyped() != nil {
		t.Fatalf("scratch has no serializable form")
	}
}
