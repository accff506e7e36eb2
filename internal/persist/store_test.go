package persist

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"pkt.systems/workbench/schema"
)

func TestStoreLoadMissing(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	_, ok, err := store.Load("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("expected missing snapshot")
	}
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	snapshot := schema.WorkspaceSnapshot{
		Groups: []schema.GroupSnapshot{
			{
				ID:     "main",
				Active: 0,
				Editors: []schema.EditorSnapshot{
					{
						TypeID:   "workbench.input.file",
						Name:     "doc.txt",
						Resource: "file:///tmp/doc.txt",
						EditorID: "workbench.pane.text",
						Untyped: &schema.UntypedInput{
							Resource: "file:///tmp/doc.txt",
							Options:  schema.UntypedOptions{Override: "workbench.pane.text"},
						},
					},
				},
			},
		},
	}
	if err := store.Save("alice", snapshot); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := store.Load("alice")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("expected snapshot to exist")
	}
	if !reflect.DeepEqual(snapshot, got) {
		t.Fatalf("snapshot mismatch:\nwant: %+v\ngot:  %+v", snapshot, got)
	}
}

func TestStoreLoadInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	path := filepath.Join(dir, "alice.json")
	if err := os.WriteFile(path, []byte("{not-json"), 0o600); err != nil {
		t.Fatalf("write bad json: %v", err)
	}
	if _, _, err := store.Load("alice"); err == nil {
		t.Fatalf("expected error for invalid JSON")
	}
}

func TestStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Delete("alice"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if err := store.Save("alice", schema.WorkspaceSnapshot{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Delete("alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Load("alice"); ok {
		t.Fatalf("expected snapshot gone after delete")
	}
}
