package core

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/schema"
)

type captureSink struct {
	mu     sync.Mutex
	events []schema.EditorEvent
}

func (c *captureSink) OnEditorEvent(event schema.EditorEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

func (c *captureSink) ofType(eventType schema.EditorEventType) []schema.EditorEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []schema.EditorEvent
	for _, e := range c.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func newTestService(t *testing.T, cfg schema.ServiceConfig, deps ServiceDeps) Service {
	t.Helper()
	svc, err := NewService(cfg, deps)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func fileDescriptor(path string) schema.UntypedInput {
	return schema.UntypedInput{
		Resource: editor.FileResource(path),
		Options:  schema.UntypedOptions{Override: editor.TextPane},
	}
}

func TestOpenUntypedCreatesAndReuses(t *testing.T) {
	sink := &captureSink{}
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{EventSink: sink})
	desc := fileDescriptor(filepath.Join(t.TempDir(), "doc.txt"))

	first, err := svc.OpenUntyped(context.Background(), schema.OpenUntypedRequest{Editor: desc})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if first.Reused {
		t.Fatalf("expected fresh editor on first open")
	}
	if first.Group != schema.DefaultGroup {
		t.Fatalf("expected default group, got %q", first.Group)
	}

	second, err := svc.OpenUntyped(context.Background(), schema.OpenUntypedRequest{Editor: desc})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !second.Reused {
		t.Fatalf("expected descriptor to match the open editor")
	}
	if second.Editor.ID != first.Editor.ID {
		t.Fatalf("expected same editor, got %d and %d", first.Editor.ID, second.Editor.ID)
	}
	if got := len(sink.ofType(schema.EditorEventOpened)); got != 1 {
		t.Fatalf("expected one opened event, got %d", got)
	}
	if got := len(sink.ofType(schema.EditorEventActivated)); got != 1 {
		t.Fatalf("expected one activated event, got %d", got)
	}
}

func TestOpenDistinctResourcesOpensTabs(t *testing.T) {
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{})
	dir := t.TempDir()

	if _, err := svc.OpenUntyped(context.Background(), schema.OpenUntypedRequest{Editor: fileDescriptor(filepath.Join(dir, "a.txt"))}); err != nil {
		t.Fatalf("open a: %v", err)
	}
	if _, err := svc.OpenUntyped(context.Background(), schema.OpenUntypedRequest{Editor: fileDescriptor(filepath.Join(dir, "b.txt"))}); err != nil {
		t.Fatalf("open b: %v", err)
	}

	resp, err := svc.ListEditors(context.Background(), schema.ListEditorsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Groups) != 1 || len(resp.Groups[0].Editors) != 2 {
		t.Fatalf("expected one group with two editors, got %+v", resp.Groups)
	}
	if resp.Groups[0].Active != 1 {
		t.Fatalf("expected the last opened editor active, got index %d", resp.Groups[0].Active)
	}
}

func TestOpenUntypedRejectsInvalidWorkspace(t *testing.T) {
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{})
	_, err := svc.OpenUntyped(context.Background(), schema.OpenUntypedRequest{
		Workspace: "Not Valid!",
		Editor:    fileDescriptor(filepath.Join(t.TempDir(), "doc.txt")),
	})
	if err != schema.ErrInvalidWorkspace {
		t.Fatalf("expected ErrInvalidWorkspace, got %v", err)
	}
}

func TestCloseEditorDisposesInput(t *testing.T) {
	sink := &captureSink{}
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{EventSink: sink})
	dir := t.TempDir()
	first := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "a.txt")))
	second := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "b.txt")))

	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: first}); err != nil {
		t.Fatalf("open first: %v", err)
	}
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: second}); err != nil {
		t.Fatalf("open second: %v", err)
	}

	resp, err := svc.CloseEditor(context.Background(), schema.CloseEditorRequest{Editor: second.InputID()})
	if err != nil {
		t.Fatalf("close: %v", err)
	}
	if !second.Disposed() {
		t.Fatalf("expected closed editor to be disposed")
	}
	if first.Disposed() {
		t.Fatalf("did not expect the other editor to be disposed")
	}
	if resp.ActiveEditor != first.InputID() {
		t.Fatalf("expected remaining editor active, got %d", resp.ActiveEditor)
	}
	if got := len(sink.ofType(schema.EditorEventClosed)); got != 1 {
		t.Fatalf("expected one closed event, got %d", got)
	}
}

func TestCloseEditorUnknownID(t *testing.T) {
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{})
	in := editor.NewFileInput(editor.FileResource(filepath.Join(t.TempDir(), "a.txt")))
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: in}); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := svc.CloseEditor(context.Background(), schema.CloseEditorRequest{Editor: in.InputID() + 1000}); err != schema.ErrEditorNotFound {
		t.Fatalf("expected ErrEditorNotFound, got %v", err)
	}
	if _, err := svc.CloseEditor(context.Background(), schema.CloseEditorRequest{Group: "nope", Editor: in.InputID()}); err != schema.ErrGroupNotFound {
		t.Fatalf("expected ErrGroupNotFound, got %v", err)
	}
}

func TestOpenInputDeduplicatesByMatches(t *testing.T) {
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{})
	path := filepath.Join(t.TempDir(), "doc.txt")
	first := editor.NewFileInput(editor.FileResource(path))
	duplicate := editor.NewFileInput(editor.FileResource(path))

	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: first}); err != nil {
		t.Fatalf("open: %v", err)
	}
	resp, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: duplicate})
	if err != nil {
		t.Fatalf("open duplicate: %v", err)
	}
	if !resp.Reused {
		t.Fatalf("expected file inputs on the same resource to match")
	}
	if resp.Editor.ID != first.InputID() {
		t.Fatalf("expected the original editor, got %d", resp.Editor.ID)
	}
	if duplicate.Disposed() {
		t.Fatalf("caller keeps ownership of the unadopted duplicate")
	}
}

func TestActivateEditor(t *testing.T) {
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{})
	dir := t.TempDir()
	first := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "a.txt")))
	second := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "b.txt")))
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: first}); err != nil {
		t.Fatalf("open first: %v", err)
	}
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: second}); err != nil {
		t.Fatalf("open second: %v", err)
	}

	resp, err := svc.ActivateEditor(context.Background(), schema.ActivateEditorRequest{Editor: first.InputID()})
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if resp.Editor.ID != first.InputID() {
		t.Fatalf("expected first editor activated")
	}
	list, err := svc.ListEditors(context.Background(), schema.ListEditorsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Groups[0].Active != 0 {
		t.Fatalf("expected active index 0, got %d", list.Groups[0].Active)
	}

	if _, err := svc.ActivateEditor(context.Background(), schema.ActivateEditorRequest{Editor: second.InputID() + 1000}); err != schema.ErrEditorNotFound {
		t.Fatalf("expected ErrEditorNotFound, got %v", err)
	}
}

func TestGroupLimitEvictsOldestInactive(t *testing.T) {
	sink := &captureSink{}
	svc := newTestService(t, schema.ServiceConfig{MaxEditorsPerGroup: 2}, ServiceDeps{EventSink: sink})
	dir := t.TempDir()
	first := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "a.txt")))
	second := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "b.txt")))
	third := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "c.txt")))

	for _, in := range []editor.Input{first, second, third} {
		if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: in}); err != nil {
			t.Fatalf("open: %v", err)
		}
	}

	if !first.Disposed() {
		t.Fatalf("expected the oldest editor to be evicted")
	}
	list, err := svc.ListEditors(context.Background(), schema.ListEditorsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Groups[0].Editors) != 2 {
		t.Fatalf("expected two editors after eviction, got %d", len(list.Groups[0].Editors))
	}
	if got := len(sink.ofType(schema.EditorEventClosed)); got != 1 {
		t.Fatalf("expected one closed event for the eviction, got %d", got)
	}
}

func TestGroupLimitPrefersCleanEditors(t *testing.T) {
	svc := newTestService(t, schema.ServiceConfig{MaxEditorsPerGroup: 3}, ServiceDeps{})
	dir := t.TempDir()
	dirty := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "a.txt")))
	clean := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "b.txt")))
	active := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "c.txt")))
	next := editor.NewFileInput(editor.FileResource(filepath.Join(dir, "d.txt")))

	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: dirty}); err != nil {
		t.Fatalf("open dirty: %v", err)
	}
	dirty.SetContents([]byte("unsaved"))
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: clean}); err != nil {
		t.Fatalf("open clean: %v", err)
	}
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: active}); err != nil {
		t.Fatalf("open active: %v", err)
	}
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: next}); err != nil {
		t.Fatalf("open next: %v", err)
	}

	if !clean.Disposed() {
		t.Fatalf("expected the oldest clean inactive editor to be evicted")
	}
	if dirty.Disposed() {
		t.Fatalf("dirty editor should survive eviction while a clean one exists")
	}
	if active.Disposed() {
		t.Fatalf("active editor must not be evicted")
	}
}

func TestExternalDisposeRemovesEditor(t *testing.T) {
	sink := &captureSink{}
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{EventSink: sink})
	in := editor.NewFileInput(editor.FileResource(filepath.Join(t.TempDir(), "a.txt")))
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: in}); err != nil {
		t.Fatalf("open: %v", err)
	}

	in.Dispose()

	list, err := svc.ListEditors(context.Background(), schema.ListEditorsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Groups[0].Editors) != 0 {
		t.Fatalf("expected editor removed after external dispose")
	}
	if got := len(sink.ofType(schema.EditorEventClosed)); got != 1 {
		t.Fatalf("expected one closed event, got %d", got)
	}
}

func TestDirtyAndLabelEventsFlow(t *testing.T) {
	sink := &captureSink{}
	svc := newTestService(t, schema.ServiceConfig{}, ServiceDeps{EventSink: sink})
	in := editor.NewFileInput(editor.FileResource(filepath.Join(t.TempDir(), "a.txt")))
	if _, err := svc.OpenInput(context.Background(), OpenInputRequest{Input: in}); err != nil {
		t.Fatalf("open: %v", err)
	}

	in.SetContents([]byte("edit"))
	in.SetName("renamed")
	in.SetReadonly(true)

	dirty := sink.ofType(schema.EditorEventDirty)
	if len(dirty) != 1 || !dirty[0].Editor.Dirty {
		t.Fatalf("expected one dirty event with dirty state, got %+v", dirty)
	}
	if got := len(sink.ofType(schema.EditorEventLabel)); got != 1 {
		t.Fatalf("expected one label event, got %d", got)
	}
	if got := len(sink.ofType(schema.EditorEventCapabilities)); got != 1 {
		t.Fatalf("expected one capabilities event, got %d", got)
	}
}
