package core

import (
	"context"
	"errors"
	"sync"

	"pkt.systems/pslog"
	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/internal/backup"
	"pkt.systems/workbench/internal/logx"
	"pkt.systems/workbench/internal/persist"
	"pkt.systems/workbench/schema"
)

// service implements the core service behavior.
type service struct {
	cfg        schema.ServiceConfig
	factory    InputFactory
	panes      *editor.PaneRegistry
	sink       EventSink
	store      *persist.Store
	backups    *backup.Store
	logger     pslog.Logger
	mu         sync.Mutex
	workspaces map[schema.WorkspaceID]*workspaceState
}

// NewService constructs the core service implementation.
func NewService(cfg schema.ServiceConfig, deps ServiceDeps) (Service, error) {
	normalized, err := schema.NormalizeServiceConfig(cfg)
	if err != nil {
		return nil, err
	}
	cfg = normalized
	if deps.Factory == nil {
		deps.Factory = DefaultFactory{}
	}
	if deps.Panes == nil {
		deps.Panes = editor.DefaultPaneRegistry()
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &service{
		cfg:        cfg,
		factory:    deps.Factory,
		panes:      deps.Panes,
		sink:       deps.EventSink,
		store:      deps.Store,
		backups:    deps.Backups,
		logger:     logger,
		workspaces: make(map[schema.WorkspaceID]*workspaceState),
	}, nil
}

func (s *service) OpenUntyped(ctx context.Context, req schema.OpenUntypedRequest) (schema.OpenEditorResponse, error) {
	if ctx == nil {
		return schema.OpenEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.OpenEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)

	s.mu.Lock()
	state := s.getOrCreateWorkspaceLocked(workspace)
	g := state.getOrCreateGroup(groupID)
	for _, e := range g.editors {
		if e.input.MatchesDescriptor(req.Editor) {
			g.active = e.input.InputID()
			snap := editor.Snapshot(e.input)
			event := schema.EditorEvent{
				Workspace:    workspace,
				Type:         schema.EditorEventActivated,
				Group:        groupID,
				Editor:       snap,
				ActiveEditor: g.active,
			}
			s.mu.Unlock()
			s.emitEvent(event)
			s.persistWorkspace(log, workspace)
			logx.WithEditor(log, snap).Debug("service editor reused")
			return schema.OpenEditorResponse{Group: groupID, Editor: snap, Reused: true}, nil
		}
	}
	s.mu.Unlock()

	if req.Editor.Options.Override != "" {
		if _, ok := s.panes.Lookup(req.Editor.Options.Override); !ok {
			log.Warn("service open with unregistered pane override", "override", req.Editor.Options.Override)
		}
	}
	in, err := s.factory.Create(req.Editor)
	if err != nil {
		log.Warn("service editor open failed", "err", err, "resource", req.Editor.Resource)
		return schema.OpenEditorResponse{}, err
	}
	return s.adoptInput(log, workspace, groupID, in)
}

func (s *service) OpenInput(ctx context.Context, req OpenInputRequest) (schema.OpenEditorResponse, error) {
	if ctx == nil {
		return schema.OpenEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.OpenEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)
	if req.Input == nil || req.Input.Disposed() {
		log.Warn("service editor open failed", "err", schema.ErrInvalidRequest)
		return schema.OpenEditorResponse{}, schema.ErrInvalidRequest
	}
	return s.adoptInput(log, workspace, groupID, req.Input)
}

// adoptInput inserts the input into the group unless an open editor
// matches it, activates it, and wires its signals to the event sink.
func (s *service) adoptInput(log pslog.Logger, workspace schema.WorkspaceID, groupID schema.GroupID, in editor.Input) (schema.OpenEditorResponse, error) {
	var evicted *openEditor
	var evictedEvent schema.EditorEvent

	s.mu.Lock()
	state := s.getOrCreateWorkspaceLocked(workspace)
	g := state.getOrCreateGroup(groupID)
	for _, e := range g.editors {
		if e.input.Matches(in) || in.Matches(e.input) {
			g.active = e.input.InputID()
			snap := editor.Snapshot(e.input)
			event := schema.EditorEvent{
				Workspace:    workspace,
				Type:         schema.EditorEventActivated,
				Group:        groupID,
				Editor:       snap,
				ActiveEditor: g.active,
			}
			s.mu.Unlock()
			s.emitEvent(event)
			s.persistWorkspace(log, workspace)
			logx.WithEditor(log, snap).Debug("service editor reused")
			return schema.OpenEditorResponse{Group: groupID, Editor: snap, Reused: true}, nil
		}
	}
	if len(g.editors) >= s.cfg.MaxEditorsPerGroup {
		evicted = g.removeOldestInactive()
	}
	entry := &openEditor{input: in}
	s.wireInput(entry, workspace, groupID)
	g.editors = append(g.editors, entry)
	g.active = in.InputID()
	snap := editor.Snapshot(in)
	opened := schema.EditorEvent{
		Workspace:    workspace,
		Type:         schema.EditorEventOpened,
		Group:        groupID,
		Editor:       snap,
		ActiveEditor: g.active,
	}
	if evicted != nil {
		evicted.unwire()
		evictedEvent = schema.EditorEvent{
			Workspace:    workspace,
			Type:         schema.EditorEventClosed,
			Group:        groupID,
			Editor:       editor.Snapshot(evicted.input),
			ActiveEditor: g.active,
		}
	}
	s.mu.Unlock()

	if evicted != nil {
		s.emitEvent(evictedEvent)
		s.discardBackup(log, workspace, evicted.input)
		evicted.input.Dispose()
		log.Debug("service editor evicted", "resource", evictedEvent.Editor.Resource)
	}
	s.emitEvent(opened)
	s.persistWorkspace(log, workspace)
	pane := in.PreferredPane(s.panes.CandidatesFor(in))
	elog := logx.WithEditor(log, snap)
	if pane != nil {
		elog = elog.With("pane", pane.ID)
	}
	elog.Info("service editor opened")
	return schema.OpenEditorResponse{Group: groupID, Editor: snap, Reused: false}, nil
}

func (s *service) CloseEditor(ctx context.Context, req schema.CloseEditorRequest) (schema.CloseEditorResponse, error) {
	if ctx == nil {
		return schema.CloseEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.CloseEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)

	s.mu.Lock()
	g, err := s.lookupGroupLocked(workspace, groupID)
	if err != nil {
		s.mu.Unlock()
		log.Warn("service editor close failed", "err", err)
		return schema.CloseEditorResponse{}, err
	}
	idx, entry := g.find(req.Editor)
	if entry == nil {
		s.mu.Unlock()
		log.Warn("service editor close failed", "err", schema.ErrEditorNotFound)
		return schema.CloseEditorResponse{}, schema.ErrEditorNotFound
	}
	g.removeAt(idx)
	entry.unwire()
	active := g.active
	event := schema.EditorEvent{
		Workspace:    workspace,
		Type:         schema.EditorEventClosed,
		Group:        groupID,
		Editor:       editor.Snapshot(entry.input),
		ActiveEditor: active,
	}
	s.mu.Unlock()

	s.emitEvent(event)
	s.discardBackup(log, workspace, entry.input)
	entry.input.Dispose()
	s.persistWorkspace(log, workspace)
	log.Info("service editor closed", "resource", event.Editor.Resource)
	return schema.CloseEditorResponse{ActiveEditor: active}, nil
}

func (s *service) ListEditors(ctx context.Context, req schema.ListEditorsRequest) (schema.ListEditorsResponse, error) {
	if ctx == nil {
		return schema.ListEditorsResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.ListEditorsResponse{}, err
	}
	log := logx.WithWorkspace(ctx, workspace)

	s.mu.Lock()
	defer s.mu.Unlock()
	state := s.workspaces[workspace]
	if state == nil {
		return schema.ListEditorsResponse{}, nil
	}
	groups := make([]schema.GroupSnapshot, 0, len(state.order))
	count := 0
	for _, id := range state.order {
		g := state.groups[id]
		if g == nil {
			continue
		}
		snap := g.snapshot()
		count += len(snap.Editors)
		groups = append(groups, snap)
	}
	log.Trace("service editors listed", "groups", len(groups), "editors", count)
	return schema.ListEditorsResponse{Groups: groups}, nil
}

func (s *service) ActivateEditor(ctx context.Context, req schema.ActivateEditorRequest) (schema.ActivateEditorResponse, error) {
	if ctx == nil {
		return schema.ActivateEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.ActivateEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)

	s.mu.Lock()
	g, err := s.lookupGroupLocked(workspace, groupID)
	if err != nil {
		s.mu.Unlock()
		log.Warn("service editor activate failed", "err", err)
		return schema.ActivateEditorResponse{}, err
	}
	_, entry := g.find(req.Editor)
	if entry == nil {
		s.mu.Unlock()
		log.Warn("service editor activate failed", "err", schema.ErrEditorNotFound)
		return schema.ActivateEditorResponse{}, schema.ErrEditorNotFound
	}
	g.active = entry.input.InputID()
	snap := editor.Snapshot(entry.input)
	event := schema.EditorEvent{
		Workspace:    workspace,
		Type:         schema.EditorEventActivated,
		Group:        groupID,
		Editor:       snap,
		ActiveEditor: g.active,
	}
	s.mu.Unlock()

	s.emitEvent(event)
	s.persistWorkspace(log, workspace)
	log.Debug("service editor activated", "resource", snap.Resource)
	return schema.ActivateEditorResponse{Editor: snap}, nil
}

func (s *service) SaveEditor(ctx context.Context, req schema.SaveEditorRequest) (schema.SaveEditorResponse, error) {
	if ctx == nil {
		return schema.SaveEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.SaveEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)
	in, err := s.lookupInput(workspace, groupID, req.Editor)
	if err != nil {
		log.Warn("service editor save failed", "err", err)
		return schema.SaveEditorResponse{}, err
	}

	opts := schema.SaveOptions{Target: req.Target, Force: req.Force}
	var result editor.Input
	if req.SaveAs {
		result, err = in.SaveAs(ctx, groupID, opts)
	} else {
		result, err = in.Save(ctx, groupID, opts)
	}
	if err != nil {
		log.Warn("service editor save failed", "err", err)
		return schema.SaveEditorResponse{}, err
	}
	if result == nil {
		log.Debug("service editor save cancelled")
		return schema.SaveEditorResponse{Cancelled: true}, nil
	}
	if result.InputID() == in.InputID() {
		if !in.Dirty() {
			s.discardBackup(log, workspace, in)
		}
		s.persistWorkspace(log, workspace)
		log.Info("service editor saved", "resource", in.Resource())
		return schema.SaveEditorResponse{Editor: editor.Snapshot(in)}, nil
	}

	s.replaceInput(log, workspace, groupID, in, result)
	log.Info("service editor saved", "resource", result.Resource(), "replaced", true)
	return schema.SaveEditorResponse{Editor: editor.Snapshot(result), Replaced: true}, nil
}

func (s *service) RevertEditor(ctx context.Context, req schema.RevertEditorRequest) (schema.RevertEditorResponse, error) {
	if ctx == nil {
		return schema.RevertEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.RevertEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)
	in, err := s.lookupInput(workspace, groupID, req.Editor)
	if err != nil {
		log.Warn("service editor revert failed", "err", err)
		return schema.RevertEditorResponse{}, err
	}
	if err := in.Revert(ctx, groupID, schema.RevertOptions{Soft: req.Soft}); err != nil {
		log.Warn("service editor revert failed", "err", err)
		return schema.RevertEditorResponse{}, err
	}
	if !in.Dirty() {
		s.discardBackup(log, workspace, in)
	}
	s.persistWorkspace(log, workspace)
	log.Info("service editor reverted", "resource", in.Resource())
	return schema.RevertEditorResponse{Editor: editor.Snapshot(in)}, nil
}

func (s *service) RenameEditor(ctx context.Context, req schema.RenameEditorRequest) (schema.RenameEditorResponse, error) {
	if ctx == nil {
		return schema.RenameEditorResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.RenameEditorResponse{}, err
	}
	groupID := s.normalizeGroup(req.Group)
	log := logx.WithWorkspaceGroup(ctx, workspace, groupID)
	in, err := s.lookupInput(workspace, groupID, req.Editor)
	if err != nil {
		log.Warn("service editor rename failed", "err", err)
		return schema.RenameEditorResponse{}, err
	}

	move := in.Rename(groupID, req.Target)
	if move == nil {
		log.Debug("service editor rename unsupported", "resource", in.Resource())
		return schema.RenameEditorResponse{Editor: editor.Snapshot(in)}, nil
	}
	replacement, err := s.factory.Create(move.Editor)
	if err != nil {
		log.Warn("service editor rename failed", "err", err, "target", move.Editor.Resource)
		return schema.RenameEditorResponse{}, err
	}
	carryBuffer(in, replacement)
	s.replaceInput(log, workspace, groupID, in, replacement)
	if replacement.Dirty() {
		s.syncBackup(workspace, replacement, true)
	}
	log.Info("service editor renamed", "resource", replacement.Resource())
	return schema.RenameEditorResponse{Move: move, Editor: editor.Snapshot(replacement)}, nil
}

func (s *service) SnapshotWorkspace(ctx context.Context, req schema.SnapshotWorkspaceRequest) (schema.SnapshotWorkspaceResponse, error) {
	if ctx == nil {
		return schema.SnapshotWorkspaceResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.SnapshotWorkspaceResponse{}, err
	}
	log := logx.WithWorkspace(ctx, workspace)

	snapshot, skipped := s.serializeWorkspace(workspace)
	if s.store != nil {
		if err := s.store.Save(workspace, snapshot); err != nil {
			log.Warn("service snapshot failed", "err", err)
			return schema.SnapshotWorkspaceResponse{}, err
		}
	}
	log.Debug("service workspace snapshotted", "groups", len(snapshot.Groups), "skipped", skipped)
	return schema.SnapshotWorkspaceResponse{Snapshot: snapshot, Skipped: skipped}, nil
}

func (s *service) RestoreWorkspace(ctx context.Context, req schema.RestoreWorkspaceRequest) (schema.RestoreWorkspaceResponse, error) {
	if ctx == nil {
		return schema.RestoreWorkspaceResponse{}, errors.New("missing context")
	}
	workspace, err := schema.NormalizeWorkspaceID(req.Workspace)
	if err != nil {
		return schema.RestoreWorkspaceResponse{}, err
	}
	log := logx.WithWorkspace(ctx, workspace)

	snapshot := req.Snapshot
	if len(snapshot.Groups) == 0 && s.store != nil {
		loaded, ok, err := s.store.Load(workspace)
		if err != nil {
			log.Warn("service restore failed", "err", err)
			return schema.RestoreWorkspaceResponse{}, err
		}
		if ok {
			snapshot = loaded
		}
	}

	opened := 0
	skipped := 0
	for _, gs := range snapshot.Groups {
		var activeID schema.InputID
		for i, es := range gs.Editors {
			if es.Untyped == nil {
				skipped++
				continue
			}
			resp, err := s.OpenUntyped(ctx, schema.OpenUntypedRequest{
				Workspace: workspace,
				Group:     gs.ID,
				Editor:    *es.Untyped,
			})
			if err != nil {
				log.Warn("service restore skipped editor", "err", err, "resource", es.Resource)
				skipped++
				continue
			}
			opened++
			if i == gs.Active {
				activeID = resp.Editor.ID
			}
		}
		if activeID != 0 {
			if _, err := s.ActivateEditor(ctx, schema.ActivateEditorRequest{
				Workspace: workspace,
				Group:     gs.ID,
				Editor:    activeID,
			}); err != nil {
				log.Warn("service restore activate failed", "err", err)
			}
		}
	}
	log.Info("service workspace restored", "opened", opened, "skipped", skipped)
	return schema.RestoreWorkspaceResponse{Opened: opened, Skipped: skipped}, nil
}

// Shutdown persists every workspace and disposes all open editors.
// Backups for dirty editors stay on disk for the next start.
func (s *service) Shutdown(ctx context.Context) error {
	log := logx.Ctx(ctx)

	s.mu.Lock()
	workspaces := make([]schema.WorkspaceID, 0, len(s.workspaces))
	for id := range s.workspaces {
		workspaces = append(workspaces, id)
	}
	snapshots := make(map[schema.WorkspaceID]schema.WorkspaceSnapshot, len(workspaces))
	var entries []*openEditor
	for _, id := range workspaces {
		state := s.workspaces[id]
		snapshot := schema.WorkspaceSnapshot{}
		for _, gid := range state.order {
			g := state.groups[gid]
			if g == nil {
				continue
			}
			gs, _ := g.serializable()
			snapshot.Groups = append(snapshot.Groups, gs)
			entries = append(entries, g.editors...)
		}
		snapshots[id] = snapshot
	}
	s.workspaces = make(map[schema.WorkspaceID]*workspaceState)
	s.mu.Unlock()

	if s.store != nil {
		for id, snapshot := range snapshots {
			if err := s.store.Save(id, snapshot); err != nil {
				log.Warn("service shutdown persist failed", "workspace", id, "err", err)
			}
		}
	}
	for _, entry := range entries {
		entry.unwire()
		entry.input.Dispose()
	}
	log.Info("service shut down", "workspaces", len(workspaces), "editors", len(entries))
	return nil
}

func (s *service) normalizeGroup(id schema.GroupID) schema.GroupID {
	if id == "" {
		return s.cfg.DefaultGroup
	}
	return id
}

func (s *service) getOrCreateWorkspaceLocked(workspace schema.WorkspaceID) *workspaceState {
	state := s.workspaces[workspace]
	if state == nil {
		state = newWorkspaceState()
		s.workspaces[workspace] = state
	}
	return state
}

func (s *service) lookupGroupLocked(workspace schema.WorkspaceID, groupID schema.GroupID) (*group, error) {
	state := s.workspaces[workspace]
	if state == nil {
		return nil, schema.ErrGroupNotFound
	}
	g := state.groups[groupID]
	if g == nil {
		return nil, schema.ErrGroupNotFound
	}
	return g, nil
}

func (s *service) lookupInput(workspace schema.WorkspaceID, groupID schema.GroupID, id schema.InputID) (editor.Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, err := s.lookupGroupLocked(workspace, groupID)
	if err != nil {
		return nil, err
	}
	_, entry := g.find(id)
	if entry == nil {
		return nil, schema.ErrEditorNotFound
	}
	return entry.input, nil
}

// wireInput subscribes the service to the input's change signals. Caller
// holds s.mu; the handlers re-acquire it when the signals fire.
func (s *service) wireInput(entry *openEditor, workspace schema.WorkspaceID, groupID schema.GroupID) {
	in := entry.input
	entry.cancels = append(entry.cancels,
		in.OnDirtyChanged(func() { s.handleInputChanged(workspace, groupID, in, schema.EditorEventDirty) }),
		in.OnLabelChanged(func() { s.handleInputChanged(workspace, groupID, in, schema.EditorEventLabel) }),
		in.OnCapabilitiesChanged(func() { s.handleInputChanged(workspace, groupID, in, schema.EditorEventCapabilities) }),
		in.OnWillDispose(func() { s.handleExternalDispose(workspace, groupID, in) }),
	)
}

func (s *service) handleInputChanged(workspace schema.WorkspaceID, groupID schema.GroupID, in editor.Input, eventType schema.EditorEventType) {
	snap := editor.Snapshot(in)

	s.mu.Lock()
	var active schema.InputID
	present := false
	if state := s.workspaces[workspace]; state != nil {
		if g := state.groups[groupID]; g != nil {
			if _, entry := g.find(in.InputID()); entry != nil {
				present = true
				active = g.active
			}
		}
	}
	s.mu.Unlock()
	if !present {
		return
	}

	s.emitEvent(schema.EditorEvent{
		Workspace:    workspace,
		Type:         eventType,
		Group:        groupID,
		Editor:       snap,
		ActiveEditor: active,
	})
	if eventType == schema.EditorEventDirty {
		s.syncBackup(workspace, in, snap.Dirty)
	}
}

// handleExternalDispose cleans up when an input is disposed behind the
// service's back. Service-driven closes unwire first, so this only fires
// for external disposals.
func (s *service) handleExternalDispose(workspace schema.WorkspaceID, groupID schema.GroupID, in editor.Input) {
	snap := editor.Snapshot(in)

	s.mu.Lock()
	var active schema.InputID
	removed := false
	if state := s.workspaces[workspace]; state != nil {
		if g := state.groups[groupID]; g != nil {
			if idx, entry := g.find(in.InputID()); entry != nil {
				g.removeAt(idx)
				entry.unwire()
				removed = true
				active = g.active
			}
		}
	}
	s.mu.Unlock()
	if !removed {
		return
	}

	s.emitEvent(schema.EditorEvent{
		Workspace:    workspace,
		Type:         schema.EditorEventClosed,
		Group:        groupID,
		Editor:       snap,
		ActiveEditor: active,
	})
	log := s.logger.With("workspace", workspace, "group", groupID)
	s.discardBackup(log, workspace, in)
	s.persistWorkspace(log, workspace)
	log.Debug("service editor disposed externally", "resource", snap.Resource)
}

// carryBuffer moves old's unsaved buffer onto next so a live-instance
// swap never drops pending edits. No-op when old is clean or either
// side lacks the buffer surface.
func carryBuffer(old, next editor.Input) {
	if !old.Dirty() {
		return
	}
	provider, ok := old.(editor.BackupProvider)
	if !ok {
		return
	}
	setter, ok := next.(editor.ContentSetter)
	if !ok {
		return
	}
	if content, ok := provider.BackupContent(); ok {
		setter.SetContents(content)
	}
}

// replaceInput swaps old for next in the group entry that holds old,
// keeping the entry's position and activation. Old is disposed.
func (s *service) replaceInput(log pslog.Logger, workspace schema.WorkspaceID, groupID schema.GroupID, old, next editor.Input) {
	var closed, opened schema.EditorEvent
	swapped := false

	s.mu.Lock()
	if state := s.workspaces[workspace]; state != nil {
		if g := state.groups[groupID]; g != nil {
			if idx, entry := g.find(old.InputID()); entry != nil {
				entry.unwire()
				replacement := &openEditor{input: next}
				s.wireInput(replacement, workspace, groupID)
				g.editors[idx] = replacement
				if g.active == old.InputID() {
					g.active = next.InputID()
				}
				closed = schema.EditorEvent{
					Workspace:    workspace,
					Type:         schema.EditorEventClosed,
					Group:        groupID,
					Editor:       editor.Snapshot(old),
					ActiveEditor: g.active,
				}
				opened = schema.EditorEvent{
					Workspace:    workspace,
					Type:         schema.EditorEventOpened,
					Group:        groupID,
					Editor:       editor.Snapshot(next),
					ActiveEditor: g.active,
				}
				swapped = true
			}
		}
	}
	s.mu.Unlock()

	if !swapped {
		// The old entry vanished concurrently; treat next as a fresh open.
		_, _ = s.adoptInput(log, workspace, groupID, next)
		old.Dispose()
		return
	}
	s.emitEvent(closed)
	s.emitEvent(opened)
	s.discardBackup(log, workspace, old)
	old.Dispose()
	s.persistWorkspace(log, workspace)
}

func (s *service) serializeWorkspace(workspace schema.WorkspaceID) (schema.WorkspaceSnapshot, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := schema.WorkspaceSnapshot{}
	skipped := 0
	state := s.workspaces[workspace]
	if state == nil {
		return snapshot, 0
	}
	for _, id := range state.order {
		g := state.groups[id]
		if g == nil {
			continue
		}
		gs, n := g.serializable()
		snapshot.Groups = append(snapshot.Groups, gs)
		skipped += n
	}
	return snapshot, skipped
}

func (s *service) persistWorkspace(log pslog.Logger, workspace schema.WorkspaceID) {
	if s.store == nil {
		return
	}
	snapshot, _ := s.serializeWorkspace(workspace)
	if err := s.store.Save(workspace, snapshot); err != nil {
		if log != nil {
			log.Warn("service persist failed", "err", err)
		}
		return
	}
	if log != nil {
		log.Trace("service state persisted", "groups", len(snapshot.Groups))
	}
}

func (s *service) emitEvent(event schema.EditorEvent) {
	if s.sink == nil {
		return
	}
	s.sink.OnEditorEvent(event)
}

func (s *service) syncBackup(workspace schema.WorkspaceID, in editor.Input, dirty bool) {
	if s.backups == nil {
		return
	}
	key := string(schema.CanonicalResource(in.Resource()))
	if key == "" {
		return
	}
	if !dirty {
		if err := s.backups.Discard(workspace, key); err != nil {
			s.logger.Warn("service backup discard failed", "workspace", workspace, "err", err)
		}
		return
	}
	provider, ok := in.(editor.BackupProvider)
	if !ok {
		return
	}
	content, ok := provider.BackupContent()
	if !ok {
		return
	}
	if err := s.backups.Save(workspace, key, content); err != nil {
		s.logger.Warn("service backup save failed", "workspace", workspace, "err", err)
	}
}

func (s *service) discardBackup(log pslog.Logger, workspace schema.WorkspaceID, in editor.Input) {
	if s.backups == nil {
		return
	}
	key := string(schema.CanonicalResource(in.Resource()))
	if key == "" {
		return
	}
	if err := s.backups.Discard(workspace, key); err != nil && log != nil {
		log.Warn("service backup discard failed", "err", err)
	}
}
