package workbench

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/workbench/core"
	"pkt.systems/workbench/internal/backup"
	"pkt.systems/workbench/internal/eventbus"
	"pkt.systems/workbench/internal/persist"
	"pkt.systems/workbench/schema"
)

// Config configures the workbench compositor.
type Config struct {
	Service  schema.ServiceConfig
	StateDir string
	Backup   BackupConfig
}

// BackupConfig configures encrypted hot-exit backups of unsaved editor
// contents.
type BackupConfig struct {
	Enabled      bool
	Dir          string
	KeyStorePath string
}

// Deps captures optional dependencies for the workbench.
type Deps struct {
	ServiceDeps core.ServiceDeps
}

// Workbench composes the editor group service with the event bus and the
// persistence and backup stores.
type Workbench struct {
	service core.Service
	bus     *eventbus.Bus
	logger  pslog.Logger
}

// New constructs a workbench around the core service. Editor events flow
// to both the caller's sink (when set) and the internal event bus that
// Subscribe taps.
func New(cfg Config, deps Deps) (*Workbench, error) {
	logger := deps.ServiceDeps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	serviceDeps := deps.ServiceDeps
	serviceDeps.Logger = logger

	if serviceDeps.Store == nil && cfg.StateDir != "" {
		store, err := persist.NewStoreWithLogger(cfg.StateDir, logger)
		if err != nil {
			return nil, err
		}
		serviceDeps.Store = store
	}
	if serviceDeps.Backups == nil && cfg.Backup.Enabled {
		backups, err := backup.NewStoreWithLogger(cfg.Backup.KeyStorePath, cfg.Backup.Dir, logger)
		if err != nil {
			return nil, err
		}
		serviceDeps.Backups = backups
	}

	bus := eventbus.New(logger)
	if serviceDeps.EventSink == nil {
		serviceDeps.EventSink = bus
	} else {
		serviceDeps.EventSink = eventFanout{sinks: []core.EventSink{serviceDeps.EventSink, bus}}
	}

	service, err := core.NewService(cfg.Service, serviceDeps)
	if err != nil {
		return nil, err
	}
	return &Workbench{service: service, bus: bus, logger: logger}, nil
}

// Service returns the editor group service.
func (w *Workbench) Service() core.Service {
	return w.service
}

// Subscribe taps the editor event stream for a workspace. The returned
// cancel must be called to release the subscription.
func (w *Workbench) Subscribe(workspace schema.WorkspaceID) (<-chan schema.EditorEvent, func()) {
	return w.bus.Subscribe(workspace)
}

// SaveState snapshots a workspace to the persist store.
func (w *Workbench) SaveState(ctx context.Context, workspace schema.WorkspaceID) (schema.WorkspaceSnapshot, error) {
	resp, err := w.service.SnapshotWorkspace(ctx, schema.SnapshotWorkspaceRequest{Workspace: workspace})
	if err != nil {
		return schema.WorkspaceSnapshot{}, err
	}
	return resp.Snapshot, nil
}

// RestoreState reopens a workspace's editors from the persist store.
func (w *Workbench) RestoreState(ctx context.Context, workspace schema.WorkspaceID) (int, error) {
	resp, err := w.service.RestoreWorkspace(ctx, schema.RestoreWorkspaceRequest{Workspace: workspace})
	if err != nil {
		return 0, err
	}
	return resp.Opened, nil
}

// Shutdown persists all workspaces and disposes every open editor.
func (w *Workbench) Shutdown(ctx context.Context) error {
	return w.service.Shutdown(ctx)
}
