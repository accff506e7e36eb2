package core

import (
	"pkt.systems/pslog"
	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/internal/backup"
	"pkt.systems/workbench/internal/persist"
)

// ServiceDeps captures optional dependencies for the core service.
type ServiceDeps struct {
	Factory   InputFactory
	Panes     *editor.PaneRegistry
	EventSink EventSink
	Store     *persist.Store
	Backups   *backup.Store
	Logger    pslog.Logger
}
