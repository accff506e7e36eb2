package core

import "pkt.systems/workbench/schema"

// EventSink receives editor lifecycle events from the core service.
type EventSink interface {
	OnEditorEvent(event schema.EditorEvent)
}
