package workbench

import (
	"pkt.systems/workbench/core"
	"pkt.systems/workbench/schema"
)

type eventFanout struct {
	sinks []core.EventSink
}

func (f eventFanout) OnEditorEvent(event schema.EditorEvent) {
	for _, sink := range f.sinks {
		if sink == nil {
			continue
		}
		sink.OnEditorEvent(event)
	}
}
