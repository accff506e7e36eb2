package schema

// EditorEventType describes editor lifecycle or state changes.
type EditorEventType string

const (
	// EditorEventOpened indicates an editor was opened in a group.
	EditorEventOpened EditorEventType = "opened"
	// EditorEventClosed indicates an editor was closed.
	EditorEventClosed EditorEventType = "closed"
	// EditorEventActivated indicates an editor became active in its group.
	EditorEventActivated EditorEventType = "activated"
	// EditorEventDirty indicates an editor's dirty state changed.
	EditorEventDirty EditorEventType = "dirty"
	// EditorEventLabel indicates an editor's label changed.
	EditorEventLabel EditorEventType = "label"
	// EditorEventCapabilities indicates an editor's capability mask changed.
	EditorEventCapabilities EditorEventType = "capabilities"
)

// EditorEvent represents a change to an editor or a group's editor list.
type EditorEvent struct {
	Workspace    WorkspaceID
	Type         EditorEventType
	Group        GroupID
	Editor       EditorSnapshot
	ActiveEditor InputID
}
