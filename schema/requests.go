package schema

// OpenUntypedRequest opens an untyped descriptor in a group, reusing an
// existing editor when one matches the descriptor.
type OpenUntypedRequest struct {
	Workspace WorkspaceID
	Group     GroupID
	Editor    UntypedInput
}

// OpenEditorResponse reports the editor now active for an open request.
// Reused is true when an already-open editor matched instead of a new one
// being created.
type OpenEditorResponse struct {
	Group  GroupID
	Editor EditorSnapshot
	Reused bool
}

// CloseEditorRequest closes and disposes an open editor.
type CloseEditorRequest struct {
	Workspace WorkspaceID
	Group     GroupID
	Editor    InputID
}

// CloseEditorResponse reports the group's active editor after the close,
// zero when the group emptied.
type CloseEditorResponse struct {
	ActiveEditor InputID
}

// ListEditorsRequest lists a workspace's groups and editors.
type ListEditorsRequest struct {
	Workspace WorkspaceID
}

// ListEditorsResponse carries group snapshots in display order.
type ListEditorsResponse struct {
	Groups []GroupSnapshot
}

// ActivateEditorRequest makes an open editor the active one in its group.
type ActivateEditorRequest struct {
	Workspace WorkspaceID
	Group     GroupID
	Editor    InputID
}

// ActivateEditorResponse carries the activated editor.
type ActivateEditorResponse struct {
	Editor EditorSnapshot
}

// SaveEditorRequest saves an open editor. SaveAs routes through the
// editor's save-as path with Target as the destination.
type SaveEditorRequest struct {
	Workspace WorkspaceID
	Group     GroupID
	Editor    InputID
	SaveAs    bool
	Target    Resource
	Force     bool
}

// SaveEditorResponse reports the save outcome. Replaced is true when the
// save produced a different input (save-as, scratch conversion) that now
// occupies the group entry. Cancelled is true when the editor declined.
type SaveEditorResponse struct {
	Editor    EditorSnapshot
	Replaced  bool
	Cancelled bool
}

// RevertEditorRequest reverts an open editor to its persisted state.
type RevertEditorRequest struct {
	Workspace WorkspaceID
	Group     GroupID
	Editor    InputID
	Soft      bool
}

// RevertEditorResponse carries the reverted editor.
type RevertEditorResponse struct {
	Editor EditorSnapshot
}

// RenameEditorRequest renames an open editor to a new resource.
type RenameEditorRequest struct {
	Workspace WorkspaceID
	Group     GroupID
	Editor    InputID
	Target    Resource
}

// RenameEditorResponse reports the rename outcome. Move is nil when the
// editor does not support renaming.
type RenameEditorResponse struct {
	Move   *MoveResult
	Editor EditorSnapshot
}

// SnapshotWorkspaceRequest captures a workspace's restorable state.
type SnapshotWorkspaceRequest struct {
	Workspace WorkspaceID
}

// SnapshotWorkspaceResponse carries the captured snapshot. Skipped counts
// open editors without a serializable form.
type SnapshotWorkspaceResponse struct {
	Snapshot WorkspaceSnapshot
	Skipped  int
}

// RestoreWorkspaceRequest reopens editors from a snapshot. With an empty
// snapshot the persisted state for the workspace is loaded instead.
type RestoreWorkspaceRequest struct {
	Workspace WorkspaceID
	Snapshot  WorkspaceSnapshot
}

// RestoreWorkspaceResponse reports how many editors were reopened and how
// many descriptors failed to resolve.
type RestoreWorkspaceResponse struct {
	Opened  int
	Skipped int
}
