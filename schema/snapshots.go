package schema

// EditorSnapshot is a read-only view of an open editor for transports and
// persistence. ID is the live instance handle and is not persisted.
type EditorSnapshot struct {
	ID           InputID       `json:"-"`
	TypeID       TypeID        `json:"type_id"`
	Name         string        `json:"name"`
	Resource     Resource      `json:"resource,omitempty"`
	EditorID     EditorID      `json:"editor_id,omitempty"`
	Dirty        bool          `json:"dirty,omitempty"`
	Capabilities Capability    `json:"capabilities,omitempty"`
	Untyped      *UntypedInput `json:"untyped,omitempty"`
}

// GroupSnapshot captures the ordered editors of one tab group. Active is
// the index into Editors, -1 when the group has no active editor.
type GroupSnapshot struct {
	ID      GroupID          `json:"id"`
	Active  int              `json:"active"`
	Editors []EditorSnapshot `json:"editors"`
}

// WorkspaceSnapshot captures a workspace's groups in display order. Only
// editors that produce an untyped descriptor survive persistence.
type WorkspaceSnapshot struct {
	Groups []GroupSnapshot `json:"groups"`
}
