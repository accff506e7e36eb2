package schema

// WorkspaceID identifies a workspace whose editor state is tracked together.
type WorkspaceID string

// DefaultWorkspace is used when a request does not name a workspace.
const DefaultWorkspace WorkspaceID = "default"

// GroupID identifies a tab group within a workspace.
type GroupID string

// InputID is the unique handle of a live editor input instance. IDs are
// assigned monotonically at construction and never reused within a process.
type InputID uint64

// TypeID discriminates the concrete kind of an editor input.
type TypeID string

// EditorID identifies the registered pane kind an input is tied to.
type EditorID string

// Resource is the locator of an editor input, usually a URI. The empty
// string means the input has no resource.
type Resource string

// Verbosity controls how much detail textual descriptions include.
type Verbosity int

const (
	// VerbosityShort requests the tersest label form.
	VerbosityShort Verbosity = iota
	// VerbosityMedium requests a label with some context.
	VerbosityMedium
	// VerbosityLong requests the fully qualified label form.
	VerbosityLong
)

// SaveOptions controls save and save-as behavior.
type SaveOptions struct {
	// Target is the destination resource for save-as; empty keeps the
	// current resource.
	Target Resource
	// Force saves even when the input is not dirty.
	Force bool
}

// RevertOptions controls revert behavior.
type RevertOptions struct {
	// Soft drops dirty state without reloading content.
	Soft bool
}
