package schema

// UntypedOptions carries open options for an untyped descriptor.
type UntypedOptions struct {
	// Override names the pane kind the descriptor wants to open in.
	Override EditorID `json:"override,omitempty"`
}

// UntypedInput is a plain, serializable editor descriptor used where no
// live typed instance exists yet: workspace restore, cross-window
// transfer, drag and drop.
type UntypedInput struct {
	Resource Resource       `json:"resource,omitempty"`
	Options  UntypedOptions `json:"options,omitempty"`
}

// MoveResult reports the outcome of a rename: the descriptor of the input
// at its new location.
type MoveResult struct {
	Editor UntypedInput `json:"editor"`
}
