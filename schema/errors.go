package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidWorkspace indicates an invalid workspace identifier.
	ErrInvalidWorkspace = errors.New("invalid workspace")
	// ErrGroupNotFound indicates a requested group could not be found.
	ErrGroupNotFound = errors.New("group not found")
	// ErrEditorNotFound indicates a requested editor could not be found.
	ErrEditorNotFound = errors.New("editor not found")
	// ErrNoFactory indicates no input factory accepts a descriptor.
	ErrNoFactory = errors.New("no input factory for descriptor")
	// ErrPaneRegistered indicates a pane kind is already registered.
	ErrPaneRegistered = errors.New("pane already registered")
)
