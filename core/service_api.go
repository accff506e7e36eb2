package core

import (
	"context"

	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/schema"
)

// OpenInputRequest opens an already-constructed input in a group. The
// service takes ownership of the input unless an open editor matches it,
// in which case the caller keeps the duplicate.
type OpenInputRequest struct {
	Workspace schema.WorkspaceID
	Group     schema.GroupID
	Input     editor.Input
}

// Service is the transport-agnostic API for managing editor groups and
// the inputs open in them.
type Service interface {
	OpenUntyped(ctx context.Context, req schema.OpenUntypedRequest) (schema.OpenEditorResponse, error)
	OpenInput(ctx context.Context, req OpenInputRequest) (schema.OpenEditorResponse, error)
	CloseEditor(ctx context.Context, req schema.CloseEditorRequest) (schema.CloseEditorResponse, error)
	ListEditors(ctx context.Context, req schema.ListEditorsRequest) (schema.ListEditorsResponse, error)
	ActivateEditor(ctx context.Context, req schema.ActivateEditorRequest) (schema.ActivateEditorResponse, error)
	SaveEditor(ctx context.Context, req schema.SaveEditorRequest) (schema.SaveEditorResponse, error)
	RevertEditor(ctx context.Context, req schema.RevertEditorRequest) (schema.RevertEditorResponse, error)
	RenameEditor(ctx context.Context, req schema.RenameEditorRequest) (schema.RenameEditorResponse, error)
	SnapshotWorkspace(ctx context.Context, req schema.SnapshotWorkspaceRequest) (schema.SnapshotWorkspaceResponse, error)
	RestoreWorkspace(ctx context.Context, req schema.RestoreWorkspaceRequest) (schema.RestoreWorkspaceResponse, error)
	Shutdown(ctx context.Context) error
}
