package logx

import (
	"context"

	"pkt.systems/pslog"
	"pkt.systems/workbench/schema"
)

type contextKey int

const (
	workspaceKey contextKey = iota
	groupKey
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithWorkspace annotates the logger with the workspace id if present.
func WithWorkspace(ctx context.Context, workspace schema.WorkspaceID) pslog.Logger {
	log := pslog.Ctx(ctx)
	if workspace != "" {
		if current, ok := ctx.Value(workspaceKey).(schema.WorkspaceID); ok && current == workspace {
			return log
		}
		log = log.With("workspace", workspace)
	}
	return log
}

// WithWorkspaceGroup annotates the logger with workspace and group identifiers.
func WithWorkspaceGroup(ctx context.Context, workspace schema.WorkspaceID, group schema.GroupID) pslog.Logger {
	log := WithWorkspace(ctx, workspace)
	if group != "" {
		if current, ok := ctx.Value(groupKey).(schema.GroupID); ok && current == group {
			return log
		}
		log = log.With("group", group)
	}
	return log
}

// WithEditor annotates the logger with editor metadata when available.
func WithEditor(log pslog.Logger, snap schema.EditorSnapshot) pslog.Logger {
	if snap.TypeID != "" {
		log = log.With("editor_type", snap.TypeID)
	}
	if snap.Resource != "" {
		log = log.With("resource", snap.Resource)
	}
	return log
}

// ContextWithWorkspace stores the workspace marker on the context for log
// de-duplication.
func ContextWithWorkspace(ctx context.Context, workspace schema.WorkspaceID) context.Context {
	if ctx == nil || workspace == "" {
		return ctx
	}
	return context.WithValue(ctx, workspaceKey, workspace)
}

// ContextWithGroup stores the group marker on the context for log
// de-duplication.
func ContextWithGroup(ctx context.Context, group schema.GroupID) context.Context {
	if ctx == nil || group == "" {
		return ctx
	}
	return context.WithValue(ctx, groupKey, group)
}

// ContextWithWorkspaceLogger attaches the logger and workspace marker to the
// context.
func ContextWithWorkspaceLogger(ctx context.Context, log pslog.Logger, workspace schema.WorkspaceID) context.Context {
	ctx = pslog.ContextWithLogger(ctx, log)
	return ContextWithWorkspace(ctx, workspace)
}
