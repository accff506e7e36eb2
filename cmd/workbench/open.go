package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/workbench/editor"
	"pkt.systems/workbench/schema"
)

func newOpenCmd() *cobra.Command {
	var cfgPath string
	var workspace string
	var group string
	cmd := &cobra.Command{
		Use:   "open <path> [path...]",
		Short: "Open files in a workspace and persist the result",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			wb, err := buildWorkbench(cfg, logger)
			if err != nil {
				return err
			}
			svc := wb.Service()

			ws := schema.WorkspaceID(workspace)
			if _, err := svc.RestoreWorkspace(ctx, schema.RestoreWorkspaceRequest{Workspace: ws}); err != nil {
				return err
			}
			for _, path := range args {
				resp, err := svc.OpenUntyped(ctx, schema.OpenUntypedRequest{
					Workspace: ws,
					Group:     schema.GroupID(group),
					Editor: schema.UntypedInput{
						Resource: editor.FileResource(path),
						Options:  schema.UntypedOptions{Override: editor.TextPane},
					},
				})
				if err != nil {
					return err
				}
				state := "opened"
				if resp.Reused {
					state = "reused"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s in group %s\n", state, resp.Editor.Name, resp.Group)
			}
			return wb.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config path")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace id (default \"default\")")
	cmd.Flags().StringVarP(&group, "group", "g", "", "editor group (default from config)")
	return cmd
}

func newListCmd() *cobra.Command {
	var cfgPath string
	var workspace string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the editors persisted for a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := pslog.Ctx(ctx)
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			wb, err := buildWorkbench(cfg, logger)
			if err != nil {
				return err
			}
			svc := wb.Service()

			ws := schema.WorkspaceID(workspace)
			if _, err := svc.RestoreWorkspace(ctx, schema.RestoreWorkspaceRequest{Workspace: ws}); err != nil {
				return err
			}
			resp, err := svc.ListEditors(ctx, schema.ListEditorsRequest{Workspace: ws})
			if err != nil {
				return err
			}
			for _, g := range resp.Groups {
				fmt.Fprintf(cmd.OutOrStdout(), "group %s\n", g.ID)
				for i, e := range g.Editors {
					marker := " "
					if i == g.Active {
						marker = "*"
					}
					fmt.Fprintf(cmd.OutOrStdout(), " %s %-30s %s\n", marker, e.Name, e.Resource)
				}
			}
			return wb.Shutdown(ctx)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config path")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace id (default \"default\")")
	return cmd
}
