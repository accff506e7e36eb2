package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"
	"pkt.systems/workbench/internal/persist"
	"pkt.systems/workbench/schema"
)

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect or clear persisted workspace state",
	}
	cmd.AddCommand(newStateShowCmd())
	cmd.AddCommand(newStateClearCmd())
	return cmd
}

func newStateShowCmd() *cobra.Command {
	var cfgPath string
	var workspace string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted snapshot for a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			store, err := persist.NewStore(cfg.StateDir)
			if err != nil {
				return err
			}
			ws, err := schema.NormalizeWorkspaceID(schema.WorkspaceID(workspace))
			if err != nil {
				return err
			}
			snapshot, ok, err := store.Load(ws)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no persisted state for workspace %s", ws)
			}
			data, err := json.MarshalIndent(snapshot, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config path")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace id (default \"default\")")
	return cmd
}

func newStateClearCmd() *cobra.Command {
	var cfgPath string
	var workspace string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the persisted snapshot for a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())
			cfg, err := loadConfig(cfgPath)
			if err != nil {
				return err
			}
			store, err := persist.NewStore(cfg.StateDir)
			if err != nil {
				return err
			}
			ws, err := schema.NormalizeWorkspaceID(schema.WorkspaceID(workspace))
			if err != nil {
				return err
			}
			if err := store.Delete(ws); err != nil {
				return err
			}
			logger.Info("workspace state cleared", "workspace", ws)
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "config path")
	cmd.Flags().StringVarP(&workspace, "workspace", "w", "", "workspace id (default \"default\")")
	return cmd
}
