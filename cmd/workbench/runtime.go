package main

import (
	"pkt.systems/pslog"
	"pkt.systems/workbench"
	"pkt.systems/workbench/core"
	"pkt.systems/workbench/internal/appconfig"
	"pkt.systems/workbench/schema"
)

func loadConfig(path string) (appconfig.Config, error) {
	return appconfig.Load(path)
}

// buildWorkbench maps the file configuration onto a workbench instance.
func buildWorkbench(cfg appconfig.Config, logger pslog.Logger) (*workbench.Workbench, error) {
	return workbench.New(workbench.Config{
		Service: schema.ServiceConfig{
			DefaultGroup:       schema.GroupID(cfg.Workbench.DefaultGroup),
			MaxEditorsPerGroup: cfg.Workbench.MaxEditorsPerGroup,
		},
		StateDir: cfg.StateDir,
		Backup: workbench.BackupConfig{
			Enabled:      cfg.Backup.Enabled,
			Dir:          cfg.Backup.Dir,
			KeyStorePath: cfg.Backup.KeyStorePath,
		},
	}, workbench.Deps{
		ServiceDeps: core.ServiceDeps{Logger: logger},
	})
}
