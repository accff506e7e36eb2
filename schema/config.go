package schema

import "errors"

// ServiceConfig defines defaults and limits for the workbench service.
type ServiceConfig struct {
	DefaultGroup GroupID
	// MaxEditorsPerGroup caps open editors per group. When the cap is
	// reached the oldest inactive editor is closed to make room.
	MaxEditorsPerGroup int
}

// DefaultGroup receives editors opened without an explicit group.
const DefaultGroup GroupID = "main"

// DefaultMaxEditorsPerGroup is the default per-group editor limit.
const DefaultMaxEditorsPerGroup = 64

// NormalizeServiceConfig applies defaults and validates the config.
func NormalizeServiceConfig(cfg ServiceConfig) (ServiceConfig, error) {
	if cfg.DefaultGroup == "" {
		cfg.DefaultGroup = DefaultGroup
	}
	if cfg.MaxEditorsPerGroup == 0 {
		cfg.MaxEditorsPerGroup = DefaultMaxEditorsPerGroup
	}
	if cfg.MaxEditorsPerGroup < 2 {
		return ServiceConfig{}, errors.New("max editors per group must be at least 2")
	}
	return cfg, nil
}
