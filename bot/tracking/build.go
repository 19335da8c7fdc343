package tracking

import (
	"errors"

	botpkg "github.com/liuran001/LinkCleanBot/bot"
	"github.com/liuran001/LinkCleanBot/bot/config"
)

// ErrEmptySet is returned when the configuration disables every tracking parameter.
var ErrEmptySet = errors.New("tracking parameter set is empty")

// Build assembles the startup Set from the registered groups and the config.
// Groups are enabled unless [rules.<group>] sets enabled = false.
func Build(cfg *config.Config, logger botpkg.Logger) (Set, error) {
	if cfg == nil {
		return Default(), nil
	}

	var names []string
	for _, name := range Names() {
		if !cfg.GetRuleBool(name, "enabled", true) {
			if logger != nil {
				logger.Info("tracking group disabled by config", "group", name)
			}
			continue
		}
		group, _ := Get(name)
		names = append(names, group.Params...)
	}

	for _, name := range cfg.RuleNames() {
		if _, ok := Get(name); !ok && logger != nil {
			logger.Warn("unknown tracking group in config", "group", name)
		}
	}

	set := NewSet(names...).
		with(cfg.GetStringList("ExtraTrackingParams")...).
		without(cfg.GetStringList("KeepTrackingParams")...)
	if set.Len() == 0 {
		return Set{}, ErrEmptySet
	}
	if logger != nil {
		logger.Debug("tracking parameter set built", "count", set.Len())
	}
	return set, nil
}
