package system

import (
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/prefabs"
	"go.uber.org/zap"
)

// ChangeSource reports changed asset paths without blocking.
type ChangeSource interface {
	Drain() []string
}

// ReloadSystem applies hot-reload notifications on the loop thread. Changed
// scripts are recompiled on their next run; prefab edits only affect
// entities built after the change.
type ReloadSystem struct {
	source  ChangeSource
	scripts *ScriptSystem
	log     *zap.Logger
}

func NewReloadSystem(source ChangeSource, scripts *ScriptSystem, log *zap.Logger) *ReloadSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReloadSystem{source: source, scripts: scripts, log: log}
}

func (s *ReloadSystem) Update(_ *ecs.World, _ float64) error {
	if s.source == nil {
		return nil
	}
	for _, path := range s.source.Drain() {
		if name := prefabs.ScriptName(path); name != "" {
			if s.scripts != nil {
				s.scripts.Invalidate(name)
			}
			s.log.Info("script reloaded", zap.String("script", name), zap.String("path", path))
			continue
		}
		s.log.Info("prefab changed", zap.String("path", path))
	}
	return nil
}
