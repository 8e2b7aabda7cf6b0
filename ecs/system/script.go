package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
	"go.uber.org/zap"
)

// ScriptSource resolves a script name to tengo source.
type ScriptSource func(name string) ([]byte, error)

// ScriptSystem runs a tengo script per entity carrying Script. Scripts see
// dt, tick, x, y, vx and vy as globals and may reassign the position and
// velocity globals; the new values are written back to the entity.
type ScriptSystem struct {
	source   ScriptSource
	compiled map[string]*tengo.Compiled
	view     *ecs.View
	tick     int64
	log      *zap.Logger
}

var scriptGlobals = []string{"dt", "tick", "x", "y", "vx", "vy"}

func NewScriptSystem(source ScriptSource, log *zap.Logger) *ScriptSystem {
	if log == nil {
		log = zap.NewNop()
	}
	q := ecs.NewQuery().Include(component.ScriptComponent.ID(), component.PositionComponent.ID())
	return &ScriptSystem{
		source:   source,
		compiled: map[string]*tengo.Compiled{},
		view:     ecs.NewView(q),
		log:      log,
	}
}

func (s *ScriptSystem) Update(w *ecs.World, dt float64) error {
	s.tick++
	for _, a := range s.view.Archetypes(w) {
		scripts := ecs.Column(a, component.ScriptComponent)
		positions := ecs.Column(a, component.PositionComponent)
		velocities := ecs.Column(a, component.VelocityComponent)
		for i, e := range a.Entities() {
			compiled, err := s.get(scripts[i].Name)
			if err != nil {
				return err
			}

			var vel mgl32.Vec2
			if velocities != nil {
				vel = velocities[i].Vec2
			}
			pos := positions[i].Vec2
			values := map[string]any{
				"dt":   dt,
				"tick": s.tick,
				"x":    float64(pos.X()),
				"y":    float64(pos.Y()),
				"vx":   float64(vel.X()),
				"vy":   float64(vel.Y()),
			}
			for name, v := range values {
				if err := compiled.Set(name, v); err != nil {
					return fmt.Errorf("script %q: set %s: %w", scripts[i].Name, name, err)
				}
			}
			if err := compiled.Run(); err != nil {
				return fmt.Errorf("script %q on %s: %w", scripts[i].Name, e, err)
			}

			positions[i].Vec2 = mgl32.Vec2{
				float32(compiled.Get("x").Float()),
				float32(compiled.Get("y").Float()),
			}
			if velocities != nil {
				velocities[i].Vec2 = mgl32.Vec2{
					float32(compiled.Get("vx").Float()),
					float32(compiled.Get("vy").Float()),
				}
			}
		}
	}
	return nil
}

func (s *ScriptSystem) get(name string) (*tengo.Compiled, error) {
	if c, ok := s.compiled[name]; ok {
		return c, nil
	}
	if s.source == nil {
		return nil, fmt.Errorf("script %q: no script source", name)
	}
	src, err := s.source(name)
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", name, err)
	}

	script := tengo.NewScript(src)
	for _, g := range scriptGlobals {
		_ = script.Add(g, 0.0)
	}
	script.SetImports(stdlib.GetModuleMap("math"))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script %q: compile: %w", name, err)
	}
	s.compiled[name] = compiled
	s.log.Debug("script compiled", zap.String("script", name))
	return compiled, nil
}

// Invalidate drops the compiled form of a script so the next tick reloads it.
// An empty name drops every script.
func (s *ScriptSystem) Invalidate(name string) {
	if name == "" {
		clear(s.compiled)
		return
	}
	delete(s.compiled, name)
}
