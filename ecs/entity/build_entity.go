package entity

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
	"github.com/milk9111/alvere/prefabs"
)

type buildContext struct {
	Prefab string
	// Scripts resolves script names so a prefab naming a missing script
	// fails at build time. Nil skips the check.
	Scripts func(name string) ([]byte, error)
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"position": addPosition,
	"velocity": addVelocity,
	"gravity":  addGravity,
	"body":     addBody,
	"shape":    addShape,
	"ttl":      addTTL,
	"script":   addScript,
	"destroy":  addDestroy,
}

// Components are added in this order so an entity migrates through a
// predictable chain of archetypes; unknown leftovers follow alphabetically.
var componentBuildOrder = []string{
	"position",
	"velocity",
	"gravity",
	"body",
	"shape",
	"ttl",
	"script",
	"destroy",
}

// BuildEntity creates an entity from a prefab. On any failure the partially
// built entity is destroyed.
func BuildEntity(w *ecs.World, lib *prefabs.Library, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(lib, prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	return buildFromSpec(w, spec, &buildContext{Prefab: prefabPath, Scripts: lib.LoadScript})
}

// BuildEntityFromSpec creates an entity from an already decoded prefab.
// Script names are not resolved.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string) (ecs.Entity, error) {
	return buildFromSpec(w, spec, &buildContext{Prefab: prefabPath})
}

func buildFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, ctx *buildContext) (ecs.Entity, error) {
	prefabPath := ctx.Prefab
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	names := make([]string, 0, len(remaining))
	for _, name := range componentBuildOrder {
		if _, ok := remaining[name]; ok {
			names = append(names, name)
			delete(remaining, name)
		}
	}
	extra := make([]string, 0, len(remaining))
	for name := range remaining {
		extra = append(extra, name)
	}
	sort.Strings(extra)
	names = append(names, extra...)

	for _, name := range names {
		builder, ok := componentRegistry[name]
		if !ok {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, spec.Components[name], ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

// SetEntityPosition moves e, adding Position when it has none.
func SetEntityPosition(w *ecs.World, e ecs.Entity, x, y float64) error {
	return ecs.Set(w, e, component.PositionComponent, component.Position{
		Vec2: mgl32.Vec2{float32(x), float32(y)},
	})
}

func addPosition(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PositionComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PositionComponent, component.Position{
		Vec2: mgl32.Vec2{float32(spec.X), float32(spec.Y)},
	})
}

func addVelocity(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.VelocityComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.VelocityComponent, component.Velocity{
		Vec2: mgl32.Vec2{float32(spec.X), float32(spec.Y)},
	})
}

func addGravity(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GravityComponent, component.Gravity{})
}

func addBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.BodyComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("body needs a positive size, got %vx%v", spec.Width, spec.Height)
	}
	return ecs.Add(w, e, component.BodyComponent, component.Body{
		Width:      spec.Width,
		Height:     spec.Height,
		Mass:       spec.Mass,
		Friction:   spec.Friction,
		Elasticity: spec.Elasticity,
		Static:     spec.Static,
	})
}

func addShape(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ShapeComponentSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.ShapeComponent, component.Shape{
		Width:  float32(spec.Width),
		Height: float32(spec.Height),
		Color:  spec.Color.Or(color.RGBA{R: 255, G: 255, B: 255, A: 255}),
		Layer:  spec.Layer,
	})
}

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TTLComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Ticks <= 0 {
		return fmt.Errorf("ttl needs a positive tick count, got %d", spec.Ticks)
	}
	return ecs.Add(w, e, component.TTLComponent, component.TTL{Ticks: spec.Ticks})
}

func addScript(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ScriptComponentSpec](raw)
	if err != nil {
		return err
	}
	if spec.Name == "" {
		return fmt.Errorf("script needs a name")
	}
	if ctx.Scripts != nil {
		if _, err := ctx.Scripts(spec.Name); err != nil {
			return fmt.Errorf("prefab %q references script %q: %w", ctx.Prefab, spec.Name, err)
		}
	}
	return ecs.Add(w, e, component.ScriptComponent, component.Script{Name: spec.Name})
}

func addDestroy(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.DestroyComponent, component.Destroy{})
}
