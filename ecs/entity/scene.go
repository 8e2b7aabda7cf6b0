package entity

import (
	"fmt"

	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/prefabs"
)

// SpawnScene builds every spawn entry of a scene into w and returns the
// decoded scene with the entities created, in spawn order.
func SpawnScene(w *ecs.World, lib *prefabs.Library, name string) (prefabs.SceneSpec, []ecs.Entity, error) {
	scene, err := prefabs.LoadSceneSpec(lib, name)
	if err != nil {
		return prefabs.SceneSpec{}, nil, err
	}

	cache := map[string]prefabs.EntityBuildSpec{}
	var spawned []ecs.Entity
	for i, s := range scene.Spawn {
		spec, ok := cache[s.Prefab]
		if !ok {
			spec, err = prefabs.LoadEntityBuildSpec(lib, s.Prefab)
			if err != nil {
				return scene, spawned, fmt.Errorf("spawn scene %q: entry %d: %w", name, i, err)
			}
			cache[s.Prefab] = spec
		}

		count := max(s.Count, 1)
		for n := 0; n < count; n++ {
			e, err := buildFromSpec(w, spec, &buildContext{Prefab: s.Prefab, Scripts: lib.LoadScript})
			if err != nil {
				return scene, spawned, fmt.Errorf("spawn scene %q: entry %d: %w", name, i, err)
			}
			x := s.X + float64(n)*s.Spacing.X
			y := s.Y + float64(n)*s.Spacing.Y
			if err := SetEntityPosition(w, e, x, y); err != nil {
				return scene, spawned, fmt.Errorf("spawn scene %q: entry %d: %w", name, i, err)
			}
			spawned = append(spawned, e)
		}
	}
	return scene, spawned, nil
}
