package system

import (
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
)

// DestroySystem removes every entity carrying the Destroy marker. Other
// systems attach the marker mid-tick; the actual removal happens here, at a
// single point after they have all run.
type DestroySystem struct {
	query      ecs.Query
	archetypes []*ecs.Archetype
	destroyed  int
}

func NewDestroySystem() *DestroySystem {
	return &DestroySystem{
		query: ecs.NewQuery().Include(component.DestroyComponent.ID()),
	}
}

func (s *DestroySystem) Update(w *ecs.World, _ float64) error {
	s.archetypes = w.QueryArchetypes(s.query, s.archetypes[:0])
	for _, a := range s.archetypes {
		for a.EntityCount() > 0 {
			if !ecs.DestroyEntity(w, a.Entities()[0]) {
				return ecs.ErrWorldLocked
			}
			s.destroyed++
		}
	}
	return nil
}

// Destroyed returns the number of entities removed since creation.
func (s *DestroySystem) Destroyed() int {
	return s.destroyed
}
