package system

import (
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
)

// MovementSystem integrates velocity into position for entities that are not
// driven by the physics system.
type MovementSystem struct {
	view *ecs.View
}

func NewMovementSystem() *MovementSystem {
	q := ecs.NewQuery().
		Include(component.PositionComponent.ID(), component.VelocityComponent.ID()).
		Exclude(component.BodyComponent.ID())
	return &MovementSystem{view: ecs.NewView(q)}
}

func (s *MovementSystem) Update(w *ecs.World, dt float64) error {
	step := float32(dt)
	for _, a := range s.view.Archetypes(w) {
		positions := ecs.Column(a, component.PositionComponent)
		velocities := ecs.Column(a, component.VelocityComponent)
		for i := range positions {
			positions[i].Vec2 = positions[i].Add(velocities[i].Mul(step))
		}
	}
	return nil
}
