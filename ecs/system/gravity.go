package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
)

// GravitySystem accelerates every entity with Velocity and Gravity.
type GravitySystem struct {
	gravity mgl32.Vec2
}

func NewGravitySystem(gravity mgl32.Vec2) *GravitySystem {
	return &GravitySystem{gravity: gravity}
}

func (s *GravitySystem) Update(w *ecs.World, dt float64) error {
	dv := s.gravity.Mul(float32(dt))
	ecs.ForEach2(w, component.VelocityComponent, component.GravityComponent, func(_ ecs.Entity, v *component.Velocity, _ *component.Gravity) {
		v.Vec2 = v.Add(dv)
	})
	return nil
}
