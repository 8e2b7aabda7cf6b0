package system

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
	"go.uber.org/zap"
)

// PhysicsSystem simulates entities with Position and Body as Chipmunk2D boxes.
// Space gravity is zero; acceleration arrives through the Velocity component,
// which is pushed into the body before the step and read back afterwards.
type PhysicsSystem struct {
	space    *cp.Space
	entities map[ecs.Entity]*bodyInfo
	view     *ecs.View
	live     map[ecs.Entity]struct{}
	log      *zap.Logger
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	static bool
}

func NewPhysicsSystem(log *zap.Logger) *PhysicsSystem {
	if log == nil {
		log = zap.NewNop()
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})
	q := ecs.NewQuery().Include(component.PositionComponent.ID(), component.BodyComponent.ID())
	return &PhysicsSystem{
		space:    space,
		entities: make(map[ecs.Entity]*bodyInfo),
		view:     ecs.NewView(q),
		live:     make(map[ecs.Entity]struct{}),
		log:      log,
	}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

// Bodies returns the number of bodies currently in the space.
func (ps *PhysicsSystem) Bodies() int {
	return len(ps.entities)
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) error {
	if ps == nil || w == nil {
		return nil
	}

	clear(ps.live)
	archetypes := ps.view.Archetypes(w)
	for _, a := range archetypes {
		positions := ecs.Column(a, component.PositionComponent)
		bodies := ecs.Column(a, component.BodyComponent)
		velocities := ecs.Column(a, component.VelocityComponent)
		for i, e := range a.Entities() {
			ps.live[e] = struct{}{}
			info, ok := ps.entities[e]
			if !ok {
				info = ps.addBody(e, positions[i], bodies[i])
			}
			if info.static {
				continue
			}
			if velocities != nil {
				v := velocities[i]
				info.body.SetVelocityVector(cp.Vector{X: float64(v.X()), Y: float64(v.Y())})
			}
		}
	}

	for e, info := range ps.entities {
		if _, ok := ps.live[e]; !ok {
			ps.removeBody(e, info)
		}
	}

	ps.space.Step(dt)

	for _, a := range archetypes {
		positions := ecs.Column(a, component.PositionComponent)
		velocities := ecs.Column(a, component.VelocityComponent)
		for i, e := range a.Entities() {
			info := ps.entities[e]
			if info == nil || info.static {
				continue
			}
			p := info.body.Position()
			positions[i].Vec2 = mgl32.Vec2{float32(p.X), float32(p.Y)}
			if velocities != nil {
				v := info.body.Velocity()
				velocities[i].Vec2 = mgl32.Vec2{float32(v.X), float32(v.Y)}
			}
		}
	}
	return nil
}

func (ps *PhysicsSystem) addBody(e ecs.Entity, pos component.Position, spec component.Body) *bodyInfo {
	info := &bodyInfo{static: spec.Static}
	if spec.Static {
		info.body = cp.NewStaticBody()
	} else {
		mass := spec.Mass
		if mass <= 0 {
			mass = 1
		}
		info.body = cp.NewBody(mass, cp.MomentForBox(mass, spec.Width, spec.Height))
	}
	info.body.SetPosition(cp.Vector{X: float64(pos.X()), Y: float64(pos.Y())})
	ps.space.AddBody(info.body)

	info.shape = cp.NewBox(info.body, spec.Width, spec.Height, 0)
	info.shape.SetFriction(spec.Friction)
	info.shape.SetElasticity(spec.Elasticity)
	ps.space.AddShape(info.shape)

	ps.entities[e] = info
	ps.log.Debug("physics body added", zap.Stringer("entity", e), zap.Bool("static", spec.Static))
	return info
}

func (ps *PhysicsSystem) removeBody(e ecs.Entity, info *bodyInfo) {
	ps.space.RemoveShape(info.shape)
	ps.space.RemoveBody(info.body)
	delete(ps.entities, e)
	ps.log.Debug("physics body removed", zap.Stringer("entity", e))
}

// Close removes every body from the space.
func (ps *PhysicsSystem) Close() error {
	for e, info := range ps.entities {
		ps.removeBody(e, info)
	}
	return nil
}
