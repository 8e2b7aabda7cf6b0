package component

import "github.com/go-gl/mathgl/mgl32"

// Velocity is in world units per second.
type Velocity struct {
	mgl32.Vec2
}

var VelocityComponent = NewComponent[Velocity]()

// Gravity marks an entity as affected by the gravity system's acceleration.
type Gravity struct{}

var GravityComponent = NewComponent[Gravity]()

// Body makes an entity a Chipmunk2D rigid box. The physics system owns the
// runtime body; this component only carries the collider configuration.
type Body struct {
	Width      float64
	Height     float64
	Mass       float64
	Friction   float64
	Elasticity float64
	Static     bool
}

var BodyComponent = NewComponent[Body]()
