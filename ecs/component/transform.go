package component

import "github.com/go-gl/mathgl/mgl32"

// Position is the world-space centre of an entity.
type Position struct {
	mgl32.Vec2
}

var PositionComponent = NewComponent[Position]()
