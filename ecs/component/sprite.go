package component

import "image/color"

// Shape is a solid rectangle centred on the entity position.
type Shape struct {
	Width  float32
	Height float32
	Color  color.RGBA
	Layer  int
}

var ShapeComponent = NewComponent[Shape]()
