package common

import "github.com/go-gl/mathgl/mgl32"

// Cuboid is an axis-aligned box described by its centre and half extents.
type Cuboid struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
}

// UnitCuboid spans [-0.5, 0.5] on every axis.
var UnitCuboid = Cuboid{HalfExtents: mgl32.Vec3{0.5, 0.5, 0.5}}

func (c Cuboid) Width() float32  { return c.HalfExtents.X() * 2 }
func (c Cuboid) Height() float32 { return c.HalfExtents.Y() * 2 }
func (c Cuboid) Depth() float32  { return c.HalfExtents.Z() * 2 }

func (c Cuboid) Left() float32   { return c.Center.X() - c.HalfExtents.X() }
func (c Cuboid) Right() float32  { return c.Center.X() + c.HalfExtents.X() }
func (c Cuboid) Bottom() float32 { return c.Center.Y() - c.HalfExtents.Y() }
func (c Cuboid) Top() float32    { return c.Center.Y() + c.HalfExtents.Y() }
func (c Cuboid) Back() float32   { return c.Center.Z() - c.HalfExtents.Z() }
func (c Cuboid) Front() float32  { return c.Center.Z() + c.HalfExtents.Z() }

func (c Cuboid) SurfaceArea() float32 {
	w, h, d := c.Width(), c.Height(), c.Depth()
	return 2 * (w*h + w*d + h*d)
}

func (c Cuboid) Volume() float32 {
	return c.Width() * c.Height() * c.Depth()
}

// ContainsPoint is inclusive of the faces.
func (c Cuboid) ContainsPoint(p mgl32.Vec3) bool {
	return p.X() >= c.Left() && p.X() <= c.Right() &&
		p.Y() >= c.Bottom() && p.Y() <= c.Top() &&
		p.Z() >= c.Back() && p.Z() <= c.Front()
}

func (c Cuboid) Intersects(o Cuboid) bool {
	return c.Left() <= o.Right() && c.Right() >= o.Left() &&
		c.Bottom() <= o.Top() && c.Top() >= o.Bottom() &&
		c.Back() <= o.Front() && c.Front() >= o.Back()
}

func (c Cuboid) ApproxEqual(o Cuboid) bool {
	return c.Center.ApproxEqual(o.Center) && c.HalfExtents.ApproxEqual(o.HalfExtents)
}
