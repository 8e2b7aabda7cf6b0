package common

import "github.com/go-gl/mathgl/mgl32"

// Rect is an axis-aligned rectangle anchored at its bottom-left corner with
// y pointing up.
type Rect struct {
	X, Y          float32
	Width, Height float32
}

// RectAround returns the rect of the given size centred on c.
func RectAround(c mgl32.Vec2, width, height float32) Rect {
	return Rect{X: c.X() - width/2, Y: c.Y() - height/2, Width: width, Height: height}
}

func (r Rect) Left() float32   { return r.X }
func (r Rect) Right() float32  { return r.X + r.Width }
func (r Rect) Bottom() float32 { return r.Y }
func (r Rect) Top() float32    { return r.Y + r.Height }

func (r Rect) TopLeft() mgl32.Vec2     { return mgl32.Vec2{r.Left(), r.Top()} }
func (r Rect) TopRight() mgl32.Vec2    { return mgl32.Vec2{r.Right(), r.Top()} }
func (r Rect) BottomLeft() mgl32.Vec2  { return mgl32.Vec2{r.Left(), r.Bottom()} }
func (r Rect) BottomRight() mgl32.Vec2 { return mgl32.Vec2{r.Right(), r.Bottom()} }

func (r Rect) Center() mgl32.Vec2 {
	return mgl32.Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

func (r Rect) Area() float32 {
	return r.Width * r.Height
}

func (r Rect) Contains(p mgl32.Vec2) bool {
	return p.X() >= r.Left() && p.X() <= r.Right() &&
		p.Y() >= r.Bottom() && p.Y() <= r.Top()
}

// Intersects reports whether the interiors overlap. Touching edges do not count.
func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

// RectI truncates every field toward zero.
func (r Rect) RectI() RectI {
	return RectI{X: int(r.X), Y: int(r.Y), Width: int(r.Width), Height: int(r.Height)}
}

// RectI is the integer counterpart of Rect, used for pixel regions.
type RectI struct {
	X, Y          int
	Width, Height int
}

func (r RectI) Left() int   { return r.X }
func (r RectI) Right() int  { return r.X + r.Width }
func (r RectI) Bottom() int { return r.Y }
func (r RectI) Top() int    { return r.Y + r.Height }

func (r RectI) Area() int {
	return r.Width * r.Height
}

func (r RectI) Rect() Rect {
	return Rect{X: float32(r.X), Y: float32(r.Y), Width: float32(r.Width), Height: float32(r.Height)}
}

// Overlap returns the intersection of a and b. Disjoint inputs yield a
// zero-sized rect at the component-wise max of their bottom-left corners.
func Overlap(a, b RectI) RectI {
	minX, minY := max(a.Left(), b.Left()), max(a.Bottom(), b.Bottom())
	maxX, maxY := min(a.Right(), b.Right()), min(a.Top(), b.Top())
	return RectI{
		X:      minX,
		Y:      minY,
		Width:  max(0, maxX-minX),
		Height: max(0, maxY-minY),
	}
}
