package system

import (
	"image/color"
	"sort"

	"github.com/milk9111/alvere/common"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
)

// Target is the part of a renderer the render system draws through.
type Target interface {
	FillRect(r common.Rect, c color.RGBA)
}

type RenderSystem struct {
	target Target
	view   *ecs.View
	items  []drawItem
}

type drawItem struct {
	entity ecs.Entity
	layer  int
	rect   common.Rect
	color  color.RGBA
}

func NewRenderSystem(target Target) *RenderSystem {
	q := ecs.NewQuery().Include(component.PositionComponent.ID(), component.ShapeComponent.ID())
	return &RenderSystem{target: target, view: ecs.NewView(q)}
}

// SetTarget rebinds the render target, for hosts that hand out a new surface
// every frame.
func (r *RenderSystem) SetTarget(target Target) {
	r.target = target
}

// Draw fills one rect per entity, ordered by layer and then by entity.
func (r *RenderSystem) Draw(w *ecs.World) error {
	if r == nil || r.target == nil {
		return nil
	}

	r.items = r.items[:0]
	for _, a := range r.view.Archetypes(w) {
		positions := ecs.Column(a, component.PositionComponent)
		shapes := ecs.Column(a, component.ShapeComponent)
		for i, e := range a.Entities() {
			s := shapes[i]
			r.items = append(r.items, drawItem{
				entity: e,
				layer:  s.Layer,
				rect:   common.RectAround(positions[i].Vec2, s.Width, s.Height),
				color:  s.Color,
			})
		}
	}

	sort.SliceStable(r.items, func(i, j int) bool {
		if r.items[i].layer != r.items[j].layer {
			return r.items[i].layer < r.items[j].layer
		}
		return uint64(r.items[i].entity) < uint64(r.items[j].entity)
	})

	for _, it := range r.items {
		r.target.FillRect(it.rect, it.color)
	}
	return nil
}
