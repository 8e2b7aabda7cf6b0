package ecs

// View caches the archetypes matching a query. The cache is rebuilt only when
// the world gains a new archetype, which makes it cheap to call every tick.
type View struct {
	query      Query
	world      *World
	version    uint64
	archetypes []*Archetype
}

func NewView(q Query) *View {
	return &View{query: q}
}

func (v *View) Query() Query {
	return v.query
}

// Archetypes returns the matching archetypes of w, including empty ones.
func (v *View) Archetypes(w *World) []*Archetype {
	if w == nil {
		return nil
	}
	if v.world != w || v.version != w.version {
		v.archetypes = w.QueryArchetypes(v.query, v.archetypes[:0])
		v.world = w
		v.version = w.version
	}
	return v.archetypes
}

// Count returns the number of entities matched in w.
func (v *View) Count(w *World) int {
	n := 0
	for _, a := range v.Archetypes(w) {
		n += a.EntityCount()
	}
	return n
}

// Entities appends every matched entity of w to out.
func (v *View) Entities(w *World, out []Entity) []Entity {
	for _, a := range v.Archetypes(w) {
		out = append(out, a.entities...)
	}
	return out
}
