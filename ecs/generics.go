package ecs

import "github.com/milk9111/alvere/ecs/component"

// CreateEntity allocates a new entity with no components.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.create()
}

// DestroyEntity removes e and all its components. It returns false when e is
// stale or the world is locked by an iteration.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.destroy(e) == nil
}

// IsAlive reports whether an entity handle still resolves.
func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.lookup(e) != nil
}

// Add attaches a component to e, migrating it to the matching archetype. If e
// already has the component this is a no-op: the stored value is kept and nil
// is returned. Use Set to overwrite.
func Add[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if w == nil {
		return component.ErrEntityNotAlive
	}
	if !handle.Kind().Valid() {
		return component.ErrInvalidComponentKind
	}
	Register(w, handle)
	rec, added, err := w.addComponent(e, handle.ID())
	if err != nil || !added {
		return err
	}
	Column(rec.arch, handle)[rec.row] = value
	return nil
}

// Set writes value for e, adding the component when it is missing.
func Set[T any](w *World, e Entity, handle component.ComponentHandle[T], value T) error {
	if ptr, ok := Get(w, e, handle); ok {
		*ptr = value
		return nil
	}
	return Add(w, e, handle, value)
}

// AddComponent attaches a zero-valued component by id. The kind must have
// been registered with the world, either by Register or by a previous Add.
func AddComponent(w *World, e Entity, id component.ComponentID) error {
	if w == nil {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	_, _, err := w.addComponent(e, id)
	return err
}

// Remove detaches a component from e. Removing a component e does not have is
// a no-op.
func Remove[T any](w *World, e Entity, handle component.ComponentHandle[T]) error {
	return RemoveComponent(w, e, handle.ID())
}

// RemoveComponent is the non-generic form of Remove.
func RemoveComponent(w *World, e Entity, id component.ComponentID) error {
	if w == nil {
		return component.ErrEntityNotAlive
	}
	if id == 0 {
		return component.ErrInvalidComponentKind
	}
	_, err := w.removeComponent(e, id)
	return err
}

// Has reports whether e is alive and has the component.
func Has[T any](w *World, e Entity, handle component.ComponentHandle[T]) bool {
	if w == nil {
		return false
	}
	rec := w.entities.lookup(e)
	return rec != nil && rec.arch.Has(handle.ID())
}

// Get returns a pointer to e's component. The pointer aliases archetype
// storage and is invalidated by the next structural change to the world.
func Get[T any](w *World, e Entity, handle component.ComponentHandle[T]) (*T, bool) {
	if w == nil {
		return nil, false
	}
	rec := w.entities.lookup(e)
	if rec == nil {
		return nil, false
	}
	values := Column(rec.arch, handle)
	if values == nil {
		return nil, false
	}
	return &values[rec.row], true
}

// SignatureOfEntity returns the component set of a live entity.
func SignatureOfEntity(w *World, e Entity) (Signature, bool) {
	if w == nil {
		return Signature{}, false
	}
	rec := w.entities.lookup(e)
	if rec == nil {
		return Signature{}, false
	}
	return rec.arch.sig, true
}

// Entities returns every live entity, grouped by archetype.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, Count(w))
	for _, a := range w.archetypes {
		out = append(out, a.entities...)
	}
	return out
}

// Count returns the number of live entities.
func Count(w *World) int {
	if w == nil {
		return 0
	}
	n := 0
	for _, a := range w.archetypes {
		n += len(a.entities)
	}
	return n
}

// First returns any live entity that has the component.
func First[T any](w *World, handle component.ComponentHandle[T]) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	for _, a := range w.archetypes {
		if a.Has(handle.ID()) && len(a.entities) > 0 {
			return a.entities[0], true
		}
	}
	return 0, false
}

// ForEach calls fn for every entity with the component. The world is locked
// while fn runs; structural changes return ErrWorldLocked.
func ForEach[T any](w *World, h component.ComponentHandle[T], fn func(Entity, *T)) {
	each(w, NewQuery().Include(h.ID()), func(a *Archetype) {
		values := Column(a, h)
		for i, e := range a.entities {
			fn(e, &values[i])
		}
	})
}

// ForEach2 calls fn for every entity with both components.
func ForEach2[A, B any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], fn func(Entity, *A, *B)) {
	each(w, NewQuery().Include(ha.ID(), hb.ID()), func(a *Archetype) {
		as, bs := Column(a, ha), Column(a, hb)
		for i, e := range a.entities {
			fn(e, &as[i], &bs[i])
		}
	})
}

// ForEach3 calls fn for every entity with all three components.
func ForEach3[A, B, C any](w *World, ha component.ComponentHandle[A], hb component.ComponentHandle[B], hc component.ComponentHandle[C], fn func(Entity, *A, *B, *C)) {
	each(w, NewQuery().Include(ha.ID(), hb.ID(), hc.ID()), func(a *Archetype) {
		as, bs, cs := Column(a, ha), Column(a, hb), Column(a, hc)
		for i, e := range a.entities {
			fn(e, &as[i], &bs[i], &cs[i])
		}
	})
}

func each(w *World, q Query, fn func(*Archetype)) {
	if w == nil {
		return
	}
	w.locked++
	defer func() { w.locked-- }()
	for _, a := range w.archetypes {
		if len(a.entities) == 0 || !q.Matches(a.sig) {
			continue
		}
		fn(a)
	}
}

// Locked reports whether an iteration is in progress.
func (w *World) Locked() bool {
	return w != nil && w.locked > 0
}
