package ecs

import (
	"errors"
	"fmt"

	"github.com/milk9111/alvere/ecs/component"
	"go.uber.org/zap"
)

// ErrWorldLocked is returned by structural changes attempted while a ForEach
// iteration is running. Mark entities with a component instead and let a
// later system apply the change.
var ErrWorldLocked = errors.New("ecs: world is locked during iteration")

// World owns every archetype, the entity table, and the component registry.
// It is not safe for concurrent use.
type World struct {
	entities   entityTable
	archetypes []*Archetype
	bySig      map[Signature]*Archetype
	factories  [component.MaxComponentKinds + 1]func() column

	// version is bumped whenever an archetype is created so cached query
	// results know to rebuild.
	version uint64
	locked  int
	events  EventQueue
	log     *zap.Logger
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger used for archetype diagnostics.
func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

// NewWorld creates an empty ECS world with the empty-signature archetype
// already in place.
func NewWorld(opts ...Option) *World {
	w := &World{
		bySig: make(map[Signature]*Archetype),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.archetype(Signature{})
	return w
}

// Register makes kind known to w so that archetypes containing it can be
// built. The generic helpers register implicitly; Register is only needed
// before the first non-generic AddComponent of a kind.
func Register[T any](w *World, handle component.ComponentHandle[T]) {
	if w == nil || !handle.Kind().Valid() {
		return
	}
	if w.factories[handle.ID()] == nil {
		w.factories[handle.ID()] = newColumn[T]
	}
}

// Version changes whenever a new archetype is created.
func (w *World) Version() uint64 {
	if w == nil {
		return 0
	}
	return w.version
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// Archetypes returns every archetype in creation order.
func (w *World) Archetypes() []*Archetype {
	if w == nil {
		return nil
	}
	return w.archetypes
}

// archetype finds or creates the archetype for sig.
func (w *World) archetype(sig Signature) *Archetype {
	if a, ok := w.bySig[sig]; ok {
		return a
	}
	a := newArchetype(len(w.archetypes), sig, &w.factories)
	w.archetypes = append(w.archetypes, a)
	w.bySig[sig] = a
	w.version++
	w.log.Debug("archetype created",
		zap.Int("index", a.index),
		zap.Int("kinds", len(a.kinds)),
	)
	return a
}

func (w *World) create() Entity {
	e, rec := w.entities.create()
	empty := w.archetypes[0]
	rec.arch = empty
	rec.row = empty.allocate(e)
	return e
}

func (w *World) destroy(e Entity) error {
	if w.locked > 0 {
		return ErrWorldLocked
	}
	rec := w.entities.lookup(e)
	if rec == nil {
		return component.ErrEntityNotAlive
	}
	w.removeRow(rec.arch, rec.row)
	w.entities.release(e)
	return nil
}

func (w *World) removeRow(a *Archetype, row int) {
	if moved, ok := a.swapRemove(row); ok {
		w.entities.records[moved.id()].row = row
	}
}

// migrate moves e into dst, keeping the components both archetypes store.
func (w *World) migrate(rec *entityRecord, dst *Archetype) {
	src := rec.arch
	row := rec.row
	dstRow := src.transferEntity(row, dst)
	w.removeRow(src, row)
	rec.arch = dst
	rec.row = dstRow
}

// addComponent migrates e to the archetype that also stores id. It reports
// false without error when e already has id.
func (w *World) addComponent(e Entity, id component.ComponentID) (*entityRecord, bool, error) {
	if w.locked > 0 {
		return nil, false, ErrWorldLocked
	}
	rec := w.entities.lookup(e)
	if rec == nil {
		return nil, false, component.ErrEntityNotAlive
	}
	if rec.arch.Has(id) {
		return rec, false, nil
	}
	if w.factories[id] == nil {
		return nil, false, fmt.Errorf("%w: id %d is not registered", component.ErrInvalidComponentKind, id)
	}
	w.migrate(rec, w.archetype(rec.arch.sig.With(id)))
	return rec, true, nil
}

func (w *World) removeComponent(e Entity, id component.ComponentID) (bool, error) {
	if w.locked > 0 {
		return false, ErrWorldLocked
	}
	rec := w.entities.lookup(e)
	if rec == nil {
		return false, component.ErrEntityNotAlive
	}
	if !rec.arch.Has(id) {
		return false, nil
	}
	w.migrate(rec, w.archetype(rec.arch.sig.Without(id)))
	return true, nil
}

// QueryArchetypes appends every archetype matching q to out and returns the
// extended slice. Matching archetypes may be empty. The result must not be
// kept across ticks.
func (w *World) QueryArchetypes(q Query, out []*Archetype) []*Archetype {
	if w == nil {
		return out
	}
	for _, a := range w.archetypes {
		if q.Matches(a.sig) {
			out = append(out, a)
		}
	}
	return out
}

// Clone returns a deep copy of the world. Entity handles from w resolve to the
// same entities in the copy; no component storage is shared.
func (w *World) Clone() *World {
	if w == nil {
		return nil
	}
	c := &World{
		entities:   w.entities.clone(),
		archetypes: make([]*Archetype, len(w.archetypes)),
		bySig:      make(map[Signature]*Archetype, len(w.bySig)),
		factories:  w.factories,
		version:    w.version,
		log:        w.log,
	}
	for i, a := range w.archetypes {
		ca := a.clone()
		c.archetypes[i] = ca
		c.bySig[ca.sig] = ca
	}
	for i := range c.entities.records {
		rec := &c.entities.records[i]
		if rec.arch != nil {
			rec.arch = c.archetypes[rec.arch.index]
		}
	}
	return c
}
