package ecs

import (
	"github.com/milk9111/alvere/ecs/component"
)

// noCopy makes go vet's copylocks check reject by-value copies of the types
// that embed it.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Archetype stores every entity that has exactly one set of component kinds.
// Each kind has one column; all columns and the entity list share the same
// length, and row i of every column belongs to entities[i].
//
// Archetypes are only ever handled by pointer. A deep copy is available
// through clone, which World.Clone uses.
type Archetype struct {
	_ noCopy

	index    int
	sig      Signature
	kinds    []component.ComponentID
	slots    [component.MaxComponentKinds + 1]int16
	columns  []column
	entities []Entity
}

func newArchetype(index int, sig Signature, factories *[component.MaxComponentKinds + 1]func() column) *Archetype {
	a := &Archetype{
		index: index,
		sig:   sig,
		kinds: sig.IDs(),
	}
	for i := range a.slots {
		a.slots[i] = -1
	}
	a.columns = make([]column, len(a.kinds))
	for i, id := range a.kinds {
		a.slots[id] = int16(i)
		a.columns[i] = factories[id]()
	}
	return a
}

// Signature returns the archetype's immutable component set.
func (a *Archetype) Signature() Signature {
	return a.sig
}

// Kinds returns the component ids stored here in ascending order.
func (a *Archetype) Kinds() []component.ComponentID {
	return a.kinds
}

func (a *Archetype) Has(id component.ComponentID) bool {
	return a.slots[id] >= 0
}

// EntityCount returns the number of live rows.
func (a *Archetype) EntityCount() int {
	return len(a.entities)
}

// Entities returns the row to entity mapping. The slice is owned by the
// archetype and is invalidated by the next structural change.
func (a *Archetype) Entities() []Entity {
	return a.entities
}

func (a *Archetype) column(id component.ComponentID) column {
	slot := a.slots[id]
	if slot < 0 {
		return nil
	}
	return a.columns[slot]
}

// allocate grows every column by one zero value and records e as the owner
// of the new row.
func (a *Archetype) allocate(e Entity) int {
	row := len(a.entities)
	for _, c := range a.columns {
		c.allocate()
	}
	a.entities = append(a.entities, e)
	return row
}

// transferEntity allocates a row in dst and copies every component that dst
// also stores. Components dst has but a does not stay zero valued. The source
// row is left in place; the caller swap-removes it afterwards.
func (a *Archetype) transferEntity(row int, dst *Archetype) int {
	dstRow := dst.allocate(a.entities[row])
	for i, id := range a.kinds {
		a.columns[i].transfer(row, dst.column(id), dstRow)
	}
	return dstRow
}

// swapRemove deletes row by moving the last row into it. When another entity
// was relocated it is returned so the caller can fix its table entry.
func (a *Archetype) swapRemove(row int) (Entity, bool) {
	last := len(a.entities) - 1
	for _, c := range a.columns {
		c.swapRemove(row)
	}
	moved := a.entities[last]
	a.entities[row] = moved
	a.entities[last] = 0
	a.entities = a.entities[:last]
	if row == last {
		return 0, false
	}
	return moved, true
}

// clone deep-copies every column so the copy shares no backing arrays.
func (a *Archetype) clone() *Archetype {
	c := &Archetype{
		index:    a.index,
		sig:      a.sig,
		kinds:    append([]component.ComponentID(nil), a.kinds...),
		slots:    a.slots,
		columns:  make([]column, len(a.columns)),
		entities: append([]Entity(nil), a.entities...),
	}
	for i, col := range a.columns {
		c.columns[i] = col.clone()
	}
	return c
}

// Column returns the dense values of kind in a, or nil when a does not store
// it. The slice aliases archetype storage; writes are visible to the world and
// the slice is invalidated by the next structural change.
func Column[T any](a *Archetype, handle component.ComponentHandle[T]) []T {
	if a == nil {
		return nil
	}
	c, ok := a.column(handle.ID()).(*typedColumn[T])
	if !ok {
		return nil
	}
	return c.values
}
