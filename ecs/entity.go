package ecs

import "strconv"

// Entity is a generational handle: the low 32 bits index the world's entity
// table, the high 32 bits must match the slot's generation for the handle to
// be alive. The zero Entity is never alive.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e.id()), 10) + "v" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool {
	return e > 0
}

// entityRecord locates a live entity. Migration rewrites arch and row in place
// so handles held by callers survive component add/remove.
type entityRecord struct {
	arch  *Archetype
	row   int
	gen   generation
	alive bool
}

// entityTable tracks entity generations and free ids. Slot 0 is reserved so
// that the zero Entity can never resolve.
type entityTable struct {
	records []entityRecord
	free    []entityID
}

func (t *entityTable) create() (Entity, *entityRecord) {
	if len(t.records) == 0 {
		t.records = append(t.records, entityRecord{})
	}
	var id entityID
	if n := len(t.free); n > 0 {
		id = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		id = entityID(len(t.records))
		t.records = append(t.records, entityRecord{})
	}
	rec := &t.records[id]
	rec.alive = true
	return makeEntity(id, rec.gen), rec
}

// lookup returns the record for e, or nil when the handle is stale.
func (t *entityTable) lookup(e Entity) *entityRecord {
	id := e.id()
	if id == 0 || int(id) >= len(t.records) {
		return nil
	}
	rec := &t.records[id]
	if !rec.alive || rec.gen != e.generation() {
		return nil
	}
	return rec
}

func (t *entityTable) release(e Entity) {
	rec := &t.records[e.id()]
	rec.arch = nil
	rec.row = -1
	rec.alive = false
	rec.gen++
	t.free = append(t.free, e.id())
}

func (t *entityTable) clone() entityTable {
	return entityTable{
		records: append([]entityRecord(nil), t.records...),
		free:    append([]entityID(nil), t.free...),
	}
}
