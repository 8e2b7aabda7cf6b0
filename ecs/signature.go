package ecs

import (
	"math/bits"

	"github.com/milk9111/alvere/ecs/component"
)

// Signature is the set of component kinds that defines an archetype. It is
// comparable and used directly as the archetype lookup key.
type Signature [4]uint64

// SignatureOf builds a signature from component ids.
func SignatureOf(ids ...component.ComponentID) Signature {
	var s Signature
	for _, id := range ids {
		s = s.With(id)
	}
	return s
}

func (s Signature) With(id component.ComponentID) Signature {
	s[id>>6] |= 1 << (id & 63)
	return s
}

func (s Signature) Without(id component.ComponentID) Signature {
	s[id>>6] &^= 1 << (id & 63)
	return s
}

func (s Signature) Has(id component.ComponentID) bool {
	return s[id>>6]&(1<<(id&63)) != 0
}

// Contains reports whether every kind in sub is also in s.
func (s Signature) Contains(sub Signature) bool {
	return s[0]&sub[0] == sub[0] &&
		s[1]&sub[1] == sub[1] &&
		s[2]&sub[2] == sub[2] &&
		s[3]&sub[3] == sub[3]
}

// Intersects reports whether s and o share at least one kind.
func (s Signature) Intersects(o Signature) bool {
	return s[0]&o[0] != 0 || s[1]&o[1] != 0 || s[2]&o[2] != 0 || s[3]&o[3] != 0
}

func (s Signature) IsEmpty() bool {
	return s == Signature{}
}

func (s Signature) Len() int {
	return bits.OnesCount64(s[0]) + bits.OnesCount64(s[1]) + bits.OnesCount64(s[2]) + bits.OnesCount64(s[3])
}

// IDs returns the member ids in ascending order.
func (s Signature) IDs() []component.ComponentID {
	out := make([]component.ComponentID, 0, s.Len())
	for word, v := range s {
		for v != 0 {
			bit := bits.TrailingZeros64(v)
			out = append(out, component.ComponentID(word*64+bit))
			v &^= 1 << bit
		}
	}
	return out
}
