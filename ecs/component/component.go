package component

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
	ErrTooManyKinds         = errors.New("ecs: too many component kinds")
)

// MaxComponentKinds bounds the number of kinds a process may declare. IDs
// index a fixed-width signature mask, so the limit is part of the layout.
const MaxComponentKinds = 255

// ComponentID is the dense integer identity of a component kind. It is handed
// out once when the kind is declared and never changes afterwards.
type ComponentID uint8

type ComponentKind[T any] struct {
	id ComponentID
}

func NewComponentKind[T any]() ComponentKind[T] {
	return ComponentKind[T]{id: nextID()}
}

func (k ComponentKind[T]) ID() ComponentID {
	return k.id
}

func (k ComponentKind[T]) Valid() bool {
	return k.id != 0
}

type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: NewComponentKind[T]()}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] {
	return h.kind
}

func (h ComponentHandle[T]) ID() ComponentID {
	return h.kind.id
}

var nextComponentID atomic.Uint32

func nextID() ComponentID {
	id := nextComponentID.Add(1)
	if id > MaxComponentKinds {
		panic(fmt.Errorf("%w: limit is %d", ErrTooManyKinds, MaxComponentKinds))
	}
	return ComponentID(id)
}
