package ecs

// column is the storage for one component kind inside one archetype: a dense
// slice kept in lockstep with every other column of the same archetype.
type column interface {
	len() int
	// allocate appends a zero value and returns its row.
	allocate() int
	// swapRemove moves the last value into row and shrinks by one.
	swapRemove(row int)
	// transfer copies the value at src into dst at dstRow. It is a no-op
	// when dst is nil, which is how a removed component gets dropped.
	transfer(src int, dst column, dstRow int)
	clone() column
	get(row int) any
	set(row int, v any) bool
}

type typedColumn[T any] struct {
	values []T
}

func newColumn[T any]() column {
	return &typedColumn[T]{}
}

func (c *typedColumn[T]) len() int {
	return len(c.values)
}

func (c *typedColumn[T]) allocate() int {
	var zero T
	c.values = append(c.values, zero)
	return len(c.values) - 1
}

func (c *typedColumn[T]) swapRemove(row int) {
	last := len(c.values) - 1
	if row != last {
		c.values[row] = c.values[last]
	}
	var zero T
	c.values[last] = zero
	c.values = c.values[:last]
}

func (c *typedColumn[T]) transfer(src int, dst column, dstRow int) {
	d, ok := dst.(*typedColumn[T])
	if !ok || d == nil {
		return
	}
	d.values[dstRow] = c.values[src]
}

func (c *typedColumn[T]) clone() column {
	return &typedColumn[T]{values: append([]T(nil), c.values...)}
}

func (c *typedColumn[T]) get(row int) any {
	return c.values[row]
}

func (c *typedColumn[T]) set(row int, v any) bool {
	typed, ok := v.(T)
	if !ok {
		return false
	}
	c.values[row] = typed
	return true
}
