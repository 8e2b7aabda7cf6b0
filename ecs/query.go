package ecs

import "github.com/milk9111/alvere/ecs/component"

// Query filters archetypes by required and forbidden component kinds. It is a
// value type: Include and Exclude return a new Query and never modify the
// receiver, so a query built once can be shared and reused every tick.
type Query struct {
	include Signature
	exclude Signature
}

// NewQuery returns a query that matches every archetype.
func NewQuery() Query {
	return Query{}
}

// Include requires every listed kind.
func (q Query) Include(ids ...component.ComponentID) Query {
	for _, id := range ids {
		q.include = q.include.With(id)
	}
	return q
}

// Exclude rejects archetypes that have any listed kind.
func (q Query) Exclude(ids ...component.ComponentID) Query {
	for _, id := range ids {
		q.exclude = q.exclude.With(id)
	}
	return q
}

func (q Query) Included() Signature {
	return q.include
}

func (q Query) Excluded() Signature {
	return q.exclude
}

// Matches reports whether an archetype with sig satisfies the query.
func (q Query) Matches(sig Signature) bool {
	return sig.Contains(q.include) && !sig.Intersects(q.exclude)
}
