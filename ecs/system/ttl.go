package system

import (
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
)

// TTLSystem decrements tick-based TTL components and marks entities with
// Destroy when the TTL reaches zero. Marking happens after the iteration
// because the world is locked while ForEach runs.
type TTLSystem struct {
	expired []ecs.Entity
}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World, _ float64) error {
	s.expired = s.expired[:0]
	ecs.ForEach(w, component.TTLComponent, func(e ecs.Entity, ttl *component.TTL) {
		if ttl.Ticks > 0 {
			ttl.Ticks--
		}
		if ttl.Ticks == 0 {
			s.expired = append(s.expired, e)
		}
	})

	for _, e := range s.expired {
		if err := ecs.Add(w, e, component.DestroyComponent, component.Destroy{}); err != nil {
			return err
		}
	}
	return nil
}
