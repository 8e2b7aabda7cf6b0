package ecs

import (
	"errors"
	"fmt"
)

var (
	ErrSystemExists = errors.New("ecs: system already registered")
	ErrNoCapability = errors.New("ecs: system registers neither update nor draw")
)

// Updater advances simulation state by a fixed delta in seconds.
type Updater interface {
	Update(w *World, dt float64) error
}

// Drawer submits the world's current state to a renderer.
type Drawer interface {
	Draw(w *World) error
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(w *World, dt float64) error

func (f UpdaterFunc) Update(w *World, dt float64) error {
	return f(w, dt)
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(w *World) error

func (f DrawerFunc) Draw(w *World) error {
	return f(w)
}

// Registration declares a system and the tables it joins. A system that both
// simulates and draws sets both Updater and Drawer, usually to the same value.
type Registration struct {
	// Key identifies the system. Empty means the dynamic type of Updater, or
	// of Drawer when there is no Updater, so a type registers once unless
	// its instances are given distinct keys.
	Key     string
	Updater Updater
	Drawer  Drawer
	// Close runs when the system is removed or the scheduler is closed.
	Close func() error
}

type scheduled struct {
	key string
	reg Registration
}

// Scheduler runs updaters then drawers, each group in registration order. At
// most one system is registered per key.
type Scheduler struct {
	keys     map[string]Registration
	updaters []scheduled
	drawers  []scheduled
}

func NewScheduler(regs ...Registration) (*Scheduler, error) {
	s := &Scheduler{keys: make(map[string]Registration)}
	for _, r := range regs {
		if err := s.Add(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Add registers a system.
func (s *Scheduler) Add(r Registration) error {
	if r.Updater == nil && r.Drawer == nil {
		return fmt.Errorf("%w: %q", ErrNoCapability, r.Key)
	}
	if r.Key == "" {
		r.Key = typeKey(r)
	}
	if _, ok := s.keys[r.Key]; ok {
		return fmt.Errorf("%w: %q", ErrSystemExists, r.Key)
	}
	s.keys[r.Key] = r
	if r.Updater != nil {
		s.updaters = append(s.updaters, scheduled{key: r.Key, reg: r})
	}
	if r.Drawer != nil {
		s.drawers = append(s.drawers, scheduled{key: r.Key, reg: r})
	}
	return nil
}

// Remove unregisters the system under key and runs its Close hook.
func (s *Scheduler) Remove(key string) (bool, error) {
	r, ok := s.keys[key]
	if !ok {
		return false, nil
	}
	delete(s.keys, key)
	s.updaters = without(s.updaters, key)
	s.drawers = without(s.drawers, key)
	if r.Close != nil {
		if err := r.Close(); err != nil {
			return true, fmt.Errorf("ecs: close system %q: %w", key, err)
		}
	}
	return true, nil
}

func typeKey(r Registration) string {
	if r.Updater != nil {
		return fmt.Sprintf("%T", r.Updater)
	}
	return fmt.Sprintf("%T", r.Drawer)
}

func without(list []scheduled, key string) []scheduled {
	out := list[:0]
	for _, sc := range list {
		if sc.key != key {
			out = append(out, sc)
		}
	}
	for i := len(out); i < len(list); i++ {
		list[i] = scheduled{}
	}
	return out
}

func (s *Scheduler) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Keys returns registered keys, updaters first then draw-only systems, in
// registration order.
func (s *Scheduler) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	seen := make(map[string]bool, len(s.keys))
	for _, group := range [][]scheduled{s.updaters, s.drawers} {
		for _, sc := range group {
			if !seen[sc.key] {
				seen[sc.key] = true
				keys = append(keys, sc.key)
			}
		}
	}
	return keys
}

// Update runs every updater once. It stops at the first error and returns it
// wrapped with the failing system's key.
func (s *Scheduler) Update(w *World, dt float64) error {
	for _, sc := range s.updaters {
		if err := sc.reg.Updater.Update(w, dt); err != nil {
			return fmt.Errorf("ecs: system %q update: %w", sc.key, err)
		}
	}
	return nil
}

// Draw runs every drawer once.
func (s *Scheduler) Draw(w *World) error {
	for _, sc := range s.drawers {
		if err := sc.reg.Drawer.Draw(w); err != nil {
			return fmt.Errorf("ecs: system %q draw: %w", sc.key, err)
		}
	}
	return nil
}

// Close removes every system, running Close hooks in registration order.
func (s *Scheduler) Close() error {
	var errs []error
	for _, key := range s.Keys() {
		if _, err := s.Remove(key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
