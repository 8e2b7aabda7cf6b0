package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/alvere/ecs/component"
)

type testPos struct{ X, Y float64 }
type testVel struct{ X, Y float64 }
type testTag struct{}

var (
	posComp = component.NewComponent[testPos]()
	velComp = component.NewComponent[testVel]()
	tagComp = component.NewComponent[testTag]()
	intComp = component.NewComponent[int]()
	strComp = component.NewComponent[string]()
)

// assertParity checks that every column of every archetype has the same
// length as the archetype's entity list and that the entity table agrees.
func assertParity(t *testing.T, w *World) {
	t.Helper()
	for _, a := range w.archetypes {
		for i, c := range a.columns {
			if c.len() != len(a.entities) {
				t.Fatalf("archetype %d column %d has %d rows, entities %d", a.index, a.kinds[i], c.len(), len(a.entities))
			}
		}
		for row, e := range a.entities {
			rec := w.entities.lookup(e)
			if rec == nil {
				t.Fatalf("entity %v in archetype %d is not alive", e, a.index)
			}
			if rec.arch != a || rec.row != row {
				t.Fatalf("entity %v record points at archetype %d row %d, stored at %d row %d", e, rec.arch.index, rec.row, a.index, row)
			}
		}
	}
}

func TestWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
				if DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("destroying a stale handle should return false")
				}
			}
			assertParity(t, w)
		})
	}
}

func TestRecycledIDIsNotAliased(t *testing.T) {
	w := NewWorld()
	old := CreateEntity(w)
	DestroyEntity(w, old)
	fresh := CreateEntity(w)

	if fresh.id() != old.id() {
		t.Fatalf("expected id reuse, got %v then %v", old, fresh)
	}
	if IsAlive(w, old) {
		t.Fatalf("stale handle %v resolved after id reuse", old)
	}
	if err := Add(w, old, intComp, 1); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
	if Has(w, fresh, intComp) {
		t.Fatalf("fresh entity should not see stale writes")
	}
}

func TestWorldComponentsTable(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() error
	}{
		{
			name:  "add_int_to_e1",
			setup: func() error { return Add(w, e1, intComp, 10) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, intComp)
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
			teardown: func() error { return Remove(w, e1, intComp) },
		},
		{
			name: "add_str_to_e1_and_e2",
			setup: func() error {
				if err := Add(w, e1, strComp, "a"); err != nil {
					return err
				}
				return Add(w, e2, strComp, "b")
			},
			check: func(t *testing.T) {
				if !Has(w, e1, strComp) || !Has(w, e2, strComp) {
					t.Fatalf("expected both entities to have string component")
				}
				a, _ := Get(w, e1, strComp)
				b, _ := Get(w, e2, strComp)
				if *a != "a" || *b != "b" {
					t.Fatalf("expected a/b, got %q/%q", *a, *b)
				}
			},
			teardown: func() error { return Remove(w, e1, strComp) },
		},
		{
			name:  "add_existing_is_noop",
			setup: func() error { return Add(w, e2, strComp, "replaced") },
			check: func(t *testing.T) {
				v, _ := Get(w, e2, strComp)
				if *v != "b" {
					t.Fatalf("Add on present component must keep the value, got %q", *v)
				}
			},
			teardown: func() error { return nil },
		},
		{
			name:  "set_overwrites",
			setup: func() error { return Set(w, e2, strComp, "set") },
			check: func(t *testing.T) {
				v, _ := Get(w, e2, strComp)
				if *v != "set" {
					t.Fatalf("Set should overwrite, got %q", *v)
				}
			},
			teardown: func() error { return Remove(w, e2, strComp) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			assertParity(t, w)
			tc.check(t)
			if err := tc.teardown(); err != nil {
				t.Fatalf("teardown failed for %s: %v", tc.name, err)
			}
			assertParity(t, w)
		})
	}
}

func TestMigrationPreservesData(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add(w, e, posComp, testPos{X: 1, Y: 2}); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, velComp, testVel{X: 3, Y: 4}); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, intComp, 0); err != nil {
		t.Fatal(err)
	}
	// Default-initialized add through the registered kind.
	if err := AddComponent(w, e, strComp.ID()); !errors.Is(err, component.ErrInvalidComponentKind) {
		t.Fatalf("expected unregistered kind to fail, got %v", err)
	}
	Register(w, strComp)
	if err := AddComponent(w, e, strComp.ID()); err != nil {
		t.Fatal(err)
	}

	pos, _ := Get(w, e, posComp)
	vel, _ := Get(w, e, velComp)
	s, ok := Get(w, e, strComp)
	if *pos != (testPos{1, 2}) || *vel != (testVel{3, 4}) {
		t.Fatalf("migration changed data: pos=%v vel=%v", *pos, *vel)
	}
	if !ok || *s != "" {
		t.Fatalf("new component should be default-initialized, got %q ok=%v", *s, ok)
	}

	sig, _ := SignatureOfEntity(w, e)
	if want := SignatureOf(posComp.ID(), velComp.ID(), intComp.ID(), strComp.ID()); sig != want {
		t.Fatalf("unexpected signature %v, want %v", sig, want)
	}
	assertParity(t, w)
}

func TestRemoveDropsOnlyRemoved(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	_ = Add(w, e, posComp, testPos{X: 5})
	_ = Add(w, e, velComp, testVel{Y: 6})
	_ = Add(w, e, intComp, 7)

	if err := Remove(w, e, velComp); err != nil {
		t.Fatal(err)
	}
	if Has(w, e, velComp) {
		t.Fatalf("velocity should be removed")
	}
	pos, _ := Get(w, e, posComp)
	n, _ := Get(w, e, intComp)
	if *pos != (testPos{X: 5}) || *n != 7 {
		t.Fatalf("remaining components changed: pos=%v int=%v", *pos, *n)
	}

	if err := Remove(w, e, velComp); err != nil {
		t.Fatalf("removing a missing component should be a no-op, got %v", err)
	}

	if err := Add(w, e, velComp, testVel{X: 9}); err != nil {
		t.Fatal(err)
	}
	vel, _ := Get(w, e, velComp)
	if *vel != (testVel{X: 9}) {
		t.Fatalf("re-added velocity should hold the new value, got %v", *vel)
	}
	assertParity(t, w)
}

func TestSwapRemoveRelocatesLastEntity(t *testing.T) {
	w := NewWorld()
	ents := make([]Entity, 4)
	for i := range ents {
		ents[i] = CreateEntity(w)
		_ = Add(w, ents[i], intComp, i*10)
	}

	rec := w.entities.lookup(ents[3])
	if rec.row != 3 {
		t.Fatalf("expected last entity at row 3, got %d", rec.row)
	}

	if !DestroyEntity(w, ents[1]) {
		t.Fatalf("destroy failed")
	}

	rec = w.entities.lookup(ents[3])
	if rec.row != 1 {
		t.Fatalf("relocated entity should now be at row 1, got %d", rec.row)
	}
	v, ok := Get(w, ents[3], intComp)
	if !ok || *v != 30 {
		t.Fatalf("relocated entity lost its data: %v ok=%v", v, ok)
	}
	if got := rec.arch.Entities()[1]; got != ents[3] {
		t.Fatalf("row 1 should map to %v, got %v", ents[3], got)
	}

	// Migrating an entity out of the middle also relocates the last one.
	if err := Add(w, ents[0], tagComp, testTag{}); err != nil {
		t.Fatal(err)
	}
	v, _ = Get(w, ents[2], intComp)
	if *v != 20 {
		t.Fatalf("entity 2 data changed after migration of entity 0: %v", *v)
	}
	assertParity(t, w)
}

func TestColumnParityUnderChurn(t *testing.T) {
	w := NewWorld()
	var live []Entity
	for step := 0; step < 200; step++ {
		switch step % 7 {
		case 0, 3:
			live = append(live, CreateEntity(w))
		case 1:
			if len(live) > 0 {
				_ = Add(w, live[step%len(live)], posComp, testPos{X: float64(step)})
			}
		case 2:
			if len(live) > 0 {
				_ = Add(w, live[(step*3)%len(live)], velComp, testVel{Y: float64(step)})
			}
		case 4:
			if len(live) > 0 {
				_ = Remove(w, live[(step*5)%len(live)], posComp)
			}
		case 5:
			if len(live) > 1 {
				i := (step * 11) % len(live)
				DestroyEntity(w, live[i])
				live = append(live[:i], live[i+1:]...)
			}
		case 6:
			if len(live) > 0 {
				_ = Add(w, live[(step*13)%len(live)], tagComp, testTag{})
			}
		}
		assertParity(t, w)
	}
	if Count(w) != len(live) {
		t.Fatalf("expected %d live entities, got %d", len(live), Count(w))
	}
}

func TestForEach(t *testing.T) {
	w := NewWorld()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)

	if err := Add(w, e1, intComp, 1); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := Add(w, e3, intComp, 3); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	_ = Add(w, e3, tagComp, testTag{})

	seen := make(map[Entity]int)
	ForEach(w, intComp, func(e Entity, v *int) { seen[e] = *v })

	if seen[e1] != 1 || seen[e3] != 3 {
		t.Fatalf("unexpected ForEach result %v", seen)
	}
	if _, ok := seen[e2]; ok {
		t.Fatalf("did not expect e2 in ForEach result")
	}
}

func TestForEach3(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				_ = Add(w, e1, posComp, testPos{})
				_ = Add(w, e2, posComp, testPos{})
				_ = Add(w, e2, velComp, testVel{})
				_ = Add(w, e2, intComp, 5)
				_ = Add(w, e3, velComp, testVel{})

				var res []Entity
				ForEach3(w, posComp, velComp, intComp, func(e Entity, _ *testPos, _ *testVel, _ *int) { res = append(res, e) })
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				_ = Add(w, e, posComp, testPos{})
				_ = Add(w, e, velComp, testVel{})
				_ = Add(w, e, intComp, 1)

				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach3(w, posComp, velComp, intComp, func(e Entity, _ *testPos, _ *testVel, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "writes_through",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)
				_ = Add(w, e, posComp, testPos{X: 1})
				_ = Add(w, e, velComp, testVel{X: 2})

				ForEach2(w, posComp, velComp, func(_ Entity, p *testPos, v *testVel) { p.X += v.X })

				p, _ := Get(w, e, posComp)
				if p.X != 3 {
					t.Fatalf("expected X=3, got %v", p.X)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestForEachLocksStructuralChanges(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	_ = Add(w, e, intComp, 1)

	var addErr, removeErr error
	var destroyed bool
	ForEach(w, intComp, func(e Entity, _ *int) {
		addErr = Add(w, e, tagComp, testTag{})
		removeErr = Remove(w, e, intComp)
		destroyed = DestroyEntity(w, e)
	})

	if !errors.Is(addErr, ErrWorldLocked) || !errors.Is(removeErr, ErrWorldLocked) {
		t.Fatalf("expected ErrWorldLocked, got add=%v remove=%v", addErr, removeErr)
	}
	if destroyed {
		t.Fatalf("destroy must fail while locked")
	}
	if w.Locked() {
		t.Fatalf("world should unlock after ForEach returns")
	}
	if err := Add(w, e, tagComp, testTag{}); err != nil {
		t.Fatalf("add after iteration failed: %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	_ = Add(w, e, posComp, testPos{X: 1})

	c := w.Clone()
	p, _ := Get(w, e, posComp)
	p.X = 42
	_ = Add(w, e, velComp, testVel{})

	cp, ok := Get(c, e, posComp)
	if !ok || cp.X != 1 {
		t.Fatalf("clone shares storage with original: %v ok=%v", cp, ok)
	}
	if Has(c, e, velComp) {
		t.Fatalf("clone should not see migrations made after cloning")
	}
	assertParity(t, w)
	assertParity(t, c)

	DestroyEntity(c, e)
	if !IsAlive(w, e) {
		t.Fatalf("destroying in the clone must not affect the original")
	}
}

func TestEndToEndPositionVelocity(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)
	if err := Add(w, e, posComp, testPos{}); err != nil {
		t.Fatal(err)
	}
	if err := Add(w, e, velComp, testVel{X: 1}); err != nil {
		t.Fatal(err)
	}

	movement := UpdaterFunc(func(w *World, dt float64) error {
		ForEach2(w, posComp, velComp, func(_ Entity, p *testPos, v *testVel) {
			p.X += v.X * dt
			p.Y += v.Y * dt
		})
		return nil
	})
	s, err := NewScheduler(Registration{Key: "movement", Updater: movement})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Update(w, 1.0); err != nil {
		t.Fatal(err)
	}

	p, _ := Get(w, e, posComp)
	if *p != (testPos{X: 1, Y: 0}) {
		t.Fatalf("expected position {1 0}, got %v", *p)
	}

	DestroyEntity(w, e)
	q := NewQuery().Include(posComp.ID())
	for _, a := range w.QueryArchetypes(q, nil) {
		for _, got := range a.Entities() {
			if got == e {
				t.Fatalf("destroyed entity still returned by query")
			}
		}
	}
}
