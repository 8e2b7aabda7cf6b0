package ecs

import (
	"errors"
	"testing"
)

type recordingSystem struct {
	name string
	log  *[]string
	err  error
}

func (r *recordingSystem) Update(_ *World, _ float64) error {
	*r.log = append(*r.log, "update:"+r.name)
	return r.err
}

func (r *recordingSystem) Draw(_ *World) error {
	*r.log = append(*r.log, "draw:"+r.name)
	return nil
}

func TestSchedulerOrdering(t *testing.T) {
	var log []string
	physics := &recordingSystem{name: "physics", log: &log}
	render := &recordingSystem{name: "render", log: &log}
	both := &recordingSystem{name: "both", log: &log}

	s, err := NewScheduler(
		Registration{Key: "render", Drawer: render},
		Registration{Key: "physics", Updater: physics},
		Registration{Key: "both", Updater: both, Drawer: both},
	)
	if err != nil {
		t.Fatal(err)
	}

	w := NewWorld()
	if err := s.Update(w, 1.0/60); err != nil {
		t.Fatal(err)
	}
	if err := s.Draw(w); err != nil {
		t.Fatal(err)
	}

	want := []string{"update:physics", "update:both", "draw:render", "draw:both"}
	if len(log) != len(want) {
		t.Fatalf("expected %v, got %v", want, log)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, log)
		}
	}
}

func TestSchedulerRegistrationErrors(t *testing.T) {
	var log []string
	s, _ := NewScheduler()
	sys := &recordingSystem{name: "a", log: &log}

	if err := s.Add(Registration{Key: "a"}); !errors.Is(err, ErrNoCapability) {
		t.Fatalf("expected ErrNoCapability, got %v", err)
	}
	if err := s.Add(Registration{Key: "a", Updater: sys}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(Registration{Key: "a", Drawer: sys}); !errors.Is(err, ErrSystemExists) {
		t.Fatalf("expected ErrSystemExists, got %v", err)
	}
}

func TestSchedulerKeysDefaultToType(t *testing.T) {
	var log []string
	first := &recordingSystem{name: "first", log: &log}
	second := &recordingSystem{name: "second", log: &log}

	tests := []struct {
		name    string
		regs    []Registration
		wantErr error
		keys    []string
	}{
		{
			name:    "type registers once",
			regs:    []Registration{{Updater: first}, {Updater: second}},
			wantErr: ErrSystemExists,
		},
		{
			name: "drawer type used without updater",
			regs: []Registration{{Drawer: first}, {Updater: UpdaterFunc(func(*World, float64) error { return nil })}},
			keys: []string{"ecs.UpdaterFunc", "*ecs.recordingSystem"},
		},
		{
			name: "explicit keys allow instances of one type",
			regs: []Registration{{Key: "a", Updater: first}, {Key: "b", Updater: second}},
			keys: []string{"a", "b"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := NewScheduler(tc.regs...)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			got := s.Keys()
			if len(got) != len(tc.keys) {
				t.Fatalf("expected keys %v, got %v", tc.keys, got)
			}
			for i := range got {
				if got[i] != tc.keys[i] {
					t.Fatalf("expected keys %v, got %v", tc.keys, got)
				}
			}
		})
	}
}

func TestSchedulerRemoveAndClose(t *testing.T) {
	var log []string
	closed := map[string]int{}
	s, _ := NewScheduler()
	for _, key := range []string{"a", "b", "c"} {
		key := key
		sys := &recordingSystem{name: key, log: &log}
		_ = s.Add(Registration{
			Key:     key,
			Updater: sys,
			Close:   func() error { closed[key]++; return nil },
		})
	}

	removed, err := s.Remove("b")
	if !removed || err != nil {
		t.Fatalf("remove b: removed=%v err=%v", removed, err)
	}
	if s.Has("b") || closed["b"] != 1 {
		t.Fatalf("b should be removed and closed once")
	}
	if removed, _ := s.Remove("b"); removed {
		t.Fatalf("second remove should report false")
	}

	_ = s.Update(NewWorld(), 0)
	if len(log) != 2 || log[0] != "update:a" || log[1] != "update:c" {
		t.Fatalf("unexpected update order after remove: %v", log)
	}

	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if closed["a"] != 1 || closed["c"] != 1 || len(s.Keys()) != 0 {
		t.Fatalf("close should tear down every system: %v keys=%v", closed, s.Keys())
	}
}

func TestSchedulerStopsAtFirstError(t *testing.T) {
	var log []string
	boom := errors.New("boom")
	s, _ := NewScheduler(
		Registration{Key: "first", Updater: &recordingSystem{name: "first", log: &log, err: boom}},
		Registration{Key: "second", Updater: &recordingSystem{name: "second", log: &log}},
	)

	err := s.Update(NewWorld(), 0)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if len(log) != 1 {
		t.Fatalf("second system should not run after an error: %v", log)
	}
}
