package app

import (
	"github.com/milk9111/alvere/ecs"
	"go.uber.org/zap"
)

// Scene adapts a world and its scheduler to Game.
type Scene struct {
	World     *ecs.World
	Scheduler *ecs.Scheduler
	log       *zap.Logger
}

func NewScene(w *ecs.World, s *ecs.Scheduler, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{World: w, Scheduler: s, log: log}
}

func (s *Scene) Update(dt float64) error {
	return s.Scheduler.Update(s.World, dt)
}

// Render draws the world and then discards the events queued for this frame,
// so every update of the iteration saw them.
func (s *Scene) Render() error {
	err := s.Scheduler.Draw(s.World)
	s.World.Events().Flush()
	return err
}

// HandleEvent queues window events on the world for systems to read.
func (s *Scene) HandleEvent(evt Event) {
	switch e := evt.(type) {
	case ResizeEvent:
		s.World.Events().Push(ecs.Event{Type: ecs.EventResize, Data: [2]int{e.Width, e.Height}})
	case KeyEvent:
		s.World.Events().Push(ecs.Event{Type: ecs.EventInput, Data: e})
	}
}

func (s *Scene) Close() error {
	err := s.Scheduler.Close()
	s.log.Debug("scene closed", zap.Int("entities", ecs.Count(s.World)))
	return err
}
