package app

import (
	"errors"
	"fmt"
	"image/color"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("app: invalid config")

// Config controls the loop. MaxCatchUp bounds the updates run in a single
// iteration; zero means unbounded.
type Config struct {
	TickRate    int
	ClearColour color.RGBA
	FPSWindow   time.Duration
	MaxCatchUp  int
}

func DefaultConfig() Config {
	return Config{
		TickRate:    60,
		ClearColour: color.RGBA{A: 255},
		FPSWindow:   time.Second,
	}
}

type Option func(*Application)

func WithLogger(log *zap.Logger) Option {
	return func(a *Application) {
		if log != nil {
			a.log = log
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *Application) {
		if now != nil {
			a.now = now
		}
	}
}

func WithConfig(cfg Config) Option {
	return func(a *Application) {
		a.cfg = cfg
	}
}

// WithEventHandler receives every window event after the application has
// handled it.
func WithEventHandler(fn func(Event)) Option {
	return func(a *Application) {
		a.onEvent = fn
	}
}

// Application runs a Game at a fixed timestep. Each iteration polls window
// events once, runs as many fixed updates as the accumulated time allows,
// then renders once.
type Application struct {
	window   Window
	renderer Renderer
	game     Game
	cfg      Config
	step     time.Duration
	dt       float64
	log      *zap.Logger
	now      func() time.Time
	onEvent  func(Event)
	fps      *FPSCounter

	running bool
	started bool
	closed  bool
	last    time.Time
	lag     time.Duration

	ticks  uint64
	frames uint64
	faults uint64
	fatal  error
}

func New(window Window, renderer Renderer, game Game, opts ...Option) (*Application, error) {
	if window == nil || renderer == nil || game == nil {
		return nil, fmt.Errorf("%w: window, renderer and game are required", ErrInvalidConfig)
	}

	a := &Application{
		window:   window,
		renderer: renderer,
		game:     game,
		cfg:      DefaultConfig(),
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cfg.TickRate <= 0 {
		return nil, fmt.Errorf("%w: tick rate must be positive, got %d", ErrInvalidConfig, a.cfg.TickRate)
	}
	if a.cfg.MaxCatchUp < 0 {
		return nil, fmt.Errorf("%w: max catch-up must not be negative, got %d", ErrInvalidConfig, a.cfg.MaxCatchUp)
	}

	// step is truncated to whole nanoseconds and only paces the accumulator;
	// updates receive the exact fraction.
	a.step = time.Second / time.Duration(a.cfg.TickRate)
	a.dt = 1 / float64(a.cfg.TickRate)
	a.fps = NewFPSCounter(a.cfg.FPSWindow)
	renderer.SetClearColour(a.cfg.ClearColour)
	window.SetEventHandler(a.handleEvent)
	a.running = true
	return a, nil
}

// Run iterates until the window closes, Stop is called or a fatal fault
// occurs, then closes the game and the window. It returns the fatal fault,
// if any, joined with teardown errors.
func (a *Application) Run() error {
	a.Start()
	a.log.Info("application started",
		zap.Int("tick_rate", a.cfg.TickRate),
		zap.Duration("step", a.step),
	)
	for a.running {
		a.Iterate()
	}
	return a.Close()
}

// Start anchors the clock. The first iteration measures elapsed time from
// here. Calling Start again has no effect.
func (a *Application) Start() {
	if a.started {
		return
	}
	a.started = true
	a.last = a.now()
}

func (a *Application) Iterate() {
	if a.Advance() {
		a.Present()
	}
}

// Advance runs the event and update half of an iteration. It reports whether
// the frame should be presented.
func (a *Application) Advance() bool {
	if !a.running {
		return false
	}
	a.Start()

	now := a.now()
	elapsed := now.Sub(a.last)
	if elapsed < 0 {
		elapsed = 0
	}
	a.last = now
	a.lag += elapsed
	if a.fps.Frame(now) {
		a.log.Debug("fps",
			zap.Float64("fps", a.fps.FPS()),
			zap.Duration("frame_time", a.fps.FrameTime()),
		)
	}

	a.window.PollEvents()
	if !a.running {
		return false
	}

	dt := a.dt
	updates := 0
	for a.lag >= a.step {
		if a.cfg.MaxCatchUp > 0 && updates >= a.cfg.MaxCatchUp {
			a.log.Warn("dropping accumulated time",
				zap.Duration("lag", a.lag),
				zap.Int("updates", updates),
			)
			a.lag %= a.step
			break
		}
		a.lag -= a.step
		a.ticks++
		updates++
		if err := a.call(func() error { return a.game.Update(dt) }); err != nil {
			a.fault("update", err)
			return false
		}
	}
	return true
}

// Present clears, renders and swaps. A failed render skips the swap.
func (a *Application) Present() {
	a.renderer.Clear()
	if err := a.call(a.game.Render); err != nil {
		a.fault("render", err)
		return
	}
	a.window.SwapBuffers()
	a.frames++
}

// Stop ends the loop after the current iteration.
func (a *Application) Stop() {
	a.running = false
}

// Close tears down the game and the window. Only the first call does work.
func (a *Application) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.running = false
	err := errors.Join(a.fatal, a.game.Close(), a.window.Close())
	a.log.Info("application stopped",
		zap.Uint64("ticks", a.ticks),
		zap.Uint64("frames", a.frames),
		zap.Uint64("faults", a.faults),
	)
	return err
}

func (a *Application) Running() bool        { return a.running }
func (a *Application) Ticks() uint64        { return a.ticks }
func (a *Application) Frames() uint64       { return a.frames }
func (a *Application) Faults() uint64       { return a.faults }
func (a *Application) FPS() float64         { return a.fps.FPS() }
func (a *Application) Step() time.Duration  { return a.step }
func (a *Application) DeltaTime() float64   { return a.dt }
func (a *Application) Config() Config       { return a.cfg }
func (a *Application) Err() error           { return a.fatal }
func (a *Application) Lag() time.Duration   { return a.lag }
func (a *Application) Counter() *FPSCounter { return a.fps }

// call runs fn, converting a panic into a fatal fault.
func (a *Application) call(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Fatal(eris.Errorf("panic: %v", r))
		}
	}()
	return fn()
}

func (a *Application) fault(phase string, err error) {
	detail := eris.ToString(eris.Wrapf(err, "%s failed at tick %d", phase, a.ticks), true)
	if IsFatal(err) {
		a.log.Error("fatal fault, stopping",
			zap.String("phase", phase),
			zap.Uint64("tick", a.ticks),
			zap.Error(err),
			zap.String("detail", detail),
		)
		a.fatal = err
		a.running = false
		return
	}
	a.faults++
	a.log.Error("recoverable fault, skipping frame",
		zap.String("phase", phase),
		zap.Uint64("tick", a.ticks),
		zap.Error(err),
		zap.String("detail", detail),
	)
}

func (a *Application) handleEvent(evt Event) {
	switch e := evt.(type) {
	case CloseEvent:
		a.log.Info("window close requested")
		a.running = false
	case ResizeEvent:
		a.log.Debug("window resized", zap.Int("width", e.Width), zap.Int("height", e.Height))
	}
	if a.onEvent != nil {
		a.onEvent(evt)
	}
}
