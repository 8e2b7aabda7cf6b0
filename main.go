package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/milk9111/alvere/app"
	"github.com/milk9111/alvere/config"
	"github.com/milk9111/alvere/debug/console"
	"github.com/milk9111/alvere/platform"
	"github.com/pkg/profile"
	"go.uber.org/zap"
)

const defaultHeadlessFrames = 600

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a .toml or .yaml config (default $ALVERE_CONFIG)")
	sceneName := flag.String("scene", "", "scene name under prefabs/scenes, overrides the config")
	headless := flag.Bool("headless", false, "run without a window on a simulated clock")
	frames := flag.Int("frames", 0, "headless only: stop after this many frames (default 600)")
	profileMode := flag.String("profile", "", "write a cpu or mem profile to the working directory")
	debug := flag.Bool("debug", false, "enable debug logging")
	execLines := flag.String("exec", "", "console commands to run on the first frame, separated by ';'")
	flag.Parse()

	// A missing .env is fine; it only seeds ALVERE_* variables.
	_ = godotenv.Load()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *sceneName != "" {
		cfg.Assets.Scene = *sceneName
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile mode %q, want cpu or mem", *profileMode)
	}

	clearColour, err := cfg.Loop.Clear()
	if err != nil {
		return err
	}
	loop := app.Config{
		TickRate:    cfg.Loop.TickRate,
		ClearColour: clearColour,
		FPSWindow:   cfg.Loop.FPSWindow,
		MaxCatchUp:  cfg.Loop.MaxCatchUp,
	}

	script := consoleScript(*execLines)
	if *headless {
		return runHeadless(cfg, loop, *frames, script, log)
	}
	return runWindowed(cfg, loop, script, log)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		path = os.Getenv("ALVERE_CONFIG")
	}
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runWindowed(cfg *config.Config, loop app.Config, script []string, log *zap.Logger) error {
	host := platform.NewHost(platform.WindowOptions{
		Title:     cfg.Window.Title,
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Resizable: cfg.Window.Resizable,
	}, log.Named("platform"))

	game, err := NewGame(cfg, host, log)
	if err != nil {
		return err
	}
	loop.ClearColour = game.Spec.Clear.Or(loop.ClearColour)

	a, err := app.New(host, host, game,
		app.WithConfig(loop),
		app.WithLogger(log.Named("app")),
		app.WithEventHandler(game.HandleEvent),
	)
	if err != nil {
		return err
	}
	game.Attach(a)
	for _, line := range script {
		// Failures are printed to the console and logged.
		_, _ = game.Console.Exec(line)
	}
	return host.Run(a)
}

func runHeadless(cfg *config.Config, loop app.Config, frames int, script []string, log *zap.Logger) error {
	if frames <= 0 {
		frames = defaultHeadlessFrames
	}
	window := app.NewHeadlessWindow(cfg.Window.Width, cfg.Window.Height)
	window.CloseAfter(frames + 1)
	scheduleConsole(window, 0, script)
	renderer := app.NewRecordingRenderer()

	game, err := NewGame(cfg, renderer, log)
	if err != nil {
		return err
	}
	loop.ClearColour = game.Spec.Clear.Or(loop.ClearColour)

	clock := &stepClock{
		t:    time.Unix(0, 0),
		step: time.Second / time.Duration(loop.TickRate),
	}
	a, err := app.New(window, renderer, game,
		app.WithConfig(loop),
		app.WithLogger(log.Named("app")),
		app.WithClock(clock.Now),
		app.WithEventHandler(game.HandleEvent),
	)
	if err != nil {
		return err
	}
	game.Attach(a)
	err = a.Run()
	log.Info("headless run finished",
		zap.Uint64("ticks", a.Ticks()),
		zap.Uint64("frames", a.Frames()),
		zap.Int("fills", renderer.TotalFills),
		zap.Int("bodies", game.Physics.Bodies()),
	)
	return err
}

// consoleScript splits an -exec value into command lines.
func consoleScript(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, ";") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// scheduleConsole types each line into the console during the given poll, as
// a player would: open, type, enter, close.
func scheduleConsole(w *app.HeadlessWindow, poll int, lines []string) {
	if len(lines) == 0 {
		return
	}
	w.Schedule(poll, app.KeyEvent{Key: console.ToggleKey, Pressed: true})
	for _, line := range lines {
		w.Schedule(poll, app.TextEvent{Text: line}, app.KeyEvent{Key: "Enter", Pressed: true})
	}
	w.Schedule(poll, app.KeyEvent{Key: console.ToggleKey, Pressed: true})
}

// stepClock advances by one tick per reading, so a headless run performs
// exactly one update per frame regardless of wall time.
type stepClock struct {
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}
