package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/milk9111/alvere/app"
	"github.com/milk9111/alvere/config"
	"github.com/milk9111/alvere/debug/console"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/entity"
	"github.com/milk9111/alvere/ecs/system"
	"github.com/milk9111/alvere/prefabs"
	"go.uber.org/zap"
)

// Surface is what a game draws onto: filled shapes for the world and debug
// text for the console.
type Surface interface {
	system.Target
	console.Printer
}

// Game is a scene spawned from prefabs together with the systems that run it
// and the debug console that inspects it.
type Game struct {
	*app.Scene
	Spec    prefabs.SceneSpec
	Library *prefabs.Library
	Physics *system.PhysicsSystem
	Scripts *system.ScriptSystem
	Console *console.Console

	stats Stats
}

func NewGame(cfg *config.Config, target Surface, log *zap.Logger) (*Game, error) {
	lib := prefabs.NewLibrary(cfg.Assets.PrefabDir)
	world := ecs.NewWorld(ecs.WithLogger(log.Named("ecs")))

	spec, spawned, err := entity.SpawnScene(world, lib, cfg.Assets.Scene)
	if err != nil {
		return nil, err
	}
	log.Info("scene spawned",
		zap.String("scene", spec.Name),
		zap.Int("entities", len(spawned)),
		zap.Int("archetypes", len(world.Archetypes())),
	)

	var changes system.ChangeSource
	var closeWatcher func() error
	if cfg.Assets.Watch && cfg.Assets.PrefabDir != "" {
		w, err := prefabs.NewWatcher(watchDirs(cfg.Assets.PrefabDir)...)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", cfg.Assets.PrefabDir, err)
		}
		changes = w
		closeWatcher = w.Close
		log.Info("watching prefabs", zap.String("dir", cfg.Assets.PrefabDir))
	}

	gravity := mgl32.Vec2{float32(spec.Gravity.X), float32(spec.Gravity.Y)}
	scripts := system.NewScriptSystem(lib.LoadScript, log.Named("script"))
	physics := system.NewPhysicsSystem(log.Named("physics"))
	con := console.New(console.NewRegistry(), console.WithLogger(log.Named("console")))
	drawConsole := ecs.DrawerFunc(func(*ecs.World) error {
		con.Draw(target)
		return nil
	})

	sched, err := ecs.NewScheduler(
		ecs.Registration{Key: "reload", Updater: system.NewReloadSystem(changes, scripts, log.Named("reload")), Close: closeWatcher},
		ecs.Registration{Key: "script", Updater: scripts},
		ecs.Registration{Key: "gravity", Updater: system.NewGravitySystem(gravity)},
		ecs.Registration{Key: "physics", Updater: physics, Close: physics.Close},
		ecs.Registration{Key: "movement", Updater: system.NewMovementSystem()},
		ecs.Registration{Key: "ttl", Updater: system.NewTTLSystem()},
		ecs.Registration{Key: "destroy", Updater: system.NewDestroySystem()},
		ecs.Registration{Key: "render", Drawer: system.NewRenderSystem(target)},
		ecs.Registration{Key: "console", Drawer: drawConsole},
	)
	if err != nil {
		if closeWatcher != nil {
			err = errors.Join(err, closeWatcher())
		}
		return nil, err
	}

	g := &Game{
		Scene:   app.NewScene(world, sched, log),
		Spec:    spec,
		Library: lib,
		Physics: physics,
		Scripts: scripts,
		Console: con,
	}
	if err := registerCommands(con.Registry(), g); err != nil {
		return nil, errors.Join(err, sched.Close())
	}
	return g, nil
}

// Attach gives the console's fps and uptime commands a running application
// to report on.
func (g *Game) Attach(s Stats) {
	g.stats = s
}

// HandleEvent offers evt to the console first; the world sees what the
// console does not consume.
func (g *Game) HandleEvent(evt app.Event) {
	if g.Console.HandleEvent(evt) {
		return
	}
	g.Scene.HandleEvent(evt)
}

// watchDirs returns dir and those of its asset subdirectories that exist.
func watchDirs(dir string) []string {
	dirs := []string{dir}
	for _, sub := range []string{"scenes", "scripts"} {
		path := filepath.Join(dir, sub)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			dirs = append(dirs, path)
		}
	}
	return dirs
}
