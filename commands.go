package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/milk9111/alvere/debug/console"
	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/component"
	"github.com/milk9111/alvere/ecs/entity"
)

// Stats is the slice of the running application the console reports on.
type Stats interface {
	FPS() float64
	Ticks() uint64
	Frames() uint64
	Faults() uint64
	DeltaTime() float64
}

// registerCommands adds the engine commands that act on g.
func registerCommands(reg *console.Registry, g *Game) error {
	commands := []console.Command{
		{
			Name:        "fps",
			Description: "Shows frame rate and loop counters.",
			Run: func(console.Args) (string, error) {
				if g.stats == nil {
					return "", fmt.Errorf("no application attached")
				}
				return fmt.Sprintf("fps %.1f ticks %d frames %d faults %d",
					g.stats.FPS(), g.stats.Ticks(), g.stats.Frames(), g.stats.Faults()), nil
			},
		},
		{
			Name:        "entities",
			Description: "Counts live entities and archetypes, optionally listing entities.",
			Params: []console.Param{
				{Name: "list", Description: "List every entity with its component count.", Kind: console.KindBool},
			},
			Run: func(args console.Args) (string, error) {
				var b strings.Builder
				fmt.Fprintf(&b, "entities %d archetypes %d", ecs.Count(g.World), len(g.World.Archetypes()))
				if args.Bool("list") {
					for _, e := range ecs.Entities(g.World) {
						sig, _ := ecs.SignatureOfEntity(g.World, e)
						fmt.Fprintf(&b, "\n  %s components %d", e, sig.Len())
					}
				}
				return b.String(), nil
			},
		},
		{
			Name:        "spawn",
			Description: "Builds a prefab, optionally placing it.",
			Params: []console.Param{
				{Name: "prefab", Description: "Prefab name.", Kind: console.KindString, Required: true},
				{Name: "x", Description: "World x.", Kind: console.KindFloat},
				{Name: "y", Description: "World y.", Kind: console.KindFloat},
			},
			Run: func(args console.Args) (string, error) {
				e, err := entity.BuildEntity(g.World, g.Library, args.String("prefab"))
				if err != nil {
					return "", err
				}
				if args.Has("x") {
					if err := entity.SetEntityPosition(g.World, e, args.Float("x"), args.Float("y")); err != nil {
						ecs.DestroyEntity(g.World, e)
						return "", err
					}
				}
				return fmt.Sprintf("spawned %s as %s", args.String("prefab"), e), nil
			},
		},
		{
			Name:        "destroy",
			Description: "Marks an entity for destruction at the end of the tick.",
			Params: []console.Param{
				{Name: "entity", Description: "Entity as id or idvgeneration, as printed by entities.", Kind: console.KindString, Required: true},
			},
			Run: func(args console.Args) (string, error) {
				e, ok := findEntity(g.World, args.String("entity"))
				if !ok {
					return "", fmt.Errorf("no live entity %q", args.String("entity"))
				}
				if err := ecs.Add(g.World, e, component.DestroyComponent, component.Destroy{}); err != nil {
					return "", err
				}
				return fmt.Sprintf("destroying %s", e), nil
			},
		},
		{
			Name:        "reload",
			Description: "Drops compiled scripts so they are read again, all of them when no name is given.",
			Params: []console.Param{
				{Name: "script", Description: "Script name.", Kind: console.KindString},
			},
			Run: func(args console.Args) (string, error) {
				name := args.String("script")
				if name != "" {
					if _, err := g.Library.LoadScript(name); err != nil {
						return "", fmt.Errorf("script %q: %w", name, err)
					}
				}
				g.Scripts.Invalidate(name)
				if name == "" {
					return "reloading all scripts", nil
				}
				return "reloading " + name, nil
			},
		},
		{
			Name:        "prefabs",
			Description: "Lists prefabs or scenes.",
			Params: []console.Param{
				{Name: "kind", Description: "What to list.", Kind: console.KindOption, Options: []string{"prefabs", "scenes"}},
			},
			Run: func(args console.Args) (string, error) {
				list := g.Library.Names
				if args.String("kind") == "scenes" {
					list = g.Library.Scenes
				}
				names, err := list()
				if err != nil {
					return "", err
				}
				return strings.Join(names, " "), nil
			},
		},
		{
			Name:        "systems",
			Description: "Lists scheduled systems in run order.",
			Run: func(console.Args) (string, error) {
				return strings.Join(g.Scheduler.Keys(), " "), nil
			},
		},
		{
			Name:        "uptime",
			Description: "Shows simulated time from the tick count.",
			Run: func(console.Args) (string, error) {
				if g.stats == nil {
					return "", fmt.Errorf("no application attached")
				}
				d := time.Duration(float64(g.stats.Ticks()) * g.stats.DeltaTime() * float64(time.Second))
				return d.Round(time.Millisecond).String(), nil
			},
		},
	}
	for _, c := range commands {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// findEntity resolves "7v2" exactly, or "7" to whichever generation of slot
// 7 is alive.
func findEntity(w *ecs.World, s string) (ecs.Entity, bool) {
	for _, e := range ecs.Entities(w) {
		full := e.String()
		id, _, _ := strings.Cut(full, "v")
		if full == s || id == s {
			return e, true
		}
	}
	return 0, false
}
