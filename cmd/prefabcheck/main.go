// Command prefabcheck builds every prefab and spawns every scene into a
// throwaway world, reporting the ones that fail.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/milk9111/alvere/ecs"
	"github.com/milk9111/alvere/ecs/entity"
	"github.com/milk9111/alvere/prefabs"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "", "prefab directory on disk; embedded prefabs are always checked")
	verbose := flag.Bool("v", false, "log every prefab, not only failures")
	flag.Parse()

	log, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	failures, err := check(prefabs.NewLibrary(*dir), log, *verbose)
	if err != nil {
		log.Fatal("list prefabs", zap.Error(err))
	}
	if failures > 0 {
		log.Error("prefab check failed", zap.Int("failures", failures))
		os.Exit(1)
	}
}

func check(lib *prefabs.Library, log *zap.Logger, verbose bool) (int, error) {
	names, err := lib.Names()
	if err != nil {
		return 0, err
	}
	scenes, err := lib.Scenes()
	if err != nil {
		return 0, err
	}

	failures := 0
	for _, name := range names {
		w := ecs.NewWorld()
		e, err := entity.BuildEntity(w, lib, name)
		if err != nil {
			failures++
			log.Error("prefab", zap.String("name", name), zap.Error(err))
			continue
		}
		if verbose {
			sig, _ := ecs.SignatureOfEntity(w, e)
			log.Info("prefab", zap.String("name", name), zap.Int("components", sig.Len()))
		}
	}

	for _, name := range scenes {
		w := ecs.NewWorld()
		_, spawned, err := entity.SpawnScene(w, lib, name)
		if err != nil {
			failures++
			log.Error("scene", zap.String("name", name), zap.Error(err))
			continue
		}
		if verbose {
			log.Info("scene",
				zap.String("name", name),
				zap.Int("entities", len(spawned)),
				zap.Int("archetypes", len(w.Archetypes())),
			)
		}
	}
	return failures, nil
}
