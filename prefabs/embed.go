package prefabs

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

//go:embed *.yaml scenes/*.yaml scripts/*.tengo
var PrefabsFS embed.FS

// Library resolves prefab, scene and script names. Files under Dir on disk
// shadow the embedded defaults so edits can be picked up without a rebuild.
type Library struct {
	Dir string
	FS  fs.FS
}

// NewLibrary returns a library that prefers dir and falls back to the
// embedded prefabs. An empty dir disables disk lookups.
func NewLibrary(dir string) *Library {
	return &Library{Dir: dir, FS: PrefabsFS}
}

func (l *Library) Load(name string) ([]byte, error) {
	return l.read(cleanPrefabPath(name))
}

func (l *Library) LoadScene(name string) ([]byte, error) {
	return l.read(cleanScenePath(name))
}

func (l *Library) LoadScript(name string) ([]byte, error) {
	return l.read(cleanScriptPath(name))
}

func (l *Library) ModTime(name string) (time.Time, bool) {
	if l.Dir == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(l.diskPath(cleanPrefabPath(name)))
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Names lists the prefabs on disk and embedded, without extension.
func (l *Library) Names() ([]string, error) {
	return l.list(".", ".yaml")
}

// Scenes lists the scene names on disk and embedded.
func (l *Library) Scenes() ([]string, error) {
	return l.list("scenes", ".yaml")
}

func (l *Library) list(dir, ext string) ([]string, error) {
	seen := map[string]struct{}{}
	add := func(name string) {
		if strings.EqualFold(path.Ext(name), ext) {
			seen[strings.TrimSuffix(name, path.Ext(name))] = struct{}{}
		}
	}

	if l.FS != nil {
		entries, err := fs.ReadDir(l.FS, dir)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}
	if l.Dir != "" {
		entries, err := os.ReadDir(filepath.Join(l.Dir, filepath.FromSlash(dir)))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				add(e.Name())
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (l *Library) read(clean string) ([]byte, error) {
	if l.Dir != "" {
		data, err := os.ReadFile(l.diskPath(clean))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if l.FS == nil {
		return nil, fs.ErrNotExist
	}
	return fs.ReadFile(l.FS, clean)
}

func (l *Library) diskPath(clean string) string {
	return filepath.Join(l.Dir, filepath.FromSlash(clean))
}

func cleanPrefabPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s, _ = strings.CutPrefix(s, "prefabs/")
	if filepath.Ext(s) == "" {
		s += ".yaml"
	}
	return s
}

func cleanScenePath(path string) string {
	return cleanUnder("scenes", ".yaml", path)
}

func cleanScriptPath(path string) string {
	return cleanUnder("scripts", ".tengo", path)
}

func cleanUnder(dir, ext, path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	s, _ = strings.CutPrefix(s, "prefabs/")
	s, _ = strings.CutPrefix(s, dir+"/")
	if filepath.Ext(s) == "" {
		s += ext
	}
	return dir + "/" + s
}
