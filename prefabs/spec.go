package prefabs

import (
	"fmt"
	"image/color"

	"github.com/milk9111/alvere/common"
	"gopkg.in/yaml.v3"
)

// EntityBuildSpec is a prefab: a name plus a map of component name to the
// raw yaml of that component's spec.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

// SceneSpec describes the world a scene starts with.
type SceneSpec struct {
	Name    string      `yaml:"name"`
	Gravity Vec2Spec    `yaml:"gravity"`
	Clear   *YAMLColor  `yaml:"clear"`
	Spawn   []SpawnSpec `yaml:"spawn"`
}

// SpawnSpec places Count copies of a prefab, starting at X/Y and stepping by
// Spacing between copies.
type SpawnSpec struct {
	Prefab  string   `yaml:"prefab"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
	Count   int      `yaml:"count"`
	Spacing Vec2Spec `yaml:"spacing"`
}

type Vec2Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

type PositionComponentSpec = Vec2Spec

type VelocityComponentSpec = Vec2Spec

type BodyComponentSpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Mass       float64 `yaml:"mass"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Static     bool    `yaml:"static"`
}

type ShapeComponentSpec struct {
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Color  *YAMLColor `yaml:"color"`
	Layer  int        `yaml:"layer"`
}

type TTLComponentSpec struct {
	Ticks int `yaml:"ticks"`
}

type ScriptComponentSpec struct {
	Name string `yaml:"name"`
}

func LoadSpec[T any](l *Library, filename string) (T, error) {
	var zero T
	data, err := l.Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

func LoadEntityBuildSpec(l *Library, filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](l, filename)
}

func LoadSceneSpec(l *Library, name string) (SceneSpec, error) {
	data, err := l.LoadScene(name)
	if err != nil {
		return SceneSpec{}, fmt.Errorf("prefabs: load scene %s: %w", name, err)
	}
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return SceneSpec{}, fmt.Errorf("prefabs: unmarshal scene %s: %w", name, err)
	}
	return spec, nil
}

// DecodeComponentSpec re-decodes a raw component value into its typed spec.
func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// YAMLColor decodes "#rrggbb" or "#rrggbbaa" scalars.
type YAMLColor struct {
	color.RGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	rgba, err := common.ParseHexColor(value.Value)
	if err != nil {
		return err
	}
	c.RGBA = rgba
	return nil
}

// MarshalYAML writes the #rrggbbaa form.
func (c YAMLColor) MarshalYAML() (any, error) {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A), nil
}

// Or returns the colour, or fallback when c is unset.
func (c *YAMLColor) Or(fallback color.RGBA) color.RGBA {
	if c == nil {
		return fallback
	}
	return c.RGBA
}
