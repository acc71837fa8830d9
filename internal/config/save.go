package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

type fileDataset struct {
	Config fileDefaults `toml:"config" yaml:"config"`
	Object []fileObject `toml:"object" yaml:"object"`
}

type fileDefaults struct {
	TrailLength  float64 `toml:"motion_trail_length" yaml:"motion_trail_length"`
	TrailDensity float64 `toml:"motion_trail_density" yaml:"motion_trail_density"`
	Color        uint32  `toml:"default_color" yaml:"default_color"`
	PxRadius     float64 `toml:"default_px_radius" yaml:"default_px_radius"`
	ViewRadius   float64 `toml:"view_radius,omitempty" yaml:"view_radius,omitempty"`
}

type fileObject struct {
	Name         string       `toml:"name" yaml:"name"`
	Mass         float64      `toml:"mass" yaml:"mass"`
	Distance     [3]float64   `toml:"distance" yaml:"distance,flow"`
	Velocity     *[3]float64  `toml:"orbital_velocity,omitempty" yaml:"orbital_velocity,flow,omitempty"`
	Fixed        bool         `toml:"fixed,omitempty" yaml:"fixed,omitempty"`
	Color        uint32       `toml:"color" yaml:"color"`
	PxRadius     float64      `toml:"px_radius" yaml:"px_radius"`
	TrailLength  float64      `toml:"motion_trail_length" yaml:"motion_trail_length"`
	TrailDensity float64      `toml:"motion_trail_density" yaml:"motion_trail_density"`
	Satellites   []fileObject `toml:"satellites,omitempty" yaml:"satellites,omitempty"`
}

// Save writes the dataset as TOML or YAML depending on the extension.
func Save(path string, ds *Dataset) error {
	doc := fileDataset{
		Config: fileDefaults{
			TrailLength:  ds.Defaults.TrailLength,
			TrailDensity: ds.Defaults.TrailDensity,
			Color:        ds.Defaults.Color,
			PxRadius:     ds.Defaults.PxRadius,
			ViewRadius:   ds.Defaults.ViewRadius,
		},
		Object: toFileObjects(ds.Objects),
	}

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = buf.Bytes()
	case ".yaml", ".yml":
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		data = out
	default:
		return &ConfigError{Kind: KindExtension, Path: path, Err: fmt.Errorf("cannot save as %s", quoteExt(ext))}
	}
	return os.WriteFile(path, data, 0644)
}

func toFileObjects(objs []Object) []fileObject {
	if len(objs) == 0 {
		return nil
	}
	out := make([]fileObject, 0, len(objs))
	for _, o := range objs {
		fo := fileObject{
			Name:         o.Name,
			Mass:         o.Mass,
			Distance:     vecArray(o.Distance),
			Fixed:        o.Fixed,
			Color:        o.Color,
			PxRadius:     o.PxRadius,
			TrailLength:  o.TrailLength,
			TrailDensity: o.TrailDensity,
			Satellites:   toFileObjects(o.Satellites),
		}
		if !o.Fixed {
			v := vecArray(o.Velocity)
			fo.Velocity = &v
		}
		out = append(out, fo)
	}
	return out
}

func vecArray(v r3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// FromBodies builds a flat dataset from a world's bodies, in absolute
// coordinates. Trail capacities are converted back to days with density.
func FromBodies(defs Defaults, density float64, bodies []world.Body) *Dataset {
	ds := &Dataset{Defaults: defs, Objects: make([]Object, 0, len(bodies))}
	ds.Defaults.TrailDensity = density
	for _, b := range bodies {
		var days float64
		if density > 0 {
			days = float64(b.TrailLen) / density
		}
		ds.Objects = append(ds.Objects, Object{
			Name:         b.Name,
			Mass:         b.Mass,
			Distance:     b.Position,
			Velocity:     b.Velocity,
			Fixed:        !b.Movable,
			Color:        b.Color,
			PxRadius:     b.PxRadius,
			TrailLength:  days,
			TrailDensity: density,
		})
	}
	return ds
}
