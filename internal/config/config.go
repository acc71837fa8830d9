// Package config loads body datasets from TOML, YAML or JSON files and
// writes final-state checkpoints back out.
package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/san-kum/gravity/internal/world"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultTrailLength  = 0
	DefaultTrailDensity = world.DefaultTrailDensity
	DefaultColor        = 0xFFFFFF
	DefaultPxRadius     = 5.0

	// JSON datasets carry no defaults section.
	DefaultJSONColor = 0xFFFF00
)

// Defaults is the [config] section of a dataset.
type Defaults struct {
	// TrailLength is in simulated days.
	TrailLength  float64
	TrailDensity float64
	Color        uint32
	PxRadius     float64
	// ViewRadius is an optional initial view radius in Gm. Zero leaves the
	// command line value in effect.
	ViewRadius float64
}

// Object is one body. Distance and Velocity are relative to the parent for
// satellites and absolute for top level objects.
type Object struct {
	Name         string
	Mass         float64
	Distance     r3.Vec
	Velocity     r3.Vec
	Fixed        bool
	Color        uint32
	PxRadius     float64
	TrailLength  float64
	// TrailDensity sizes the trail only. Every trail is sampled at the
	// dataset's default density.
	TrailDensity float64
	Satellites   []Object
}

type Dataset struct {
	Defaults Defaults
	Objects  []Object
}

func DefaultDefaults() Defaults {
	return Defaults{
		TrailLength:  DefaultTrailLength,
		TrailDensity: DefaultTrailDensity,
		Color:        DefaultColor,
		PxRadius:     DefaultPxRadius,
	}
}

// Load reads a dataset, picking the format from the file extension.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Kind: KindMissingFile, Path: path, Err: err}
		}
		return nil, &ConfigError{Kind: KindOpen, Path: path, Err: err}
	}

	var ds *Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		ds, err = parseTOML(data)
	case ".yaml", ".yml":
		ds, err = parseYAML(data)
	case ".json":
		ds, err = parseJSON(data)
	default:
		return nil, &ConfigError{Kind: KindExtension, Path: path, Err: errors.New("expected .toml, .yaml, .yml or .json, got " + quoteExt(ext))}
	}
	if err != nil {
		var ce *ConfigError
		if errors.As(err, &ce) {
			ce.Path = path
			return nil, ce
		}
		return nil, &ConfigError{Kind: KindMalformed, Path: path, Err: err}
	}
	return ds, nil
}

func quoteExt(ext string) string {
	if ext == "" {
		return "no extension"
	}
	return `"` + ext + `"`
}

// Len is the number of bodies, satellites included.
func (d *Dataset) Len() int {
	var count func([]Object) int
	count = func(objs []Object) int {
		n := len(objs)
		for _, o := range objs {
			n += count(o.Satellites)
		}
		return n
	}
	return count(d.Objects)
}

// BodySpecs flattens the hierarchy into absolute body descriptions, parents
// before their satellites.
func (d *Dataset) BodySpecs() []world.BodySpec {
	specs := make([]world.BodySpec, 0, d.Len())
	var walk func(objs []Object, pos, vel r3.Vec)
	walk = func(objs []Object, pos, vel r3.Vec) {
		for _, o := range objs {
			p := r3.Add(pos, o.Distance)
			v := r3.Add(vel, o.Velocity)
			n := trailLen(o.TrailLength, o.TrailDensity)
			if o.Fixed {
				v, n = r3.Vec{}, 0
			}
			specs = append(specs, world.BodySpec{
				Name:     o.Name,
				Mass:     o.Mass,
				Position: p,
				Velocity: v,
				Movable:  !o.Fixed,
				Color:    o.Color,
				PxRadius: o.PxRadius,
				TrailLen: n,
			})
			walk(o.Satellites, p, v)
		}
	}
	walk(d.Objects, r3.Vec{}, r3.Vec{})
	return specs
}

func trailLen(days, density float64) int {
	if days <= 0 || density <= 0 {
		return 0
	}
	return int(math.Round(days * density))
}
