package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"
)

func parseTOML(data []byte) (*Dataset, error) {
	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, &ConfigError{Kind: KindMalformed, Err: err}
	}
	return fromTree(root)
}

func parseYAML(data []byte) (*Dataset, error) {
	var root map[string]any
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ConfigError{Kind: KindMalformed, Err: err}
	}
	if root == nil {
		return nil, &ConfigError{Kind: KindMalformed, Err: errors.New("empty document")}
	}
	return fromTree(root)
}

// JSON datasets are a flat array with unit-suffixed keys.
const (
	jsonName     = "name"
	jsonMass     = "mass [Yg]"
	jsonDistance = "distance_from_sun [e6 km]"
	jsonVelocity = "orbital_velocity [km/s]"
	jsonColor    = "color"
)

func parseJSON(data []byte) (*Dataset, error) {
	var entries []map[string]any
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &ConfigError{Kind: KindMalformed, Err: err}
	}
	if len(entries) == 0 {
		return nil, &ConfigError{Kind: KindMalformed, Err: errors.New("no objects")}
	}

	ds := &Dataset{Defaults: DefaultDefaults()}
	ds.Defaults.Color = DefaultJSONColor
	for i, e := range entries {
		name, err := stringField(e, jsonName)
		if err != nil {
			return nil, &ConfigError{Kind: KindAttribute, Object: fmt.Sprintf("#%d", i), Err: err}
		}
		obj := Object{
			Name:         name,
			Color:        DefaultJSONColor,
			PxRadius:     DefaultPxRadius,
			TrailDensity: ds.Defaults.TrailDensity,
		}
		if obj.Mass, err = massField(e, jsonMass); err != nil {
			return nil, &ConfigError{Kind: KindMass, Object: name, Err: err}
		}
		d, ok, err := numberField(e, jsonDistance)
		if err == nil && !ok {
			err = fmt.Errorf("missing %q", jsonDistance)
		}
		if err != nil {
			return nil, &ConfigError{Kind: KindPosition, Object: name, Err: err}
		}
		v, ok, err := numberField(e, jsonVelocity)
		if err == nil && !ok {
			err = fmt.Errorf("missing %q", jsonVelocity)
		}
		if err != nil {
			return nil, &ConfigError{Kind: KindVelocity, Object: name, Err: err}
		}
		obj.Distance = r3.Vec{Y: d}
		obj.Velocity = r3.Vec{X: v}
		if c, ok, err := colorField(e, jsonColor); err != nil {
			return nil, &ConfigError{Kind: KindAttribute, Object: name, Err: err}
		} else if ok {
			obj.Color = c
		}
		ds.Objects = append(ds.Objects, obj)
	}
	return ds, nil
}

// fromTree builds a dataset from a decoded TOML or YAML document.
func fromTree(root map[string]any) (*Dataset, error) {
	ds := &Dataset{Defaults: DefaultDefaults()}
	if raw, ok := root["config"]; ok {
		tbl, ok := raw.(map[string]any)
		if !ok {
			return nil, &ConfigError{Kind: KindMalformed, Err: errors.New("[config] is not a table")}
		}
		if err := readDefaults(tbl, &ds.Defaults); err != nil {
			return nil, err
		}
	}

	objs, err := tableList(root["object"])
	if err != nil {
		return nil, &ConfigError{Kind: KindMalformed, Err: fmt.Errorf("object: %w", err)}
	}
	if len(objs) == 0 {
		return nil, &ConfigError{Kind: KindMalformed, Err: errors.New("no objects")}
	}
	for i, tbl := range objs {
		obj, err := readObject(tbl, ds.Defaults, fmt.Sprintf("#%d", i))
		if err != nil {
			return nil, err
		}
		ds.Objects = append(ds.Objects, obj)
	}
	return ds, nil
}

func readDefaults(tbl map[string]any, d *Defaults) error {
	attr := func(err error) error { return &ConfigError{Kind: KindAttribute, Object: "[config]", Err: err} }

	if v, ok, err := numberField(tbl, "motion_trail_length"); err != nil {
		return attr(err)
	} else if ok {
		if v < 0 {
			return attr(errors.New("negative motion_trail_length"))
		}
		d.TrailLength = v
	}
	if v, ok, err := numberField(tbl, "motion_trail_density"); err != nil {
		return attr(err)
	} else if ok {
		if v < 0 {
			return attr(errors.New("negative motion_trail_density"))
		}
		d.TrailDensity = v
	}
	if c, ok, err := colorField(tbl, "default_color"); err != nil {
		return attr(err)
	} else if ok {
		d.Color = c
	}
	if v, ok, err := numberField(tbl, "default_px_radius"); err != nil {
		return attr(err)
	} else if ok {
		if v < 0 {
			return &ConfigError{Kind: KindPxRadius, Object: "[config]", Err: fmt.Errorf("default_px_radius %v", v)}
		}
		d.PxRadius = v
	}
	if v, ok, err := numberField(tbl, "view_radius"); err != nil {
		return attr(err)
	} else if ok {
		if v <= 0 {
			return attr(errors.New("view_radius must be positive"))
		}
		d.ViewRadius = v
	}
	return nil
}

func readObject(tbl map[string]any, defs Defaults, label string) (Object, error) {
	name, err := stringField(tbl, "name")
	if err != nil {
		return Object{}, &ConfigError{Kind: KindAttribute, Object: label, Err: err}
	}
	fail := func(k Kind, err error) (Object, error) {
		return Object{}, &ConfigError{Kind: k, Object: name, Err: err}
	}

	obj := Object{
		Name:         name,
		Color:        defs.Color,
		PxRadius:     defs.PxRadius,
		TrailLength:  defs.TrailLength,
		TrailDensity: defs.TrailDensity,
	}
	if obj.Mass, err = massField(tbl, "mass"); err != nil {
		return fail(KindMass, err)
	}
	if b, ok := tbl["fixed"]; ok {
		fixed, isBool := b.(bool)
		if !isBool {
			return fail(KindAttribute, fmt.Errorf("fixed: expected bool, got %T", b))
		}
		obj.Fixed = fixed
	}

	pos, ok, err := vectorField(tbl, "distance", func(d float64) r3.Vec { return r3.Vec{Y: d} })
	if err == nil && !ok {
		err = errors.New("missing distance")
	}
	if err != nil {
		return fail(KindPosition, err)
	}
	obj.Distance = pos

	vel, ok, err := vectorField(tbl, "orbital_velocity", func(v float64) r3.Vec { return r3.Vec{X: v} })
	if err == nil && !ok && !obj.Fixed {
		err = errors.New("missing orbital_velocity")
	}
	if err != nil {
		return fail(KindVelocity, err)
	}
	obj.Velocity = vel

	if c, ok, err := colorField(tbl, "color"); err != nil {
		return fail(KindAttribute, err)
	} else if ok {
		obj.Color = c
	}
	if v, ok, err := numberField(tbl, "px_radius"); err != nil {
		return fail(KindAttribute, err)
	} else if ok {
		if v < 0 {
			return fail(KindPxRadius, fmt.Errorf("px_radius %v", v))
		}
		obj.PxRadius = v
	}
	if v, ok, err := numberField(tbl, "motion_trail_length"); err != nil {
		return fail(KindAttribute, err)
	} else if ok {
		if v < 0 {
			return fail(KindAttribute, errors.New("negative motion_trail_length"))
		}
		obj.TrailLength = v
	}
	if v, ok, err := numberField(tbl, "motion_trail_density"); err != nil {
		return fail(KindAttribute, err)
	} else if ok {
		if v < 0 {
			return fail(KindAttribute, errors.New("negative motion_trail_density"))
		}
		obj.TrailDensity = v
	}

	sats, err := tableList(tbl["satellites"])
	if err != nil {
		return fail(KindMalformed, fmt.Errorf("satellites: %w", err))
	}
	for i, st := range sats {
		sat, err := readObject(st, defs, fmt.Sprintf("%s/#%d", name, i))
		if err != nil {
			return Object{}, err
		}
		obj.Satellites = append(obj.Satellites, sat)
	}
	return obj, nil
}

// tableList accepts the array-of-tables shapes produced by the TOML and
// YAML decoders. A nil value is an empty list.
func tableList(raw any) ([]map[string]any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			tbl, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("entry %d: expected table, got %T", i, item)
			}
			out = append(out, tbl)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected array of tables, got %T", raw)
	}
}

func toFloat(raw any) (float64, bool) {
	switch n := raw.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}

func numberField(tbl map[string]any, key string) (float64, bool, error) {
	raw, ok := tbl[key]
	if !ok {
		return 0, false, nil
	}
	f, ok := toFloat(raw)
	if !ok {
		return 0, true, fmt.Errorf("%s: expected number, got %T", key, raw)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true, fmt.Errorf("%s: not finite", key)
	}
	return f, true, nil
}

func stringField(tbl map[string]any, key string) (string, error) {
	raw, ok := tbl[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("%s: expected non-empty string, got %v", key, raw)
	}
	return s, nil
}

func massField(tbl map[string]any, key string) (float64, error) {
	m, ok, err := numberField(tbl, key)
	switch {
	case err != nil:
		return 0, err
	case !ok:
		return 0, fmt.Errorf("missing %s", key)
	case m < 0:
		return 0, fmt.Errorf("%s: negative", key)
	}
	return m, nil
}

// vectorField reads a number, a one element array or a three element array.
// Scalars are expanded by axis.
func vectorField(tbl map[string]any, key string, axis func(float64) r3.Vec) (r3.Vec, bool, error) {
	raw, ok := tbl[key]
	if !ok {
		return r3.Vec{}, false, nil
	}
	if f, ok := toFloat(raw); ok {
		return axis(f), true, finiteVec(key, axis(f))
	}

	var items []any
	switch v := raw.(type) {
	case []any:
		items = v
	case []float64:
		for _, f := range v {
			items = append(items, f)
		}
	case []int64:
		for _, n := range v {
			items = append(items, n)
		}
	default:
		return r3.Vec{}, true, fmt.Errorf("%s: expected number or array, got %T", key, raw)
	}

	xs := make([]float64, len(items))
	for i, it := range items {
		f, ok := toFloat(it)
		if !ok {
			return r3.Vec{}, true, fmt.Errorf("%s[%d]: expected number, got %T", key, i, it)
		}
		xs[i] = f
	}
	var vec r3.Vec
	switch len(xs) {
	case 1:
		vec = axis(xs[0])
	case 3:
		vec = r3.Vec{X: xs[0], Y: xs[1], Z: xs[2]}
	default:
		return r3.Vec{}, true, fmt.Errorf("%s: expected 1 or 3 components, got %d", key, len(xs))
	}
	return vec, true, finiteVec(key, vec)
}

func finiteVec(key string, v r3.Vec) error {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%s: not finite", key)
		}
	}
	return nil
}

// colorField accepts a 0xRRGGBB integer or a "#rrggbb" string.
func colorField(tbl map[string]any, key string) (uint32, bool, error) {
	raw, ok := tbl[key]
	if !ok {
		return 0, false, nil
	}
	if s, isString := raw.(string); isString {
		c, err := colorful.Hex(normalizeHex(s))
		if err != nil {
			return 0, true, fmt.Errorf("%s: %w", key, err)
		}
		return PackRGB(c), true, nil
	}
	f, ok := toFloat(raw)
	if !ok || f < 0 || f > 0xFFFFFF || f != math.Trunc(f) {
		return 0, true, fmt.Errorf("%s: expected 0xRRGGBB, got %v", key, raw)
	}
	return uint32(f), true, nil
}

func normalizeHex(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	}
	return s
}

// PackRGB converts a color to 0xRRGGBB.
func PackRGB(c colorful.Color) uint32 {
	r, g, b := c.Clamped().RGB255()
	return uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// UnpackRGB is the inverse of PackRGB.
func UnpackRGB(rgb uint32) colorful.Color {
	return colorful.Color{
		R: float64(rgb>>16&0xFF) / 255,
		G: float64(rgb>>8&0xFF) / 255,
		B: float64(rgb&0xFF) / 255,
	}
}
