package config

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed presets/*.toml
var presetFS embed.FS

// GetPreset returns the built-in dataset with the given name, or nil when
// there is none.
func GetPreset(name string) (*Dataset, error) {
	return loadPreset(presetFS, name)
}

func loadPreset(fsys fs.FS, name string) (*Dataset, error) {
	data, err := fs.ReadFile(fsys, path.Join("presets", name+".toml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	ds, err := parseTOML(data)
	if err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	return ds, nil
}

func ListPresets() []string {
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".toml"))
	}
	sort.Strings(names)
	return names
}
