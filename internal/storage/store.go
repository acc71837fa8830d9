// Package storage archives finished runs: their metadata, the final body
// states and the energy drift series.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/san-kum/gravity/internal/report"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Dataset       string             `json:"dataset"`
	Timestamp     time.Time          `json:"timestamp"`
	DaysPerSecond float64            `json:"days_per_second"`
	Timestep      float64            `json:"timestep"`
	Bodies        int                `json:"bodies"`
	Days          int                `json:"days"`
	Steps         int                `json:"steps"`
	Elapsed       float64            `json:"elapsed"`
	WallSeconds   float64            `json:"wall_seconds"`
	Interrupted   bool               `json:"interrupted"`
	Metrics       map[string]float64 `json:"metrics"`
}

// DriftPoint is one energy drift observation, taken at the end of a day.
type DriftPoint struct {
	Day   int     `csv:"day"`
	Drift float64 `csv:"energy_drift"`
}

const (
	metadataFile = "metadata.json"
	finalFile    = "final.csv"
	driftFile    = "drift.csv"
)

// Save writes a run under a new directory and returns its id. The id is
// derived from the dataset name and the timestamp.
func (s *Store) Save(meta RunMetadata, final []report.Row, drift []DriftPoint) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", runName(meta.Dataset), meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	if err := writeCSV(filepath.Join(runDir, finalFile), final); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, driftFile), drift); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeCSV[T any](path string, records []T) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if len(records) == 0 {
		return nil
	}
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func runName(dataset string) string {
	name := strings.TrimSuffix(filepath.Base(dataset), filepath.Ext(dataset))
	if name == "" || name == "." {
		return "run"
	}
	return strings.ReplaceAll(name, " ", "_")
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadDrift reads the drift series of a run. A run without one yields an
// empty series.
func (s *Store) LoadDrift(runID string) ([]DriftPoint, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, driftFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var points []DriftPoint
	if err := gocsv.UnmarshalFile(f, &points); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []DriftPoint{}, nil
		}
		return nil, err
	}
	return points, nil
}

// LoadFinal reads the final body states of a run.
func (s *Store) LoadFinal(runID string) ([]report.Row, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, finalFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []report.Row
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return []report.Row{}, nil
		}
		return nil, err
	}
	return rows, nil
}
