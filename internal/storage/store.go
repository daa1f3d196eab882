package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/servosim/internal/sim"
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
	ID        string             `json:"id"`
	Mode      string             `json:"mode"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Duration  float64            `json:"duration"`
	Joint     string             `json:"joint"`
	Commander string             `json:"commander"`
	Metrics   map[string]float64 `json:"metrics"`
}

var tickHeader = []string{"time", "position", "velocity", "effort", "reference", "applied_force"}

func (s *Store) Save(mode, jointName, commander string, cfg sim.Config, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", mode, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Mode:      mode,
		Timestamp: time.Now(),
		Seed:      cfg.Seed,
		Dt:        cfg.Dt,
		Duration:  cfg.Duration,
		Joint:     jointName,
		Commander: commander,
		Metrics:   result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "ticks.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(tickHeader); err != nil {
		return "", err
	}

	for _, tk := range result.Ticks {
		row := []string{
			strconv.FormatFloat(tk.Time, 'g', -1, 64),
			strconv.FormatFloat(tk.Position, 'g', -1, 64),
			strconv.FormatFloat(tk.Velocity, 'g', -1, 64),
			strconv.FormatFloat(tk.Effort, 'g', -1, 64),
			strconv.FormatFloat(tk.Reference, 'g', -1, 64),
			strconv.FormatFloat(tk.Applied, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})

	return runs, nil
}

func (s *Store) LoadTicks(runID string) ([]sim.Tick, error) {
	csvPath := filepath.Join(s.baseDir, runID, "ticks.csv")
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 1 {
		return nil, fmt.Errorf("empty tick file for run %s", runID)
	}

	ticks := make([]sim.Tick, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(tickHeader) {
			return nil, fmt.Errorf("malformed row in run %s: %v", runID, rec)
		}
		vals := make([]float64, len(rec))
		for i, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		ticks = append(ticks, sim.Tick{
			Time:      vals[0],
			Position:  vals[1],
			Velocity:  vals[2],
			Effort:    vals[3],
			Reference: vals[4],
			Applied:   vals[5],
		})
	}

	return ticks, nil
}
