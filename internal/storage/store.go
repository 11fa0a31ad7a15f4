package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/trussim/internal/solver"
)

// ErrRunNotFound indicates a run id with no stored metadata.
var ErrRunNotFound = errors.New("storage: run not found")

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
	Name      string             `json:"name"`
	Source    string             `json:"source"`
	Timestamp time.Time          `json:"timestamp"`
	Nodes     int                `json:"nodes"`
	Members   int                `json:"members"`
	FreeDOFs  int                `json:"free_dofs"`
	Tolerance float64            `json:"tolerance"`
	Condition float64            `json:"condition"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Save writes metadata.json, result.json and one csv per result vector.
func (s *Store) Save(source string, tol float64, result *solver.Result) (string, error) {
	name := result.Name
	if name == "" {
		name = "truss"
	}
	now := time.Now()
	if err := s.Init(); err != nil {
		return "", err
	}
	runID := fmt.Sprintf("%s_%d", name, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)
	for i := 1; ; i++ {
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return "", err
		}
		runID = fmt.Sprintf("%s_%d_%d", name, now.UnixNano(), i)
		runDir = filepath.Join(s.baseDir, runID)
	}

	meta := RunMetadata{
		ID:        runID,
		Name:      name,
		Source:    source,
		Timestamp: now,
		Nodes:     len(result.Nodes),
		Members:   len(result.Members),
		FreeDOFs:  result.FreeDOFs,
		Tolerance: tol,
		Condition: result.Condition,
		Metrics:   result.Metrics,
	}
	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, "result.json"), result); err != nil {
		return "", err
	}

	disp := [][]string{{"node", "ux", "uy"}}
	for i := 0; i+1 < len(result.Displacements); i += 2 {
		disp = append(disp, []string{strconv.Itoa(i / 2), ff(result.Displacements[i]), ff(result.Displacements[i+1])})
	}
	if err := writeCSV(filepath.Join(runDir, "displacements.csv"), disp); err != nil {
		return "", err
	}

	forces := [][]string{{"member", "node1", "node2", "force", "stress"}}
	for i, m := range result.Members {
		forces = append(forces, []string{
			strconv.Itoa(m.ID), strconv.Itoa(m.Node1), strconv.Itoa(m.Node2),
			ff(result.Forces[i]), ff(result.Stresses[i]),
		})
	}
	if err := writeCSV(filepath.Join(runDir, "forces.csv"), forces); err != nil {
		return "", err
	}

	reactions := [][]string{{"dof", "node", "axis", "reaction"}}
	for k, dof := range result.ReactionDOFs {
		axis := "x"
		if dof%2 == 1 {
			axis = "y"
		}
		reactions = append(reactions, []string{strconv.Itoa(dof), strconv.Itoa(dof / 2), axis, ff(result.Reactions[k])})
	}
	if err := writeCSV(filepath.Join(runDir, "reactions.csv"), reactions); err != nil {
		return "", err
	}

	return runID, nil
}

// List returns stored runs, oldest first.
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
	var meta RunMetadata
	if err := readJSON(filepath.Join(s.baseDir, runID, "metadata.json"), &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadResult reads back the full solver result of a run.
func (s *Store) LoadResult(runID string) (*solver.Result, error) {
	var res solver.Result
	if err := readJSON(filepath.Join(s.baseDir, runID, "result.json"), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// LoadForces reads member forces back from forces.csv.
func (s *Store) LoadForces(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "forces.csv"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	forces := make([]float64, 0, len(records))
	for i := 1; i < len(records); i++ {
		if len(records[i]) < 4 {
			continue
		}
		v, err := strconv.ParseFloat(records[i][3], 64)
		if err != nil {
			return nil, fmt.Errorf("%s forces.csv row %d: %w", runID, i, err)
		}
		forces = append(forces, v)
	}
	return forces, nil
}

func ff(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", filepath.Base(filepath.Dir(path)), ErrRunNotFound)
		}
		return err
	}
	return json.Unmarshal(data, v)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	return f.Close()
}
