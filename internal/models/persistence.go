package models

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SaveDir is the root directory for run snapshots and the profile.
var SaveDir = ".saves"

func runsDir() string {
	return filepath.Join(SaveDir, "runs")
}

// Save writes the run snapshot to <SaveDir>/runs/<id>.yaml.
func (s *RunState) Save() error {
	if s.ID == "" {
		return fmt.Errorf("save run: missing id")
	}
	dir := runsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	// Snapshots are replaced atomically.
	path := filepath.Join(dir, s.ID+".yaml")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// LoadRun reads a snapshot written by Save.
func LoadRun(id string) (*RunState, error) {
	data, err := os.ReadFile(filepath.Join(runsDir(), id+".yaml"))
	if err != nil {
		return nil, err
	}
	var state RunState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode run %s: %w", id, err)
	}
	return &state, nil
}

// ListRuns returns the ids of saved runs, newest first.
func ListRuns() ([]string, error) {
	dir := runsDir()
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type run struct {
		id  string
		mod int64
	}
	var runs []run
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".yaml") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		runs = append(runs, run{id: strings.TrimSuffix(name, ".yaml"), mod: info.ModTime().UnixNano()})
	}
	slices.SortFunc(runs, func(a, b run) int {
		switch {
		case a.mod > b.mod:
			return -1
		case a.mod < b.mod:
			return 1
		}
		return strings.Compare(a.id, b.id)
	})

	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.id
	}
	return ids, nil
}
