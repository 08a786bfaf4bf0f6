package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadSuite loads every level directory under suiteDir. Level
// directories are named "level-N"; each contains JSON case files
// holding an array of TestCase objects.
func LoadSuite(suiteDir string) (*Suite, error) {
	entries, err := os.ReadDir(suiteDir)
	if err != nil {
		return nil, fmt.Errorf("read suite directory: %w", err)
	}

	suite := &Suite{}
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), "level-") {
			continue
		}

		level, err := LoadLevel(filepath.Join(suiteDir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load level %s: %w", entry.Name(), err)
		}

		suite.Levels = append(suite.Levels, level)
		for _, group := range level.Groups {
			suite.Total += len(group.Cases)
		}
	}

	sort.Slice(suite.Levels, func(i, j int) bool {
		return suite.Levels[i].Name < suite.Levels[j].Name
	})

	if suite.Total == 0 {
		return nil, fmt.Errorf("no conformance cases found under %s", suiteDir)
	}
	return suite, nil
}

// LoadLevel loads all case files of one level directory.
func LoadLevel(levelPath string) (*Level, error) {
	entries, err := os.ReadDir(levelPath)
	if err != nil {
		return nil, fmt.Errorf("read level directory: %w", err)
	}

	level := &Level{Name: filepath.Base(levelPath)}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		group, err := LoadGroup(filepath.Join(levelPath, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("load group %s: %w", entry.Name(), err)
		}
		level.Groups = append(level.Groups, group)
	}

	sort.Slice(level.Groups, func(i, j int) bool {
		return level.Groups[i].Name < level.Groups[j].Name
	})
	return level, nil
}

// LoadGroup loads a single case file.
func LoadGroup(path string) (*TestGroup, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cases []*TestCase
	if err := json.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".json")
	for i, c := range cases {
		if c.Name == "" {
			c.Name = fmt.Sprintf("%s-%d", name, i)
		}
		if c.Expression == "" {
			return nil, fmt.Errorf("%s: case %q has no expression", path, c.Name)
		}
	}

	return &TestGroup{Name: name, Path: path, Cases: cases}, nil
}
