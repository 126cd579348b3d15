// Package bench runs benchmark suites of user utterances through the
// orchestrator and records per-case logs and results.
package bench

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Case is one benchmark scenario.
type Case struct {
	ID        string `yaml:"id" json:"id"`
	Category  string `yaml:"category" json:"category"`
	UserInput string `yaml:"user_input" json:"user_input"`
}

// Suite is a set of benchmark cases loaded from a file.
type Suite struct {
	Name  string `yaml:"name" json:"name"`
	Cases []Case `yaml:"test_cases" json:"test_cases"`
}

// LoadSuite reads a suite from a YAML or JSON file, chosen by
// extension.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read suite: %w", err)
	}

	var suite Suite
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("parse suite %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("parse suite %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported suite format: %s", filepath.Ext(path))
	}

	if suite.Name == "" {
		suite.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := suite.validate(); err != nil {
		return nil, err
	}
	return &suite, nil
}

func (s *Suite) validate() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("suite %s has no test cases", s.Name)
	}
	seen := make(map[string]bool, len(s.Cases))
	for i, c := range s.Cases {
		if c.ID == "" {
			return fmt.Errorf("case %d has no id", i)
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate case id %q", c.ID)
		}
		seen[c.ID] = true
		if strings.TrimSpace(c.UserInput) == "" {
			return fmt.Errorf("case %s has empty user_input", c.ID)
		}
	}
	return nil
}

// Filter returns the cases matching category, or all cases when
// category is "all" or empty.
func (s *Suite) Filter(category string) []Case {
	if category == "" || category == "all" {
		out := make([]Case, len(s.Cases))
		copy(out, s.Cases)
		return out
	}
	var out []Case
	for _, c := range s.Cases {
		if c.Category == category {
			out = append(out, c)
		}
	}
	return out
}

// Categories returns the distinct categories in suite order.
func (s *Suite) Categories() []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range s.Cases {
		if c.Category != "" && !seen[c.Category] {
			seen[c.Category] = true
			out = append(out, c.Category)
		}
	}
	return out
}
