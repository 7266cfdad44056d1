package harness

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wongpratan/abquery/internal/compiler"
	"github.com/wongpratan/abquery/internal/condition"
	"github.com/wongpratan/abquery/internal/dialect"
)

// Scenario is one query test case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// Catalog is a directory of CUE catalog files, relative to the
	// scenario file. Empty selects the built-in people catalog.
	Catalog string `yaml:"catalog,omitempty"`

	// Dialect defaults to sqlite.
	Dialect string `yaml:"dialect,omitempty"`

	Object string `yaml:"object"`

	// Fixture names a built-in data set loaded before Seed. See Fixtures.
	Fixture string `yaml:"fixture,omitempty"`

	// Seed statements run in order against the scenario database.
	Seed []string `yaml:"seed,omitempty"`

	// Request is the request document, either as a YAML mapping or as a
	// JSON string.
	Request yaml.Node `yaml:"request"`

	User condition.UserContext `yaml:"user,omitempty"`

	Options CompileOptions `yaml:"options,omitempty"`

	Expect Expect `yaml:"expect"`
}

// CompileOptions mirror the compiler options a scenario may change.
type CompileOptions struct {
	EmptyMode      string `yaml:"empty_mode,omitempty"`
	SkipZeroOffset *bool  `yaml:"skip_zero_offset,omitempty"`
}

// Expect lists the expected outcome. Unset fields are not checked.
type Expect struct {
	// SQL must match exactly.
	SQL string `yaml:"sql,omitempty"`

	// Args are compared by their JSON encoding, so 30 matches int64(30).
	Args []any `yaml:"args,omitempty"`

	// RowIDs are compared in order.
	RowIDs []int64 `yaml:"row_ids,omitempty"`

	// Dropped entries are "path: reason" strings, compared in order.
	Dropped []string `yaml:"dropped,omitempty"`

	// Error, when set, must be a substring of the request error. A
	// scenario without Error must not fail.
	Error string `yaml:"error,omitempty"`
}

// RequestJSON returns the request as JSON.
func (s *Scenario) RequestJSON() ([]byte, error) {
	switch s.Request.Kind {
	case 0:
		return []byte("{}"), nil
	case yaml.ScalarNode:
		return []byte(s.Request.Value), nil
	}

	var v any
	if err := s.Request.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return json.Marshal(v)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// The catalog path is resolved relative to the file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields so "expects:" does not silently check nothing.
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml file in dir, sorted by file name.
// When filter is non-empty only scenarios whose name matches the glob are
// returned.
func LoadDir(dir, filter string) ([]*Scenario, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)

	var out []*Scenario
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, s.Name); !ok {
				continue
			}
		}
		out = append(out, s)
	}
	return out, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Object == "" {
		return fmt.Errorf("object is required")
	}

	if s.Dialect != "" {
		if _, err := dialect.Lookup(s.Dialect); err != nil {
			return err
		}
	}
	if s.executes() && s.dialectName() != "sqlite" {
		return fmt.Errorf("fixture, seed and row_ids need the sqlite dialect, got %s", s.Dialect)
	}
	if s.Fixture != "" {
		if _, ok := Fixtures[s.Fixture]; !ok {
			return fmt.Errorf("unknown fixture %q", s.Fixture)
		}
	}

	if s.Catalog != "" {
		info, err := os.Stat(s.Catalog)
		if err != nil {
			return fmt.Errorf("catalog not found: %s", s.Catalog)
		}
		if !info.IsDir() {
			return fmt.Errorf("catalog is not a directory: %s", s.Catalog)
		}
	}

	if _, ok := compiler.ParseEmptyMode(s.Options.EmptyMode); !ok {
		return fmt.Errorf("options.empty_mode: invalid value %q", s.Options.EmptyMode)
	}

	raw, err := s.RequestJSON()
	if err != nil {
		return err
	}
	if !json.Valid(raw) {
		return fmt.Errorf("request is not valid JSON")
	}

	e := s.Expect
	if e.SQL == "" && e.Args == nil && e.RowIDs == nil && e.Dropped == nil && e.Error == "" {
		return fmt.Errorf("expect must set at least one of sql, args, row_ids, dropped, error")
	}
	return nil
}

// executes reports whether the scenario needs a database.
func (s *Scenario) executes() bool {
	return s.Fixture != "" || len(s.Seed) > 0 || s.Expect.RowIDs != nil
}

func (s *Scenario) dialectName() string {
	if s.Dialect == "" {
		return "sqlite"
	}
	d, err := dialect.Lookup(s.Dialect)
	if err != nil {
		return s.Dialect
	}
	return d.Name()
}
