package stubserver

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Scenario is one scripted reply.
type Scenario struct {
	Match  map[string]float64 `yaml:"match"`
	Body   map[string]any     `yaml:"body"`
	Name   string             `yaml:"name"`
	Raw    string             `yaml:"raw"`
	Status int                `yaml:"status"`
	Delay  time.Duration      `yaml:"delay"`
}

// Scenarios is the scripted behavior of the stub server. The first scenario
// whose match fields all equal the request wins; otherwise Default replies.
type Scenarios struct {
	Default   Scenario   `yaml:"default"`
	Scenarios []Scenario `yaml:"scenarios"`
}

// DefaultScenarios approves everything with a fixed probability.
func DefaultScenarios() Scenarios {
	return Scenarios{
		Default: Scenario{
			Name:   "default",
			Status: http.StatusOK,
			Body: map[string]any{
				"result":      "Approved",
				"probability": 0.72,
			},
		},
	}
}

// LoadScenarios reads a YAML scenario file. An empty path yields DefaultScenarios.
func LoadScenarios(path string) (Scenarios, error) {
	if path == "" {
		return DefaultScenarios(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Scenarios{}, fmt.Errorf("failed to read scenarios: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes YAML scenario data. A file without a default
// scenario keeps the built-in one; a file with one replaces it entirely.
func ParseScenarios(data []byte) (Scenarios, error) {
	var file struct {
		Default   *Scenario  `yaml:"default"`
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Scenarios{}, fmt.Errorf("failed to parse scenarios: %w", err)
	}

	s := Scenarios{
		Default:   DefaultScenarios().Default,
		Scenarios: file.Scenarios,
	}
	if file.Default != nil {
		s.Default = *file.Default
	}

	if err := s.Default.normalize(); err != nil {
		return Scenarios{}, fmt.Errorf("default scenario: %w", err)
	}
	for i := range s.Scenarios {
		if err := s.Scenarios[i].normalize(); err != nil {
			return Scenarios{}, fmt.Errorf("scenario %d (%s): %w", i, s.Scenarios[i].Name, err)
		}
	}
	return s, nil
}

func (s *Scenario) normalize() error {
	if s.Status == 0 {
		s.Status = http.StatusOK
	}
	if s.Status < 100 || s.Status > 599 {
		return fmt.Errorf("invalid status %d", s.Status)
	}
	if s.Delay < 0 {
		return fmt.Errorf("negative delay %s", s.Delay)
	}
	for field := range s.Match {
		if !isKnownField(field) {
			return fmt.Errorf("unknown match field %q", field)
		}
	}
	return nil
}

// Pick returns the scenario for a validated request.
func (s Scenarios) Pick(req map[string]float64) Scenario {
	for _, sc := range s.Scenarios {
		if sc.matches(req) {
			return sc
		}
	}
	return s.Default
}

func (s Scenario) matches(req map[string]float64) bool {
	for field, want := range s.Match {
		got, ok := req[field]
		if !ok || math.Abs(got-want) > 1e-9 {
			return false
		}
	}
	return true
}
