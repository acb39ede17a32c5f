// Package scenario describes scripted frame sequences and runs them against a node
package scenario

import (
	"errors"
	"fmt"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stella/learning-switch/pkg/address"
	"github.com/stella/learning-switch/pkg/node"
)

// Scenario is an ordered list of steps run against a single switch
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Ports and AgingTimeout override the node configuration when set
	Ports        int  `yaml:"ports,omitempty"`
	AgingTimeout *int `yaml:"aging_timeout,omitempty"`

	Steps []Step `yaml:"steps"`
}

// Step is one scenario action. Exactly one action field may be set;
// Note may accompany an action or stand alone.
type Step struct {
	Note    string   `yaml:"note,omitempty"`
	Frame   *Frame   `yaml:"frame,omitempty"`
	Advance Duration `yaml:"advance,omitempty"`
	Cleanup bool     `yaml:"cleanup,omitempty"`
	Clear   bool     `yaml:"clear,omitempty"`
	Dump    bool     `yaml:"dump,omitempty"`
	Stats   bool     `yaml:"stats,omitempty"`
}

// Frame is a frame arriving on a switch port
type Frame struct {
	Src  address.MAC `yaml:"src"`
	Dst  address.MAC `yaml:"dst"`
	Port int         `yaml:"port"`
}

// maxSeconds bounds a bare number of seconds so it fits in a time.Duration
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// Duration is a time.Duration written as a Go duration string ("6s") or a
// bare number of seconds, fractions allowed ("1.5")
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", value.Line)
	}

	var seconds float64
	if err := value.Decode(&seconds); err == nil {
		if math.IsNaN(seconds) || math.Abs(seconds) >= maxSeconds {
			return fmt.Errorf("line %d: duration %q out of range", value.Line, value.Value)
		}
		*d = Duration(math.Round(seconds * float64(time.Second)))
		return nil
	}

	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", value.Line, value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Load reads and validates a scenario file
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file %s: %w", path, err)
	}

	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse scenario file %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a scenario
func Parse(data []byte) (*Scenario, error) {
	sc := &Scenario{}
	if err := yaml.Unmarshal(data, sc); err != nil {
		return nil, err
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

// Validate checks that every step is well formed. Frame ports are checked
// against Ports when the scenario sets it; otherwise the switch rejects them at run time.
func (s *Scenario) Validate() error {
	if s.Name == "" {
		return errors.New("scenario name is required")
	}
	if s.Ports < 0 {
		return fmt.Errorf("ports must not be negative, got %d", s.Ports)
	}
	if s.AgingTimeout != nil && *s.AgingTimeout < 0 {
		return fmt.Errorf("aging_timeout must not be negative, got %d", *s.AgingTimeout)
	}
	if len(s.Steps) == 0 {
		return errors.New("scenario has no steps")
	}

	for i, step := range s.Steps {
		if err := step.validate(s.Ports); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (st Step) validate(ports int) error {
	actions := 0
	for _, set := range []bool{st.Frame != nil, st.Advance != 0, st.Cleanup, st.Clear, st.Dump, st.Stats} {
		if set {
			actions++
		}
	}

	switch {
	case actions > 1:
		return errors.New("a step may only have one action")
	case actions == 0 && st.Note == "":
		return errors.New("empty step")
	case st.Advance < 0:
		return fmt.Errorf("advance must not be negative, got %s", time.Duration(st.Advance))
	}

	if st.Frame == nil {
		return nil
	}
	if st.Frame.Port < 1 || (ports > 0 && st.Frame.Port > ports) {
		return fmt.Errorf("frame port %d out of range", st.Frame.Port)
	}
	return nil
}

// Apply copies the scenario's switch overrides into cfg
func (s *Scenario) Apply(cfg *node.Config) {
	if s.Ports > 0 {
		cfg.Switch.Ports = s.Ports
	}
	if s.AgingTimeout != nil {
		cfg.Switch.AgingTimeout = *s.AgingTimeout
	}
}
