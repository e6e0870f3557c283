package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/francefarms/bioestate/foundation/sequence"
	"gopkg.in/yaml.v3"
)

// Profile is a reference organism with a known GC content.
type Profile struct {
	Name string  `yaml:"name" json:"name"`
	GC   float64 `yaml:"gc" json:"gc"`
}

// Profiles holds the reference data samples are compared against.
type Profiles struct {
	RiskThreshold float64   `yaml:"risk_threshold" json:"risk_threshold"`
	SampleLabel   string    `yaml:"sample_label" json:"sample_label"`
	Hosts         []Profile `yaml:"hosts" json:"hosts"`
}

// DefaultProfiles returns the built in reference data.
func DefaultProfiles() Profiles {
	return Profiles{
		RiskThreshold: sequence.DefaultRiskThreshold,
		SampleLabel:   "Pathogen",
		Hosts: []Profile{
			{Name: "Mango (Host)", GC: 43.5},
		},
	}
}

// LoadProfiles reads the reference data from the YAML file at the path.
// Values missing from the file, or a missing file, fall back to the
// defaults.
func LoadProfiles(path string) (Profiles, error) {
	def := DefaultProfiles()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return def, nil
		}
		return Profiles{}, fmt.Errorf("reading profiles: %w", err)
	}

	var p Profiles
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profiles{}, fmt.Errorf("decoding profiles: %w", err)
	}

	if p.RiskThreshold <= 0 {
		p.RiskThreshold = def.RiskThreshold
	}
	if p.SampleLabel == "" {
		p.SampleLabel = def.SampleLabel
	}
	if len(p.Hosts) == 0 {
		p.Hosts = def.Hosts
	}

	for _, h := range p.Hosts {
		if h.GC < 0 || h.GC > 100 {
			return Profiles{}, fmt.Errorf("profile %q: gc %.2f out of range", h.Name, h.GC)
		}
	}

	return p, nil
}
