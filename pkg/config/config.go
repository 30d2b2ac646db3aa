// Package config holds the pipeline configuration: per-authority conversion
// profiles plus worker and layout settings, loadable from a YAML file.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Profile describes how one issuing authority's judgments are converted.
type Profile struct {
	// Name is the authority key used in input paths, e.g. "areios_pagos".
	Name string `yaml:"name"`
	// Author is the ontology reference stamped into metadata, e.g. "#SCCC".
	Author string `yaml:"author"`
	// Foreas is the authority code used in FRBR URIs, e.g. "SCCC".
	Foreas string `yaml:"foreas"`
	// Strategy selects the extractor: "grammar" or "heuristic".
	Strategy string `yaml:"strategy"`
	// Override re-derives header and introduction by line scanning.
	Override bool `yaml:"override"`
	// Sidecar reads the "<base>_meta.txt" metadata file next to each input.
	Sidecar bool `yaml:"sidecar"`
	// EmitJSON writes the intermediate skeleton as a JSON side artifact.
	EmitJSON bool `yaml:"emit_json"`
}

// Config is the full pipeline configuration.
type Config struct {
	// Workers is the parallel task limit; 0 means one per CPU.
	Workers int `yaml:"workers"`
	// SchemaPath is the optional XSD used for post-write validation.
	SchemaPath string `yaml:"schema_path"`
	// Checksums enables writing a sha256 manifest per output tree.
	Checksums bool `yaml:"checksums"`
	// Profiles maps authority keys to their conversion profile.
	Profiles map[string]Profile `yaml:"profiles"`
}

// Default returns the built-in configuration covering the two supported
// courts.
func Default() Config {
	return Config{
		Workers: 0,
		Profiles: map[string]Profile{
			"areios_pagos": {
				Name:     "areios_pagos",
				Author:   "#SCCC",
				Foreas:   "SCCC",
				Strategy: "grammar",
				EmitJSON: true,
			},
			"ste": {
				Name:     "ste",
				Author:   "#COS",
				Foreas:   "COS",
				Strategy: "grammar",
				Override: true,
				Sidecar:  true,
			},
		},
	}
}

// Load reads a YAML configuration file and merges it over the defaults:
// file-level settings win, and a profile in the file replaces the built-in
// profile of the same key wholesale.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var loaded Config
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg := Default()
	if loaded.Workers != 0 {
		cfg.Workers = loaded.Workers
	}
	if loaded.SchemaPath != "" {
		cfg.SchemaPath = loaded.SchemaPath
	}
	if loaded.Checksums {
		cfg.Checksums = true
	}
	for key, profile := range loaded.Profiles {
		if profile.Name == "" {
			profile.Name = key
		}
		if err := validateProfile(profile); err != nil {
			return Config{}, fmt.Errorf("profile %q: %w", key, err)
		}
		cfg.Profiles[key] = profile
	}
	return cfg, nil
}

func validateProfile(p Profile) error {
	if p.Author == "" || p.Foreas == "" {
		return fmt.Errorf("author and foreas are required")
	}
	switch p.Strategy {
	case "grammar", "heuristic":
		return nil
	default:
		return fmt.Errorf("unknown strategy %q", p.Strategy)
	}
}

// WorkerCount resolves the configured worker limit.
func (c Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
