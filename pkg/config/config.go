// Package config loads and saves the scenario files bbtreebench drives
// its broadphase benchmarks from.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// BenchConfig describes one synthetic broadphase scenario: how many
// moving bodies to simulate, the world they move in, and how long to
// run.
type BenchConfig struct {
	// Bodies is the number of moving objects inserted into the dynamic
	// tree.
	Bodies int `yaml:"bodies"`

	// StaticObstacles is the number of non-moving objects inserted into
	// a static partner tree, paired against the dynamic tree via
	// bbtree.WithStaticPartner.
	StaticObstacles int `yaml:"static_obstacles"`

	// World bounds the random placement of bodies and obstacles.
	World Bounds `yaml:"world"`

	// HalfExtent is the half-width/half-height of every body's square
	// bounding box.
	HalfExtent float64 `yaml:"half_extent"`

	// VelocityJitter bounds the per-axis velocity assigned to each body
	// at scenario start, in world units per frame.
	VelocityJitter float64 `yaml:"velocity_jitter"`

	// Frames is the number of ReindexQuery passes to run.
	Frames int `yaml:"frames"`

	// MetricsAddr, if set, is the address bbtreebench serve listens on
	// for /metrics and /stats. When it is empty and serve's --addr flag
	// is not given, serve listens on :8080. bbtreebench run ignores it.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Bounds is an axis-aligned rectangle bodies and obstacles are scattered
// within.
type Bounds struct {
	MinX float64 `yaml:"min_x"`
	MinY float64 `yaml:"min_y"`
	MaxX float64 `yaml:"max_x"`
	MaxY float64 `yaml:"max_y"`
}

// DefaultConfig returns a small, fast-running scenario suitable as a
// starting point for a user's own config file.
func DefaultConfig() *BenchConfig {
	return &BenchConfig{
		Bodies:          500,
		StaticObstacles: 50,
		World:           Bounds{MinX: -500, MinY: -500, MaxX: 500, MaxY: 500},
		HalfExtent:      5,
		VelocityJitter:  2,
		Frames:          600,
	}
}

// LoadConfig reads and parses a BenchConfig from path.
func LoadConfig(path string) (*BenchConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}

	var cfg BenchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	return &cfg, nil
}

// SaveConfig writes cfg to path as YAML, creating its parent directory
// if necessary.
func SaveConfig(cfg *BenchConfig, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return errors.Wrapf(err, "create config directory for %s", path)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(err, "write config %s", path)
	}

	return nil
}
