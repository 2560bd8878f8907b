// Package config loads the experiment configuration for a verification
// run: algorithm parameters, the redundancy level, the simulator kind, and
// where results and artifacts go.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"snnverify/internal/backend"
	"snnverify/internal/snn"
	"snnverify/internal/verr"
)

type Config struct {
	Algorithm    AlgorithmConfig  `yaml:"algorithm"`
	Adaptation   AdaptationConfig `yaml:"adaptation"`
	Simulator    string           `yaml:"simulator"`
	Store        StoreConfig      `yaml:"store"`
	ArtifactsDir string           `yaml:"artifacts_dir"`
	ExportsDir   string           `yaml:"exports_dir"`
}

// AlgorithmConfig parameterizes the MDSA run being verified.
type AlgorithmConfig struct {
	MVal            int     `yaml:"m_val"`
	Seed            int64   `yaml:"seed"`
	GraphSize       int     `yaml:"graph_size"`
	RecurrentWeight float64 `yaml:"recurrent_weight"`
}

type AdaptationConfig struct {
	RedLevel int `yaml:"red_level"`
}

type StoreConfig struct {
	Kind string `yaml:"kind"`
	Path string `yaml:"path"`
}

// Load reads a config file, or returns defaults when path is empty.
func Load(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Algorithm.MVal == 0 {
		c.Algorithm.MVal = 1
	}
	if c.Algorithm.GraphSize == 0 {
		c.Algorithm.GraphSize = 3
	}
	if c.Algorithm.RecurrentWeight == 0 {
		c.Algorithm.RecurrentWeight = -2
	}
	if c.Adaptation.RedLevel == 0 {
		c.Adaptation.RedLevel = 2
	}
	if c.Simulator == "" {
		c.Simulator = backend.SimulatorNX
	}
	if c.Store.Kind == "" {
		c.Store.Kind = "memory"
	}
	if c.Store.Path == "" {
		c.Store.Path = "snnverify.db"
	}
	if c.ArtifactsDir == "" {
		c.ArtifactsDir = "results"
	}
	if c.ExportsDir == "" {
		c.ExportsDir = "exports"
	}
}

func (c *Config) Validate() error {
	if c.Algorithm.MVal < 0 {
		return &verr.ConfigError{Field: "algorithm.m_val", Reason: fmt.Sprintf("must be >= 0, got %d", c.Algorithm.MVal)}
	}
	if c.Algorithm.GraphSize < 1 {
		return &verr.ConfigError{Field: "algorithm.graph_size", Reason: fmt.Sprintf("must be >= 1, got %d", c.Algorithm.GraphSize)}
	}
	if err := snn.ValidateRedLevel(c.Adaptation.RedLevel); err != nil {
		return err
	}
	switch c.Simulator {
	case backend.SimulatorNX, backend.SimulatorSimSNN:
	default:
		return &verr.UnsupportedBackendError{Kind: c.Simulator}
	}
	return nil
}
