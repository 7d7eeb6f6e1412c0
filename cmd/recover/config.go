package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the shape --config FILE loads via yaml.v3, mirroring
// the flag set in main.go field-for-field so a committed config can stand
// in for a long flag line on headless/batch runs (SPEC_FULL.md
// DOMAIN STACK: "config file for headless runs").
type fileConfig struct {
	Path           string `yaml:"path"`
	Estimator      string `yaml:"estimator"`
	LoadEstimation string `yaml:"load_estimation"`
	Optimizer      string `yaml:"optimizer"`
	FitnessFunc    string `yaml:"fitness_function"`
	Segment        string `yaml:"segment"`
	Pickle         string `yaml:"pickle"`
	JSON           string `yaml:"json"`
	Time           bool   `yaml:"time"`
	Debug          bool   `yaml:"debug"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
