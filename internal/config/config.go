package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes the evaluation run matrix and where its artifacts live.
type Config struct {
	Datasets     []string `yaml:"datasets"`
	Shots        []int    `yaml:"shots"`
	Trainer      string   `yaml:"trainer"`
	ConfigSuffix string   `yaml:"config_suffix"`
	Paths        Paths    `yaml:"paths"`
}

type Paths struct {
	// OutputDir is the root of the eval output tree produced by the
	// external trainer: <output_dir>/<dataset>/shots_<k>/<trainer>/<suffix>/.
	OutputDir string `yaml:"output_dir"`
	// ResultsDir receives the aggregated CSV reports.
	ResultsDir string `yaml:"results_dir"`
	// LedgerDir holds the per-model run ledgers.
	LedgerDir string `yaml:"ledger_dir"`
	// TimesFile is the training-duration ledger.
	TimesFile string `yaml:"times_file"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Datasets) == 0 {
		return fmt.Errorf("no datasets defined")
	}
	for i, d := range cfg.Datasets {
		if d == "" {
			return fmt.Errorf("dataset %d: name is required", i)
		}
	}
	if len(cfg.Shots) == 0 {
		return fmt.Errorf("no shot counts defined")
	}
	for _, k := range cfg.Shots {
		if k < 1 {
			return fmt.Errorf("shot count %d: must be at least 1", k)
		}
	}
	if cfg.Trainer == "" {
		return fmt.Errorf("trainer is required")
	}
	if cfg.Paths.OutputDir == "" {
		cfg.Paths.OutputDir = "output_eval"
	}
	if cfg.Paths.ResultsDir == "" {
		cfg.Paths.ResultsDir = "results"
	}
	if cfg.Paths.LedgerDir == "" {
		cfg.Paths.LedgerDir = "ledgers"
	}
	if cfg.Paths.TimesFile == "" {
		cfg.Paths.TimesFile = "train-results/training_times.csv"
	}
	return nil
}
