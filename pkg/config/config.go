package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/shlex"
	"gopkg.in/yaml.v3"
)

const (
	DefaultAnalyzer   = "q"
	DefaultSubcommand = "analyze"
)

// Config holds the settings that are not part of a single invocation request.
// Values come from defaults, then an optional YAML file, then the environment;
// command-line flags are applied last by the caller.
type Config struct {
	// Analyzer is the command used to start the external analyzer. It is
	// split with shell quoting rules, so "docker run --rm img q" is valid.
	Analyzer   string        `yaml:"analyzer"`
	Subcommand string        `yaml:"subcommand"`
	Timeout    time.Duration `yaml:"timeout"`
	NoColor    bool          `yaml:"no_color"`
	Strict     bool          `yaml:"strict"`
	Exclude    []string      `yaml:"exclude"`
	LOC        bool          `yaml:"loc"`
}

func Default() Config {
	return Config{
		Analyzer:   DefaultAnalyzer,
		Subcommand: DefaultSubcommand,
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overlays QANALYZE_ANALYZER, QANALYZE_TIMEOUT, QANALYZE_STRICT and
// NO_COLOR.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv("QANALYZE_ANALYZER"); v != "" {
		c.Analyzer = v
	}
	if v := getenv("QANALYZE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid QANALYZE_TIMEOUT %q: %w", v, err)
		}
		c.Timeout = d
	}
	if v := getenv("NO_COLOR"); v != "" {
		c.NoColor = true
	}
	if v := getenv("QANALYZE_STRICT"); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid QANALYZE_STRICT %q: %w", v, err)
		}
		c.Strict = strict
	}
	return nil
}

func (c Config) Validate() error {
	if c.Timeout < 0 {
		return errors.New("timeout must not be negative")
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("malformed exclude pattern %s", pattern)
		}
	}
	if _, err := c.Command(); err != nil {
		return err
	}
	return nil
}

// Command returns the analyzer argv prefix: the split analyzer command
// followed by the subcommand. The project path is appended by the executor.
func (c Config) Command() ([]string, error) {
	argv, err := shlex.Split(c.Analyzer)
	if err != nil {
		return nil, fmt.Errorf("failed to split analyzer command %q: %w", c.Analyzer, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("analyzer command is empty")
	}
	if c.Subcommand != "" {
		argv = append(argv, c.Subcommand)
	}
	return argv, nil
}
