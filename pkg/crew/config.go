package crew

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultRunTimeout  = 5 * time.Minute
	defaultTaskTimeout = 2 * time.Minute
)

// Config controls how crews drive the LLM.
type Config struct {
	// Model is an llm model alias; empty uses the client default.
	Model string `yaml:"model"`
	// Temperature overrides the client default when set.
	Temperature *float64 `yaml:"temperature,omitempty"`
	// PromptDir holds optional <task>.tmpl overrides.
	PromptDir string `yaml:"prompt_dir"`
	// Sequential disables running the market and technical agents concurrently.
	Sequential  bool          `yaml:"sequential"`
	RunTimeout  time.Duration `yaml:"-"`
	TaskTimeout time.Duration `yaml:"-"`

	RunTimeoutRaw  string `yaml:"run_timeout"`
	TaskTimeoutRaw string `yaml:"task_timeout"`
}

// DefaultConfig returns the configuration used when no crew file is provided.
func DefaultConfig() *Config {
	return &Config{RunTimeout: defaultRunTimeout, TaskTimeout: defaultTaskTimeout}
}

// LoadConfig reads crew configuration from disk.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open crew config: %w", err)
	}
	defer file.Close()
	return LoadConfigFromReader(file)
}

// LoadConfigFromReader constructs a Config from a reader.
func LoadConfigFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read crew config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal crew config: %w", err)
	}
	cfg.PromptDir = os.ExpandEnv(cfg.PromptDir)
	if err := cfg.parseDurations(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.RunTimeout <= 0 || c.TaskTimeout <= 0 {
		return errors.New("crew config: timeouts must be positive")
	}
	if c.TaskTimeout > c.RunTimeout {
		return fmt.Errorf("crew config: task_timeout %s exceeds run_timeout %s", c.TaskTimeout, c.RunTimeout)
	}
	if c.Temperature != nil && (*c.Temperature < 0 || *c.Temperature > 2) {
		return fmt.Errorf("crew config: temperature %.2f out of range [0,2]", *c.Temperature)
	}
	return nil
}

func (c *Config) parseDurations() error {
	var err error
	if c.RunTimeout, err = parseDuration("run_timeout", c.RunTimeoutRaw, defaultRunTimeout); err != nil {
		return err
	}
	if c.TaskTimeout, err = parseDuration("task_timeout", c.TaskTimeoutRaw, defaultTaskTimeout); err != nil {
		return err
	}
	return nil
}

func parseDuration(field, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("crew config: invalid %s %q: %w", field, raw, err)
	}
	return d, nil
}
