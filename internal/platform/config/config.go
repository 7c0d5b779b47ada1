package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	envPrefix      = "READER365"
	configFileName = "config.yaml"
)

// Config holds application configuration. Values come from defaults, then
// <data_dir>/config.yaml, then READER365_* environment variables.
type Config struct {
	DataDir  string `yaml:"data_dir" envconfig:"DATA_DIR"`
	LogLevel string `yaml:"log_level" envconfig:"LOG_LEVEL"` // debug|info|warn|error
	LogFile  string `yaml:"log_file" envconfig:"LOG_FILE"`

	CheckInterval time.Duration `yaml:"check_interval" envconfig:"CHECK_INTERVAL"`
	HTTPAddr      string        `yaml:"http_addr" envconfig:"HTTP_ADDR"`

	AudioEnabled bool   `yaml:"audio_enabled" envconfig:"AUDIO_ENABLED"`
	AudioPlayer  string `yaml:"audio_player" envconfig:"AUDIO_PLAYER"`

	EyeBreakEnabled         bool `yaml:"eye_break_enabled" envconfig:"EYE_BREAK_ENABLED"`
	EyeBreakIntervalMinutes int  `yaml:"eye_break_interval_minutes" envconfig:"EYE_BREAK_INTERVAL_MINUTES"`
	EyeBreakDurationMinutes int  `yaml:"eye_break_duration_minutes" envconfig:"EYE_BREAK_DURATION_MINUTES"`

	HookTimeout time.Duration `yaml:"hook_timeout" envconfig:"HOOK_TIMEOUT"`
}

func Default(dataDir string) Config {
	return Config{
		DataDir:                 dataDir,
		LogLevel:                "info",
		CheckInterval:           30 * time.Second,
		HTTPAddr:                "127.0.0.1:8365",
		AudioEnabled:            true,
		EyeBreakEnabled:         true,
		EyeBreakIntervalMinutes: 20,
		EyeBreakDurationMinutes: 5,
		HookTimeout:             5 * time.Second,
	}
}

func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	cfg := Default(dataDir)
	if err := cfg.loadFile(filepath.Join(dataDir, configFileName)); err != nil {
		return Config{}, err
	}
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("decode config file: %w", err)
	}
	return nil
}

func (c Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug|info|warn|error, got %q", c.LogLevel)
	}
	if c.CheckInterval < time.Second {
		return fmt.Errorf("check_interval must be at least 1s, got %s", c.CheckInterval)
	}
	if c.CheckInterval > time.Minute {
		// Exact-minute matching needs at least one check inside every minute.
		return fmt.Errorf("check_interval must not exceed 1m, got %s", c.CheckInterval)
	}
	if c.EyeBreakIntervalMinutes < 10 || c.EyeBreakIntervalMinutes > 60 {
		return fmt.Errorf("eye_break_interval_minutes must be within 10..60, got %d", c.EyeBreakIntervalMinutes)
	}
	if c.EyeBreakDurationMinutes < 5 || c.EyeBreakDurationMinutes > 20 {
		return fmt.Errorf("eye_break_duration_minutes must be within 5..20, got %d", c.EyeBreakDurationMinutes)
	}
	if c.HookTimeout <= 0 {
		return fmt.Errorf("hook_timeout must be positive")
	}
	return nil
}

func (c Config) SchedulesPath() string {
	return filepath.Join(c.DataDir, "reading_schedules.json")
}

func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "reader365.db")
}

// TUILogPath is where the terminal UI writes logs so they don't draw over it.
func (c Config) TUILogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.DataDir, "reader365.log")
}

// SaveEyeBreak writes the eye-break settings into <dataDir>/config.yaml.
// Other keys and comments already in the file are kept.
func SaveEyeBreak(dataDir string, enabled bool, intervalMinutes, durationMinutes int) error {
	path := filepath.Join(dataDir, configFileName)

	var doc yaml.Node
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("decode config file: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("read config file: %w", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		doc = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return fmt.Errorf("config file %s is not a mapping", path)
	}

	setScalar(root, "eye_break_enabled", "!!bool", strconv.FormatBool(enabled))
	setScalar(root, "eye_break_interval_minutes", "!!int", strconv.Itoa(intervalMinutes))
	setScalar(root, "eye_break_duration_minutes", "!!int", strconv.Itoa(durationMinutes))

	out, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("encode config file: %w", err)
	}
	tmp, err := os.CreateTemp(dataDir, ".config-*.yaml")
	if err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace config file: %w", err)
	}
	return nil
}

func setScalar(mapping *yaml.Node, key, tag, value string) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			v := mapping.Content[i+1]
			v.Kind, v.Tag, v.Value, v.Style = yaml.ScalarNode, tag, value, 0
			v.Content = nil
			return
		}
	}
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value},
	)
}
