// Package config provides configuration management for studyflow.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
	"github.com/xvierd/studyflow/internal/domain"
)

// Config holds all configuration for the studyflow application.
type Config struct {
	Timer         TimerConfig        `mapstructure:"timer"`
	Notifications NotificationConfig `mapstructure:"notifications"`
	MCP           MCPConfig          `mapstructure:"mcp"`
	Storage       StorageConfig      `mapstructure:"storage"`
	Generator     GeneratorConfig    `mapstructure:"generator"`
	Git           GitConfig          `mapstructure:"git"`
	Log           LogConfig          `mapstructure:"log"`
	Theme         ThemeConfig        `mapstructure:"theme"`
}

// TimerConfig holds focus timer preferences. The mode presets themselves are
// fixed and deliberately absent here.
type TimerConfig struct {
	AutoFocus bool   `mapstructure:"auto_focus"`
	StartMode string `mapstructure:"start_mode"`
}

// Mode returns the configured start mode, falling back to work.
func (c *TimerConfig) Mode() domain.TimerMode {
	mode, err := domain.ParseTimerMode(c.StartMode)
	if err != nil {
		return domain.TimerModeWork
	}
	return mode
}

// NotificationConfig holds notification settings.
type NotificationConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Sound   bool `mapstructure:"sound"`
}

// MCPConfig holds MCP server settings.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
}

// GeneratorConfig holds settings for the plan generation service.
type GeneratorConfig struct {
	Enabled  bool     `mapstructure:"enabled"`
	Endpoint string   `mapstructure:"endpoint"`
	Model    string   `mapstructure:"model"`
	Timeout  Duration `mapstructure:"timeout"`
}

// GitConfig controls attaching git context to focus sessions.
type GitConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging settings. An empty file means <data_dir>/studyflow.log.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ThemeConfig holds theme customization settings (colors and icons).
type ThemeConfig struct {
	ColorWork          string `mapstructure:"color_work"`
	ColorBreak         string `mapstructure:"color_break"`
	ColorPaused        string `mapstructure:"color_paused"`
	ColorTitle         string `mapstructure:"color_title"`
	ColorHelp          string `mapstructure:"color_help"`
	ColorOverlay       string `mapstructure:"color_overlay"`
	WorkGradientStart  string `mapstructure:"work_gradient_start"`
	WorkGradientEnd    string `mapstructure:"work_gradient_end"`
	BreakGradientStart string `mapstructure:"break_gradient_start"`
	BreakGradientEnd   string `mapstructure:"break_gradient_end"`
	IconApp            string `mapstructure:"icon_app"`
	IconSubject        string `mapstructure:"icon_subject"`
	IconGit            string `mapstructure:"icon_git"`
	IconPaused         string `mapstructure:"icon_paused"`
}

// DefaultThemeConfig returns the default theme configuration.
func DefaultThemeConfig() ThemeConfig {
	return ThemeConfig{
		ColorWork:          "#F4A28C",
		ColorBreak:         "#7FC8A9",
		ColorPaused:        "#6B7280",
		ColorTitle:         "#6B7280",
		ColorHelp:          "#95A5A6",
		ColorOverlay:       "#1F1B24",
		WorkGradientStart:  "#F4A28C",
		WorkGradientEnd:    "#F6C28B",
		BreakGradientStart: "#7FC8A9",
		BreakGradientEnd:   "#8EC5FC",
		IconApp:            "📚",
		IconSubject:        "📖",
		IconGit:            "🌿",
		IconPaused:         "⏸",
	}
}

// Duration is a wrapper around time.Duration for TOML parsing.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(duration)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// String returns the string representation of the duration.
func (d Duration) String() string {
	return time.Duration(d).String()
}

const defaultDataDir = "~/.studyflow"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			AutoFocus: true,
			StartMode: string(domain.TimerModeWork),
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   true,
		},
		MCP: MCPConfig{
			Enabled: true,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir,
		},
		Generator: GeneratorConfig{
			Enabled:  true,
			Endpoint: "http://localhost:11434",
			Model:    "llama3.2",
			Timeout:  Duration(60 * time.Second),
		},
		Git: GitConfig{
			Enabled: true,
		},
		Log: LogConfig{
			Level: "info",
		},
		Theme: DefaultThemeConfig(),
	}
}

// values flattens cfg into viper keys.
func values(cfg *Config) map[string]any {
	return map[string]any{
		"timer.auto_focus":           cfg.Timer.AutoFocus,
		"timer.start_mode":           cfg.Timer.StartMode,
		"notifications.enabled":      cfg.Notifications.Enabled,
		"notifications.sound":        cfg.Notifications.Sound,
		"mcp.enabled":                cfg.MCP.Enabled,
		"storage.data_dir":           cfg.Storage.DataDir,
		"generator.enabled":          cfg.Generator.Enabled,
		"generator.endpoint":         cfg.Generator.Endpoint,
		"generator.model":            cfg.Generator.Model,
		"generator.timeout":          cfg.Generator.Timeout.String(),
		"git.enabled":                cfg.Git.Enabled,
		"log.level":                  cfg.Log.Level,
		"log.file":                   cfg.Log.File,
		"theme.color_work":           cfg.Theme.ColorWork,
		"theme.color_break":          cfg.Theme.ColorBreak,
		"theme.color_paused":         cfg.Theme.ColorPaused,
		"theme.color_title":          cfg.Theme.ColorTitle,
		"theme.color_help":           cfg.Theme.ColorHelp,
		"theme.color_overlay":        cfg.Theme.ColorOverlay,
		"theme.work_gradient_start":  cfg.Theme.WorkGradientStart,
		"theme.work_gradient_end":    cfg.Theme.WorkGradientEnd,
		"theme.break_gradient_start": cfg.Theme.BreakGradientStart,
		"theme.break_gradient_end":   cfg.Theme.BreakGradientEnd,
		"theme.icon_app":             cfg.Theme.IconApp,
		"theme.icon_subject":         cfg.Theme.IconSubject,
		"theme.icon_git":             cfg.Theme.IconGit,
		"theme.icon_paused":          cfg.Theme.IconPaused,
	}
}

// Keys returns every settable configuration key, sorted.
func Keys() []string {
	keys := make([]string, 0)
	for k := range values(DefaultConfig()) {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// newViper returns a viper instance bound to path with defaults and
// STUDYFLOW_* environment overrides.
func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetEnvPrefix("studyflow")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for k, val := range values(DefaultConfig()) {
		v.SetDefault(k, val)
	}
	return v
}

// Load loads the configuration from the default config file.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from path, creating it with defaults if
// it does not exist.
func LoadFrom(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := SaveTo(configPath, DefaultConfig()); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	}

	v := newViper(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	dataDir, err := expandHome(cfg.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	cfg.Storage.DataDir = dataDir

	return &cfg, nil
}

// Save saves the configuration to the default config file.
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	return SaveTo(configPath, cfg)
}

// SaveTo writes cfg as TOML to path.
func SaveTo(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	for k, val := range values(cfg) {
		v.Set(k, val)
	}

	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Set updates a single key in the config file at path and returns the
// reloaded configuration.
func Set(configPath, key, value string) (*Config, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	def, ok := values(DefaultConfig())[key]
	if !ok {
		return nil, fmt.Errorf("unknown config key %q", key)
	}
	typed, err := parseValue(key, def, value)
	if err != nil {
		return nil, err
	}

	if _, err := LoadFrom(configPath); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	v.Set(key, typed)
	if err := v.WriteConfigAs(configPath); err != nil {
		return nil, fmt.Errorf("failed to write config: %w", err)
	}

	return LoadFrom(configPath)
}

// GetConfigPath returns the path to the config file.
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".studyflow", "config.toml"), nil
}

// GetDBPath returns the path to the database file.
func GetDBPath(cfg *Config) string {
	return filepath.Join(cfg.Storage.DataDir, "studyflow.db")
}

// GetLogPath returns the path to the log file.
func GetLogPath(cfg *Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(cfg.Storage.DataDir, "studyflow.log")
}

// parseValue converts a command-line value to the type of the key's default.
func parseValue(key string, def any, value string) (any, error) {
	switch def.(type) {
	case bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("invalid boolean for %s: %q", key, value)
		}
		return b, nil
	}
	switch key {
	case "timer.start_mode":
		mode, err := domain.ParseTimerMode(value)
		if err != nil {
			return nil, err
		}
		return string(mode), nil
	case "generator.timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid duration for %s: %w", key, err)
		}
		return d.String(), nil
	case "log.level":
		if _, err := ParseLevel(value); err != nil {
			return nil, err
		}
	}
	return value, nil
}

func expandHome(dir string) (string, error) {
	if dir != "" && dir != "~" && !strings.HasPrefix(dir, "~/") {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	if dir == "" || dir == "~" {
		return filepath.Join(homeDir, ".studyflow"), nil
	}
	return filepath.Join(homeDir, strings.TrimPrefix(dir, "~/")), nil
}
