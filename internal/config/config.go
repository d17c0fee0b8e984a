package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Data     DataConfig
	Log      LogConfig
	Admin    AdminConfig
	ESign    ESignConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings for the reference store.
type DatabaseConfig struct {
	Path string
}

// DataConfig holds the directory for durable key-value snapshots
// (work items, saved form codes, operations banner).
type DataConfig struct {
	Dir string
}

// LogConfig holds file-logger settings. An empty path disables logging.
type LogConfig struct {
	Path  string
	Level string
}

// AdminConfig controls the admin workspace gate.
type AdminConfig struct {
	Enabled bool
	UserEnv string
}

// ESignConfig holds signature-provider settings.
type ESignConfig struct {
	BaseURL  string
	Simulate bool
	FailWith string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat  string
	Timezone    string
	ResultLimit int
}

// Load reads configuration from file and env. Env var overrides use prefix ENVELOPEDESK_.
func Load() (Config, error) {
	v := viper.New()

	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "envelopedesk")

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir, "envelopedesk.db"))
	v.SetDefault("data.dir", dataDir)
	v.SetDefault("log.path", filepath.Join(dataDir, "envelopedesk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("admin.enabled", false)
	v.SetDefault("admin.user_env", "ENVELOPEDESK_ADMIN")
	v.SetDefault("esign.base_url", "")
	v.SetDefault("esign.simulate", true)
	v.SetDefault("esign.fail_with", "")
	v.SetDefault("ui.date_format", "02 Jan 2006")
	v.SetDefault("ui.timezone", "America/New_York")
	v.SetDefault("ui.result_limit", 6)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("ENVELOPEDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "envelopedesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("ENVELOPEDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := os.Getenv("ENVELOPEDESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "envelopedesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("data.dir", cfg.Data.Dir)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("admin.enabled", cfg.Admin.Enabled)
	v.Set("admin.user_env", cfg.Admin.UserEnv)
	v.Set("esign.base_url", cfg.ESign.BaseURL)
	v.Set("esign.simulate", cfg.ESign.Simulate)
	v.Set("esign.fail_with", cfg.ESign.FailWith)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.timezone", cfg.UI.Timezone)
	v.Set("ui.result_limit", cfg.UI.ResultLimit)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
