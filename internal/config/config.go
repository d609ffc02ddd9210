package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/napolitain/ironquest/internal/logger"
)

// Config holds the settings shared by the CLI and the server.
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Server  ServerConfig  `yaml:"server"`
	Profile ProfileConfig `yaml:"profile"`
	Store   StoreConfig   `yaml:"store"`
	Logging logger.Config `yaml:"logging"`
}

// DataConfig locates the quest catalog.
type DataConfig struct {
	// Dir is the directory holding quests.json.
	Dir string `yaml:"dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`

	// ReadTimeout and WriteTimeout bound a single request.
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ProfileConfig holds the player profile endpoints.
// The URLs are templates where %s is replaced by the escaped player name.
type ProfileConfig struct {
	// Enabled turns profile lookups on. With it off, plans start from initial XP.
	Enabled bool `yaml:"enabled"`

	HiscoreURL string        `yaml:"hiscore_url"`
	JournalURL string        `yaml:"journal_url"`
	Timeout    time.Duration `yaml:"timeout"`
}

// StoreConfig holds the profile cache and plan history database.
type StoreConfig struct {
	// Driver is "sqlite" or "postgres". Empty disables the store.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`

	// ProfileTTL is how long a fetched profile is reused.
	ProfileTTL time.Duration `yaml:"profile_ttl"`
}

// DefaultConfig returns a Config usable without a config file.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir: "data",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Profile: ProfileConfig{
			Enabled:    true,
			HiscoreURL: "https://secure.runescape.com/m=hiscore/index_lite.ws?player=%s",
			JournalURL: "https://apps.runescape.com/runemetrics/quests?user=%s",
			Timeout:    10 * time.Second,
		},
		Store: StoreConfig{
			Driver:     "",
			DSN:        "ironquest.db",
			ProfileTTL: 15 * time.Minute,
		},
		Logging: logger.DefaultConfig(),
	}
}

// LoadConfig loads configuration from a YAML file.
// If the file doesn't exist, returns default config.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return DefaultConfig(), err
	}

	return config, nil
}

// ApplyEnv overrides config values from IRONQUEST_* and LOG_* environment
// variables.
func (c *Config) ApplyEnv() {
	if dir := os.Getenv("IRONQUEST_DATA_DIR"); dir != "" {
		c.Data.Dir = dir
	}
	if addr := os.Getenv("IRONQUEST_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if enabled := os.Getenv("IRONQUEST_PROFILE_ENABLED"); enabled != "" {
		if v, err := strconv.ParseBool(enabled); err == nil {
			c.Profile.Enabled = v
		}
	}
	if driver := os.Getenv("IRONQUEST_STORE_DRIVER"); driver != "" {
		c.Store.Driver = driver
	}
	if dsn := os.Getenv("IRONQUEST_STORE_DSN"); dsn != "" {
		c.Store.DSN = dsn
	}
	c.Logging = logger.ApplyEnv(c.Logging)
}
