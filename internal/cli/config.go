package cli

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// defaultCacheTTL is how long registry responses stay fresh when the
// config file doesn't say otherwise.
const defaultCacheTTL = 24 * time.Hour

// config holds user defaults read from the optional config file at
// ~/.config/lockcheck/config.toml. Flags always override these values.
type config struct {
	Registry      string `toml:"registry"`        // registry base URL
	Workers       int    `toml:"workers"`         // fetch worker count
	Retries       int    `toml:"retries"`         // request attempts per package
	Date          string `toml:"date"`            // default cutoff date
	CacheTTLHours int    `toml:"cache_ttl_hours"` // response cache TTL
}

// withDefaults fills unset config values with the built-in defaults.
func (c config) withDefaults() config {
	if c.Workers <= 0 {
		c.Workers = 10
	}
	if c.Retries <= 0 {
		c.Retries = 1
	}
	if c.Date == "" {
		c.Date = "2024-01-01"
	}
	if c.CacheTTLHours <= 0 {
		c.CacheTTLHours = int(defaultCacheTTL / time.Hour)
	}
	return c
}

// cacheTTL returns the response cache TTL as a duration, falling back
// to the built-in default when the configured value is unset.
func (c config) cacheTTL() time.Duration {
	if c.CacheTTLHours <= 0 {
		return defaultCacheTTL
	}
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// loadConfig reads the config file if present. A missing file yields
// the built-in defaults; a broken file is ignored rather than fatal,
// since every value it provides can also be passed as a flag.
func loadConfig() config {
	var c config
	path, err := configPath()
	if err == nil {
		_, _ = toml.DecodeFile(path, &c)
	}
	return c.withDefaults()
}

func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
