package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/iw2rmb/tandem/editor"
	"github.com/iw2rmb/tandem/internal/logging"
)

const DefaultSettingsURL = "https://github.com/iw2rmb/tandem#upgrading"

// Load reads configuration from a yaml file in the working directory and
// TANDEM_* environment variables. A missing file is not an error.
func Load(logger *slog.Logger, fileName string) (*Config, error) {
	logger = logging.OrDefault(logger)
	v := viper.New()

	// 1. Set default values
	v.SetDefault("editor.historyLimit", 1000)
	v.SetDefault("editor.showLineNumbers", true)
	v.SetDefault("editor.scrollPolicy", "allow-manual")
	v.SetDefault("editor.tabWidth", 4)
	v.SetDefault("portal.followHostCursor", true)
	v.SetDefault("portal.settingsURL", DefaultSettingsURL)
	v.SetDefault("identity.login", "")
	v.SetDefault("log.level", "info")

	// 2. Set config file details
	v.SetConfigName(fileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// 3. Set up environment variable handling
	v.SetEnvPrefix("TANDEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read the configuration file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config %s: %w", fileName, err)
		}
		logger.Warn("Config file not found, relying on defaults and env vars", slog.String("file", fileName))
	}

	// 5. Unmarshal the configuration into our struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c *Config) Validate() error {
	if _, err := editor.ParseScrollPolicy(c.Editor.ScrollPolicy); err != nil {
		return fmt.Errorf("editor.scrollPolicy: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Editor.TabWidth < 0 {
		return fmt.Errorf("editor.tabWidth: must not be negative, got %d", c.Editor.TabWidth)
	}
	return nil
}
