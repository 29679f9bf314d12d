package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TurnConfig holds the embedded TURN relay settings. The relay is off
// by default; when enabled, an empty PublicIP is auto-detected at
// startup.
type TurnConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Realm    string `mapstructure:"realm"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	PublicIP string `mapstructure:"public_ip"`
}

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Turn   TurnConfig   `mapstructure:"turn"`
}

// Load reads configuration with the following priority: environment
// variables (COLLAB_ prefix, dots replaced by underscores) over the
// optional YAML file over hardcoded defaults.
func Load(file string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("turn.enabled", false)
	v.SetDefault("turn.address", "0.0.0.0:3478")
	v.SetDefault("turn.realm", "collab.local")
	v.SetDefault("turn.username", "")
	v.SetDefault("turn.password", "")
	v.SetDefault("turn.public_ip", "")

	v.SetEnvPrefix("COLLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
