// Package config loads app config from the environment and an optional .env
// file using Viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// ListenAddr is the address the HTTP server listens on.
	ListenAddr string `mapstructure:"LISTEN_ADDR"`
	// BridgeTargetURL is the receiver endpoint the bridge forwards to.
	BridgeTargetURL string `mapstructure:"BRIDGE_TARGET_URL"`
	// DoorbellMac is the Wyze device MAC of the doorbell to poll.
	DoorbellMac string `mapstructure:"DOORBELL_MAC_ID"`
	// PollInterval is how often the bridge polls the event history.
	PollInterval time.Duration `mapstructure:"POLL_INTERVAL"`
}

// Load reads .env (if present), then builds Config from the environment.
// Env vars override .env values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()

	v.SetDefault("LISTEN_ADDR", ":5000")
	v.SetDefault("BRIDGE_TARGET_URL", "http://localhost:5000/api/wyze/doorbell")
	v.SetDefault("DOORBELL_MAC_ID", "")
	v.SetDefault("POLL_INTERVAL", "5s")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive, got %s", cfg.PollInterval)
	}
	return &cfg, nil
}
