// Package conf loads the process configuration: a YAML file selected by
// ORGHUB_CONFIG (optional) with environment variable overrides on top.
package conf

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/looplj/orghub/internal/identity"
	"github.com/looplj/orghub/internal/log"
	"github.com/looplj/orghub/internal/pkg/xcache"
	"github.com/looplj/orghub/internal/server"
	"github.com/looplj/orghub/internal/server/biz"
	"github.com/looplj/orghub/internal/server/db"
)

type Config struct {
	Server   server.Config   `yaml:"server" envPrefix:"ORGHUB_SERVER_"`
	DB       db.Config       `yaml:"db" envPrefix:"ORGHUB_DB_"`
	Identity identity.Config `yaml:"identity" envPrefix:"ORGHUB_IDENTITY_"`
	Auth     biz.AuthConfig  `yaml:"auth" envPrefix:"ORGHUB_AUTH_"`
	Cache    xcache.Config   `yaml:"cache" envPrefix:"ORGHUB_CACHE_"`
	Log      log.Config      `yaml:"log" envPrefix:"ORGHUB_LOG_"`
}

// Load reads the YAML file named by ORGHUB_CONFIG when set, then applies
// environment overrides. Provided to fx.
func Load() (Config, error) {
	var cfg Config

	if path := os.Getenv("ORGHUB_CONFIG"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %q: %w", path, err)
		}

		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %q: %w", path, err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment config: %w", err)
	}

	return cfg, nil
}

// Sub-config providers for fx.
func ProvideServer(cfg Config) server.Config { return cfg.Server }

func ProvideDB(cfg Config) db.Config { return cfg.DB }

func ProvideIdentity(cfg Config) identity.Config { return cfg.Identity }

func ProvideAuth(cfg Config) biz.AuthConfig { return cfg.Auth }

func ProvideCache(cfg Config) xcache.Config { return cfg.Cache }

func ProvideLog(cfg Config) log.Config { return cfg.Log }
