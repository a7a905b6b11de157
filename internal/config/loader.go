package config

import (
	"errors"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, an optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if PARLAMETRO_CONFIG is set
//  3. env (prefix PARLAMETRO_)
func Load() (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("PARLAMETRO_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: PARLAMETRO_ADDR, PARLAMETRO_DATA_DIR, ...
	// Keys map to the flat koanf tags on the struct; underscores preserved.
	envProvider := env.Provider("PARLAMETRO_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "parlametro_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if cfg.Addr == "" {
		return nil, errors.New("addr must not be empty")
	}
	if cfg.Policy.DefaultMonthlyQuota <= 0 {
		return nil, errors.New("policy default_monthly_quota must be positive")
	}
	if cfg.Policy.TopicLimit <= 0 {
		return nil, errors.New("policy topic_limit must be positive")
	}
	return &cfg, nil
}
