package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if OPTEAMS_CONFIG is set
//  3. env (prefix OPTEAMS_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("OPTEAMS_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: OPTEAMS_TARGET_TOTAL, OPTEAMS_PRIMARY_STAT, ...
	// Map env keys like OPTEAMS_TARGET_TOTAL -> target_total (flat keys)
	// preserving underscores to match koanf tags on the struct. List-valued
	// keys arrive as one comma-separated string and are split here.
	envProvider := env.ProviderWithValue("OPTEAMS_", ".", func(key, value string) (string, interface{}) {
		k := strings.TrimPrefix(strings.ToLower(key), "opteams_")
		if k == "reserve_keywords" {
			return k, splitList(value)
		}
		return k, value
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	// Basic validation; rule-level checks happen in rules.Set.Validate.
	if cfg.PrimaryStat == "" {
		return nil, fmt.Errorf("%w: primary_stat must not be empty", ErrInvalidConfig)
	}
	if cfg.Parallelism < 1 {
		return nil, fmt.Errorf("%w: parallelism must be at least 1", ErrInvalidConfig)
	}
	return &cfg, nil
}

// splitList turns a comma-separated env value into a clean string slice.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
