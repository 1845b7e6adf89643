package config

import (
	"context"
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
//  2. file (YAML) if INDIRA_CONFIG is set
//  3. env (prefix INDIRA_)
func Load(ctx context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("INDIRA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, err
		}
	}

	// Environment variables: INDIRA_ADDR, INDIRA_SUB_BATCH_SIZE, ...
	// Map env keys like INDIRA_SUB_BATCH_SIZE -> sub_batch_size (flat
	// keys); underscores are preserved to match the koanf tags.
	envProvider := env.Provider("INDIRA_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "indira_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, err
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return ErrEmptyAddr
	case c.ProfileDBPath == "" || c.ScoreCachePath == "":
		return ErrEmptyStorePath
	case c.MaxDiscoverLimit < 1 || c.SubBatchSize < 1:
		return ErrInvalidBound
	case c.RecomputeUserCap < 1 || c.RecomputeCandidateCap < 1 || c.RecomputeScoreCap < 1:
		return ErrInvalidBound
	case c.SweepBatchSize < 1 || c.JobTimeoutSeconds < 1:
		return ErrInvalidBound
	}
	return nil
}
