// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load(ctx) layers defaults, an optional YAML file, and env vars.
// - External errors must be wrapped via this package's error kinds.
package config

import (
	"github.com/okian/opteams/internal/domain/rules"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// PrimaryStat is the default stat column teams are built on.
	PrimaryStat string `koanf:"primary_stat"`

	// TargetTotal is the exact primary-stat sum a team must reach.
	TargetTotal int `koanf:"target_total"`

	// HighTierValue and MidTierValue are the exact stat values that
	// classify a member as high or mid tier.
	HighTierValue int `koanf:"high_tier_value"`
	MidTierValue  int `koanf:"mid_tier_value"`

	// MinHighTier and MinMidTier are the tier minimums per team.
	MinHighTier int `koanf:"min_high_tier"`
	MinMidTier  int `koanf:"min_mid_tier"`

	// MaxTeamSize bounds the roster.
	MaxTeamSize int `koanf:"max_team_size"`

	// MaxCombinedTotal caps the team-wide sum of the four power stats.
	// Zero disables the cap.
	MaxCombinedTotal int `koanf:"max_combined_total"`

	// ReserveKeywords qualify a character as playable from reserve when
	// any of them appears in its special text. Empty means any non-empty
	// special text qualifies.
	ReserveKeywords []string `koanf:"reserve_keywords"`

	// Parallelism fans the search out across goroutines when above one.
	Parallelism int `koanf:"parallelism"`

	// Save routes the rendered table to OutputFile instead of stdout.
	Save bool `koanf:"save"`

	// OutputFile overrides the default "<stat>_teams.txt" save target.
	OutputFile string `koanf:"output_file"`

	// MetricsAddr exposes Prometheus metrics on this address when set,
	// e.g. ":9090". Empty disables the listener.
	MetricsAddr string `koanf:"metrics_addr"`
}

// New returns a Config carrying the classic rule defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		PrimaryStat:   "Strength",
		TargetTotal:   rules.DefaultTargetTotal,
		HighTierValue: rules.DefaultHighTierValue,
		MidTierValue:  rules.DefaultMidTierValue,
		MinHighTier:   rules.DefaultMinHighTier,
		MinMidTier:    rules.DefaultMinMidTier,
		MaxTeamSize:   rules.DefaultMaxTeamSize,
		Parallelism:   1,
	}
}

// Rules converts the configured constraints into a rule set for the given
// primary stat, wiring the keyword reserve predicate.
func (c *Config) Rules(primaryStat string) rules.Set {
	return rules.Set{
		PrimaryStat:      primaryStat,
		TargetTotal:      c.TargetTotal,
		HighTierValue:    c.HighTierValue,
		MidTierValue:     c.MidTierValue,
		MinHighTier:      c.MinHighTier,
		MinMidTier:       c.MinMidTier,
		MaxTeamSize:      c.MaxTeamSize,
		MaxCombinedTotal: c.MaxCombinedTotal,
		Reserve:          rules.KeywordPredicate(c.ReserveKeywords),
	}
}
