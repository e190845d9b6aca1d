// Package gencsv generates synthetic character tables for exercising the
// enumerator at scale. Generation is seeded and reproducible; the same
// config always yields the same catalog.
package gencsv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/opteams/internal/domain/model"
	"github.com/okian/opteams/pkg/logger"
)

// Name fragments for synthetic characters.
var (
	prefixes = []string{
		"iron", "shadow", "crimson", "silver", "night", "star", "storm",
		"ghost", "solar", "void", "omega", "wild",
	}
	suffixes = []string{
		"claw", "bolt", "fist", "weaver", "hunter", "blade", "warden",
		"seeker", "breaker", "phantom", "sentinel", "raven",
	}
)

// Special-text pools. The reserve pool must satisfy a keyword predicate
// looking for "from reserve".
var (
	reserveSpecials = []string{
		"May enter play from reserve.",
		"Inherent ability: may be placed from reserve at any time.",
		"Special card allows play from reserve once per battle.",
	}
	ordinarySpecials = []string{
		"",
		"",
		"Draw one card when placed.",
		"Opponent discards one power card.",
	}
)

// Generate produces synthetic characters according to the config.
func Generate(ctx context.Context, cfg *Config) ([]model.Character, error) {
	if cfg.NumCharacters < 0 {
		return nil, fmt.Errorf("number of characters must be non-negative, got %d", cfg.NumCharacters)
	}

	logger.Get().Named("gencsv").Debug(ctx, "generating characters",
		logger.Int("count", cfg.NumCharacters),
		logger.Int("seed", int(cfg.Seed)),
	)

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // deterministic seed for reproducible catalogs

	chars := make([]model.Character, cfg.NumCharacters)
	for i := range chars {
		chars[i] = model.Character{
			Name:      randomName(rng),
			Energy:    rollStat(rng, cfg),
			Fighting:  rollStat(rng, cfg),
			Strength:  rollStat(rng, cfg),
			Intellect: rollStat(rng, cfg),
			Threat:    1 + rng.Intn(cfg.MaxStat),
			Special:   rollSpecial(rng, cfg),
		}
	}

	return chars, nil
}

// randomName builds a unique lowercase name from the fragment pools with a
// short uuid suffix so duplicate-name catalog errors cannot occur.
func randomName(rng *rand.Rand) string {
	prefix := prefixes[rng.Intn(len(prefixes))]
	suffix := suffixes[rng.Intn(len(suffixes))]
	tag := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("%s_%s_%s", prefix, suffix, tag)
}

// rollStat pins a stat to the high or mid tier at the configured ratios,
// otherwise rolls uniformly up to MaxStat.
func rollStat(rng *rand.Rand, cfg *Config) int {
	roll := rng.Float64()
	switch {
	case roll < cfg.HighRatio:
		return cfg.HighValue
	case roll < cfg.HighRatio+cfg.MidRatio:
		return cfg.MidValue
	default:
		return rng.Intn(cfg.MaxStat + 1)
	}
}

func rollSpecial(rng *rand.Rand, cfg *Config) string {
	if rng.Float64() < cfg.ReserveRatio {
		return reserveSpecials[rng.Intn(len(reserveSpecials))]
	}
	return ordinarySpecials[rng.Intn(len(ordinarySpecials))]
}

// WriteCSV writes characters in the table format the CSV reader expects.
func WriteCSV(w io.Writer, chars []model.Character) error {
	writer := csv.NewWriter(w)

	header := []string{"Character"}
	for _, stat := range model.Stats() {
		header = append(header, string(stat))
	}
	header = append(header, "Special")
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for i := range chars {
		c := &chars[i]
		row := []string{
			c.Name,
			strconv.Itoa(c.Energy),
			strconv.Itoa(c.Fighting),
			strconv.Itoa(c.Strength),
			strconv.Itoa(c.Intellect),
			strconv.Itoa(c.Threat),
			c.Special,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing character %q: %w", c.Name, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
