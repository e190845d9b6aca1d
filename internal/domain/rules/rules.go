// Package rules defines the constraint configuration for one enumeration
// run: the target rank total, tier minimums, and the reserve-eligibility
// predicate applied to ability text.
package rules

import (
	"fmt"
	"strings"

	"github.com/okian/opteams/internal/domain/model"
)

// Default constraint values. These match the classic ruleset: a 16-rank
// team with three level-8 characters and one level-7/8 character.
const (
	DefaultTargetTotal   = 16
	DefaultHighTierValue = 8
	DefaultMidTierValue  = 7
	DefaultMinHighTier   = 3
	DefaultMinMidTier    = 1
	DefaultMaxTeamSize   = 7
)

// Predicate decides whether a character's special-ability text allows it to
// enter play from reserve. Swappable so the matching rule can be tightened
// without touching the search.
type Predicate func(special string) bool

// Set is the fixed constraint configuration for one enumeration run.
// Immutable for the duration of a run.
type Set struct {
	// PrimaryStat is the stat whose values must sum to TargetTotal.
	PrimaryStat string

	// TargetTotal is the exact primary-stat sum a team must reach.
	TargetTotal int

	// HighTierValue and MidTierValue are exact-match tier classifications:
	// a member is high tier only when its primary-stat value equals
	// HighTierValue, never merely exceeds it.
	HighTierValue int
	MidTierValue  int

	// MinHighTier is the minimum number of high-tier members. MinMidTier
	// members at mid or high tier are required in addition to those.
	MinHighTier int
	MinMidTier  int

	// MaxTeamSize bounds the roster.
	MaxTeamSize int

	// MaxCombinedTotal caps the sum of all four power stats across the
	// team. Zero disables the cap.
	MaxCombinedTotal int

	// Reserve tests reserve eligibility. Nil falls back to NonEmptySpecial.
	Reserve Predicate
}

// Defaults returns a Set for the given primary stat with the classic
// default constraints and the NonEmptySpecial reserve rule.
func Defaults(primaryStat string) Set {
	return Set{
		PrimaryStat:   primaryStat,
		TargetTotal:   DefaultTargetTotal,
		HighTierValue: DefaultHighTierValue,
		MidTierValue:  DefaultMidTierValue,
		MinHighTier:   DefaultMinHighTier,
		MinMidTier:    DefaultMinMidTier,
		MaxTeamSize:   DefaultMaxTeamSize,
		Reserve:       NonEmptySpecial,
	}
}

// Validate reports whether the set can drive a search. All violations are
// configuration mistakes and surface as ErrInvalidRuleSet.
func (s Set) Validate() error {
	if _, ok := model.NormalizeStat(s.PrimaryStat); !ok {
		return fmt.Errorf("%w: unrecognized primary stat %q", ErrInvalidRuleSet, s.PrimaryStat)
	}
	if s.TargetTotal <= 0 {
		return fmt.Errorf("%w: target total must be positive, got %d", ErrInvalidRuleSet, s.TargetTotal)
	}
	if s.MinHighTier < 0 || s.MinMidTier < 0 {
		return fmt.Errorf("%w: tier counts must be non-negative", ErrInvalidRuleSet)
	}
	if s.MaxTeamSize < 1 {
		return fmt.Errorf("%w: max team size must be at least 1, got %d", ErrInvalidRuleSet, s.MaxTeamSize)
	}
	if s.MinHighTier+s.MinMidTier > s.MaxTeamSize {
		return fmt.Errorf("%w: tier counts %d+%d exceed max team size %d",
			ErrInvalidRuleSet, s.MinHighTier, s.MinMidTier, s.MaxTeamSize)
	}
	if s.MaxCombinedTotal < 0 {
		return fmt.Errorf("%w: combined total cap must be non-negative, got %d", ErrInvalidRuleSet, s.MaxCombinedTotal)
	}
	return nil
}

// ReservePredicate returns the effective reserve rule for the set.
func (s Set) ReservePredicate() Predicate {
	if s.Reserve != nil {
		return s.Reserve
	}
	return NonEmptySpecial
}

// NonEmptySpecial is the loosest reserve rule: any character with special-
// ability text at all may enter play from reserve.
func NonEmptySpecial(special string) bool {
	return strings.TrimSpace(special) != ""
}

// KeywordPredicate builds a reserve rule matching any of the given keywords
// as a case-insensitive substring of the ability text. An empty keyword
// list degrades to NonEmptySpecial. The qualifying phrase set is content,
// not algorithm, so it stays in configuration.
func KeywordPredicate(keywords []string) Predicate {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	if len(lowered) == 0 {
		return NonEmptySpecial
	}
	return func(special string) bool {
		text := strings.ToLower(special)
		for _, kw := range lowered {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}
