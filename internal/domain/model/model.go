// Package model contains domain models passed between layers.
package model

import "strings"

// StatName identifies one of the recognized power-stat columns.
type StatName string

// Recognized stats, in canonical column order.
const (
	StatEnergy    StatName = "Energy"
	StatFighting  StatName = "Fighting"
	StatStrength  StatName = "Strength"
	StatIntellect StatName = "Intellect"
	StatThreat    StatName = "Threat"
)

// Stats returns the recognized stat names in canonical order.
func Stats() []StatName {
	return []StatName{StatEnergy, StatFighting, StatStrength, StatIntellect, StatThreat}
}

// NormalizeStat resolves a stat name case-insensitively.
// Returns false if the name is not one of the recognized stats.
func NormalizeStat(name string) (StatName, bool) {
	trimmed := strings.TrimSpace(name)
	for _, s := range Stats() {
		if strings.EqualFold(trimmed, string(s)) {
			return s, true
		}
	}
	return "", false
}

// Character represents one row of the source table.
// Characters are constructed once at catalog load and immutable thereafter.
type Character struct {
	Name      string // unique within a catalog
	Energy    int
	Fighting  int
	Strength  int
	Intellect int
	Threat    int
	Special   string // free-text ability description, may be empty
}

// Stat returns the value of the named stat.
// Returns false if the name is not one of the recognized stats.
func (c *Character) Stat(name StatName) (int, bool) {
	switch name {
	case StatEnergy:
		return c.Energy, true
	case StatFighting:
		return c.Fighting, true
	case StatStrength:
		return c.Strength, true
	case StatIntellect:
		return c.Intellect, true
	case StatThreat:
		return c.Threat, true
	default:
		return 0, false
	}
}

// PowerTotal returns the sum of the four power stats. The combined-total
// team cap is computed over this value, not over Threat.
func (c *Character) PowerTotal() int {
	return c.Energy + c.Fighting + c.Strength + c.Intellect
}

// Team is one valid combination of characters. Members reference catalog
// records and are listed in catalog order; identity is member-set equality.
type Team struct {
	Members []*Character
	Total   int // primary-stat total across members
}

// Names returns the member names in catalog order.
func (t Team) Names() []string {
	names := make([]string, len(t.Members))
	for i, m := range t.Members {
		names[i] = m.Name
	}
	return names
}

// Key returns a canonical identity string for the team, suitable for
// detecting duplicate member sets.
func (t Team) Key() string {
	return strings.Join(t.Names(), "|")
}

// CombinedPowerTotal returns the sum of every member's four power stats.
func (t Team) CombinedPowerTotal() int {
	total := 0
	for _, m := range t.Members {
		total += m.PowerTotal()
	}
	return total
}
