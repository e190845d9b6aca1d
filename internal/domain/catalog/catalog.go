// Package catalog builds the immutable character catalog used as the
// search universe for team enumeration.
package catalog

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/okian/opteams/internal/domain/model"
)

// RawRow is one unvalidated row handed over by a table reader. Stat values
// are kept as strings; parsing and validation happen here so every reader
// gets the same error behavior.
type RawRow struct {
	Line    int // source line, used in error messages (0 if unknown)
	Name    string
	Stats   map[string]string // stat name -> unparsed value
	Special string
}

// Catalog is an insertion-ordered, read-only collection of characters
// indexed by name. It is built once per run and never mutated afterwards.
type Catalog struct {
	records []model.Character
	byName  map[string]int
}

// New validates raw rows and builds a catalog. A single malformed row or
// duplicate name aborts the whole load; a partial catalog would silently
// drop characters from the search universe.
func New(rows []RawRow) (*Catalog, error) {
	c := &Catalog{
		records: make([]model.Character, 0, len(rows)),
		byName:  make(map[string]int, len(rows)),
	}

	for i := range rows {
		rec, err := parseRow(&rows[i])
		if err != nil {
			return nil, err
		}
		if _, exists := c.byName[rec.Name]; exists {
			return nil, fmt.Errorf("%s: %w: %q", rowRef(&rows[i]), ErrDuplicateName, rec.Name)
		}
		c.byName[rec.Name] = len(c.records)
		c.records = append(c.records, rec)
	}

	return c, nil
}

// parseRow converts a raw row into a character record.
func parseRow(row *RawRow) (model.Character, error) {
	name := strings.TrimSpace(row.Name)
	if name == "" {
		return model.Character{}, fmt.Errorf("%s: %w: empty character name", rowRef(row), ErrMalformedRecord)
	}

	rec := model.Character{
		Name:    name,
		Special: strings.TrimSpace(row.Special),
	}

	for _, stat := range model.Stats() {
		raw, ok := row.Stats[string(stat)]
		if !ok {
			return model.Character{}, fmt.Errorf("%s: %w: character %q missing stat %s", rowRef(row), ErrMalformedRecord, name, stat)
		}
		value, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return model.Character{}, fmt.Errorf("%s: %w: character %q stat %s is not numeric: %q", rowRef(row), ErrMalformedRecord, name, stat, raw)
		}
		if value < 0 {
			return model.Character{}, fmt.Errorf("%s: %w: character %q stat %s is negative: %d", rowRef(row), ErrMalformedRecord, name, stat, value)
		}
		setStat(&rec, stat, value)
	}

	return rec, nil
}

func setStat(rec *model.Character, stat model.StatName, value int) {
	switch stat {
	case model.StatEnergy:
		rec.Energy = value
	case model.StatFighting:
		rec.Fighting = value
	case model.StatStrength:
		rec.Strength = value
	case model.StatIntellect:
		rec.Intellect = value
	case model.StatThreat:
		rec.Threat = value
	}
}

// rowRef renders the row position for error messages.
func rowRef(row *RawRow) string {
	if row.Line > 0 {
		return fmt.Sprintf("line %d", row.Line)
	}
	return "row"
}

// Len returns the number of records in the catalog.
func (c *Catalog) Len() int {
	return len(c.records)
}

// All iterates the records in stable insertion order. The sequence is
// restartable; ranging over it twice yields the same records.
func (c *Catalog) All() iter.Seq[*model.Character] {
	return func(yield func(*model.Character) bool) {
		for i := range c.records {
			if !yield(&c.records[i]) {
				return
			}
		}
	}
}

// Record returns the record at position i in insertion order.
func (c *Catalog) Record(i int) *model.Character {
	return &c.records[i]
}

// Lookup finds a record by character name.
func (c *Catalog) Lookup(name string) (*model.Character, bool) {
	i, ok := c.byName[name]
	if !ok {
		return nil, false
	}
	return &c.records[i], true
}

// StatValue returns the value of the named stat for a record. Stat names
// are matched case-insensitively.
func (c *Catalog) StatValue(rec *model.Character, statName string) (int, error) {
	stat, ok := model.NormalizeStat(statName)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownStat, statName)
	}
	value, _ := rec.Stat(stat)
	return value, nil
}
