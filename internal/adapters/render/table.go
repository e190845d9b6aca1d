// Package render formats enumeration results as flat tables: one row per
// team, one column per roster slot, plus the primary-stat total.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/opteams/internal/domain/model"
)

// Output file permission.
const tableFilePermission = 0600

// Table is a column-aligned text rendering of a team list.
type Table struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTable flattens teams into display rows. Teams shorter than the widest
// roster leave their trailing slots blank.
func NewTable(teams []model.Team) *Table {
	maxMembers := 0
	for _, team := range teams {
		if len(team.Members) > maxMembers {
			maxMembers = len(team.Members)
		}
	}

	t := &Table{}
	for i := 1; i <= maxMembers; i++ {
		t.headers = append(t.headers, fmt.Sprintf("Character %d", i))
	}
	t.headers = append(t.headers, "Total")

	for _, team := range teams {
		row := make([]string, maxMembers+1)
		for i, member := range team.Members {
			row[i] = DisplayName(member)
		}
		row[maxMembers] = fmt.Sprintf("%d", team.Total)
		t.rows = append(t.rows, row)
	}

	t.widths = make([]int, len(t.headers))
	for i, h := range t.headers {
		t.widths[i] = len(h)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > t.widths[i] {
				t.widths[i] = len(cell)
			}
		}
	}

	return t
}

// Len returns the number of team rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Write renders the table: header, a full-width separator of '=', then one
// line per team. Name columns are left-aligned, the total right-aligned.
func (t *Table) Write(w io.Writer) error {
	header := t.formatRow(t.headers)
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("=", len(header))); err != nil {
		return err
	}
	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, t.formatRow(row)); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the table to a file.
func (t *Table) Save(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, tableFilePermission)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := t.Write(f); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// formatRow pads cells to column width; the last column is right-aligned.
func (t *Table) formatRow(cells []string) string {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		if i == len(cells)-1 {
			parts[i] = fmt.Sprintf("%*s", t.widths[i], cell)
		} else {
			parts[i] = fmt.Sprintf("%-*s", t.widths[i], cell)
		}
	}
	return strings.Join(parts, "  ")
}

// DisplayName renders a character for table output: underscores become
// spaces, words are title-cased, variant markers are stripped, and the
// four power stats plus any special text follow the name.
func DisplayName(c *model.Character) string {
	name := strings.ReplaceAll(c.Name, "_", " ")
	for _, marker := range []string{"(V)", "(v)", "(H)", "(h)"} {
		name = strings.ReplaceAll(name, marker, "")
	}
	name = titleCase(strings.TrimSpace(name))

	stats := fmt.Sprintf("[%d, %d, %d, %d]", c.Energy, c.Fighting, c.Strength, c.Intellect)
	if c.Special != "" {
		return fmt.Sprintf("%s %s (%s)", name, stats, c.Special)
	}
	return fmt.Sprintf("%s %s", name, stats)
}

// titleCase upper-cases the first letter of each space-separated word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}
