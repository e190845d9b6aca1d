// Package tabular reads character tables from external storage formats.
// Readers only shape rows; stat parsing and validation belong to the
// catalog so every source format gets identical error behavior.
package tabular

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/okian/opteams/internal/domain/catalog"
	"github.com/okian/opteams/internal/domain/model"
)

// Column headers expected in a character CSV.
const (
	ColumnName    = "Character"
	ColumnSpecial = "Special"
)

// CSVReader reads character rows from CSV format.
// Expected columns: Character, Energy, Fighting, Strength, Intellect,
// Threat, Special.
type CSVReader struct{}

// Read consumes CSV from the reader and returns raw catalog rows.
func (r *CSVReader) Read(src io.Reader) ([]catalog.RawRow, error) {
	reader := csv.NewReader(src)

	colIndex, err := r.readHeader(reader)
	if err != nil {
		return nil, err
	}

	return r.readRows(reader, colIndex)
}

// readHeader reads and validates the CSV header row.
func (r *CSVReader) readHeader(reader *csv.Reader) (map[string]int, error) {
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[col] = i
	}

	required := []string{ColumnName}
	for _, stat := range model.Stats() {
		required = append(required, string(stat))
	}
	for _, col := range required {
		if _, ok := colIndex[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return colIndex, nil
}

// readRows reads all data rows and converts them to raw catalog rows.
func (r *CSVReader) readRows(reader *csv.Reader, colIndex map[string]int) ([]catalog.RawRow, error) {
	var rows []catalog.RawRow
	lineNum := 1 // header is line 1

	for {
		lineNum++
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}

		row := catalog.RawRow{
			Line:    lineNum,
			Name:    getColumn(record, colIndex, ColumnName),
			Special: getColumn(record, colIndex, ColumnSpecial),
			Stats:   make(map[string]string, len(model.Stats())),
		}
		for _, stat := range model.Stats() {
			row.Stats[string(stat)] = getColumn(record, colIndex, string(stat))
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// getColumn safely retrieves a column value from a record.
func getColumn(record []string, colIndex map[string]int, col string) string {
	if idx, ok := colIndex[col]; ok && idx < len(record) {
		return record[idx]
	}
	return ""
}
