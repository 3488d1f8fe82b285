// Package bulkimport turns tabular district/village input into persisted
// districts and villages.
//
// The pipeline is ReadCSV (or any other grid source) -> ParseRows ->
// GroupRows -> Engine.Run, with Import wiring the steps together.
package bulkimport

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row is one accepted (district, village) pair.
type Row struct {
	District string
	Village  string
}

type ParseOptions struct {
	// SkipHeader drops the first grid row before parsing.
	SkipHeader bool
}

// ParseRows trims column 0 and column 1 of every grid row and keeps the row
// only when both are non-empty. Other rows are dropped without error.
func ParseRows(grid [][]string, opts ParseOptions) []Row {
	if opts.SkipHeader && len(grid) > 0 {
		grid = grid[1:]
	}
	rows := make([]Row, 0, len(grid))
	for _, cells := range grid {
		if len(cells) < 2 {
			continue
		}
		district := strings.TrimSpace(cells[0])
		village := strings.TrimSpace(cells[1])
		if district == "" || village == "" {
			continue
		}
		rows = append(rows, Row{District: district, Village: village})
	}
	return rows
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadCSV reads newline separated rows of comma separated cells. Each line is
// tokenized on its own, so a stray quote only affects its own row. One
// surrounding pair of double quotes is stripped from a cell, rows may have any
// number of cells, blank lines are skipped and a leading UTF-8 BOM is ignored.
func ReadCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	var grid [][]string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		grid = append(grid, splitLine(line))
	}
	return grid, nil
}

// splitLine parses one line as a CSV record. Lines the csv reader rejects
// fall back to a plain comma split with quotes trimmed from each cell.
func splitLine(line string) []string {
	reader := csv.NewReader(strings.NewReader(line))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	if record, err := reader.Read(); err == nil {
		return record
	}

	cells := strings.Split(line, ",")
	for i, cell := range cells {
		cell = strings.TrimSpace(cell)
		cell = strings.TrimPrefix(cell, `"`)
		cells[i] = strings.TrimSuffix(cell, `"`)
	}
	return cells
}

// ParseCSVText is ReadCSV followed by ParseRows.
func ParseCSVText(text string, opts ParseOptions) ([]Row, error) {
	grid, err := ReadCSV(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	return ParseRows(grid, opts), nil
}
