// Package spreadsheet detects uploaded tabular files and reads them into
// string grids.
package spreadsheet

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: expected CSV or XLSX")

// Detect sniffs data, using the file name only to disambiguate generic zip archives.
func Detect(name string, data []byte) (Format, error) {
	if len(data) == 0 {
		return FormatCSV, nil
	}
	mt := mimetype.Detect(data)
	switch {
	case mt.Is(xlsxMIME):
		return FormatXLSX, nil
	case isZip(mt) && strings.EqualFold(filepath.Ext(name), ".xlsx"):
		return FormatXLSX, nil
	case strings.HasPrefix(mt.String(), "text/"):
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w (detected %s)", ErrUnsupportedFormat, mt.String())
}

func isZip(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/zip") {
			return true
		}
	}
	return false
}

// ReadXLSX returns every row of the first sheet. Short rows are kept as-is.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// WriteXLSX writes header and rows into a single-sheet workbook.
func WriteXLSX(w io.Writer, sheet string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return err
		}
	}

	line := 1
	if len(header) > 0 {
		if err := setRow(f, sheet, line, header); err != nil {
			return err
		}
		line++
	}
	for _, row := range rows {
		if err := setRow(f, sheet, line, row); err != nil {
			return err
		}
		line++
	}
	_, err := f.WriteTo(w)
	return err
}

func setRow(f *excelize.File, sheet string, line int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, line)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

// ReadGrid detects the format and returns the grid for XLSX uploads. CSV input
// is returned as raw text so the caller can apply its own tokenizer.
func ReadGrid(name string, data []byte) (Format, [][]string, error) {
	format, err := Detect(name, data)
	if err != nil {
		return "", nil, err
	}
	if format == FormatCSV {
		return format, nil, nil
	}
	grid, err := ReadXLSX(bytes.NewReader(data))
	return format, grid, err
}
