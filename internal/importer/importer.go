// Package importer parses uploaded keyword files (xlsx or csv) into rows
// for ingestion. Rows failing validation are rejected individually; the
// rest of the file still imports.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jonesrussell/mapscraper/internal/models"
)

// ErrNoKeywordColumn is returned when the header row lacks a keyword
// column.
var ErrNoKeywordColumn = errors.New("invalid file format: must have a 'keyword' column")

// ErrUnsupportedFormat is returned for file extensions other than
// .xlsx/.xlsm/.csv.
var ErrUnsupportedFormat = errors.New("unsupported file format: use .xlsx or .csv")

// RowError records why one row was rejected.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result is the outcome of parsing one file. Rows are deduplicated within
// the file before the repository sees them.
type Result struct {
	Rows       []models.KeywordRow
	Rejected   []RowError
	TotalRows  int // data rows in the file, excluding the header
	Duplicates int // in-file duplicates dropped
}

// ParseFile dispatches on the file extension.
func ParseFile(filename string, r io.Reader) (*Result, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseExcel(r)
	case ".csv":
		return ParseCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseExcel reads keyword rows from the first sheet of an xlsx file.
func ParseExcel(r io.Reader) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	return parseRows(rows)
}

// ParseCSV reads keyword rows from a comma-separated file.
func ParseCSV(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine, cells default empty
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return parseRows(records)
}

// parseRows interprets the first row as a header and extracts the keyword
// and optional city columns, case-insensitive on header names.
func parseRows(rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoKeywordColumn
	}

	keywordCol, cityCol := -1, -1
	for i, header := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "keyword", "keywords", "text":
			if keywordCol == -1 {
				keywordCol = i
			}
		case "city":
			if cityCol == -1 {
				cityCol = i
			}
		}
	}
	if keywordCol == -1 {
		return nil, ErrNoKeywordColumn
	}

	result := &Result{}
	seen := make(map[models.KeywordRow]struct{})

	for i, row := range rows[1:] {
		result.TotalRows++
		rowNum := i + 2 // 1-based, after the header

		text := cell(row, keywordCol)
		if text == "" {
			result.Rejected = append(result.Rejected, RowError{
				Row:    rowNum,
				Reason: "keyword is required",
			})
			continue
		}

		kr := models.KeywordRow{
			Text: text,
			City: cell(row, cityCol),
		}
		if _, dup := seen[kr]; dup {
			result.Duplicates++
			continue
		}
		seen[kr] = struct{}{}
		result.Rows = append(result.Rows, kr)
	}

	return result, nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
