package importer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Keywords"

// WriteTemplate writes a sample keyword upload spreadsheet to path.
func WriteTemplate(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	rows := [][]string{
		{"keyword", "city"},
		{"pizza restaurant", "Toronto"},
		{"sushi bar", "Vancouver"},
		{"coffee shop", ""},
	}
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if setErr := f.SetCellValue(templateSheet, cell, value); setErr != nil {
				return fmt.Errorf("set cell %s: %w", cell, setErr)
			}
		}
	}

	if _, err := f.NewSheet("Instructions"); err != nil {
		return fmt.Errorf("create instructions sheet: %w", err)
	}
	instructions := []string{
		"Column Descriptions:",
		"",
		"keyword - Required. Search phrase to scrape",
		"city - Optional. Locality appended to the search",
		"",
		"Upload modes:",
		"add - insert keywords not already tracked (default)",
		"sync - reconcile a refreshed master list; never deletes",
		"replace - delete everything first; requires confirmation",
	}
	for i, line := range instructions {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if setErr := f.SetCellValue("Instructions", cell, line); setErr != nil {
			return fmt.Errorf("set cell %s: %w", cell, setErr)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save template: %w", err)
	}
	return nil
}
