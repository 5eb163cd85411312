package exporter

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// WriteWorkbook writes headers and records to a single-sheet xlsx file.
// Values are written as strings, matching the CSV output exactly.
func WriteWorkbook(path, sheet string, headers []string, records [][]string) error {
	if ext := filepath.Ext(path); ext != ".xlsx" {
		return fmt.Errorf("unsupported workbook extension %q", ext)
	}

	book := excelize.NewFile()
	defer book.Close()

	index, err := book.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	book.SetActiveSheet(index)
	if sheet != "Sheet1" {
		if err := book.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("remove default sheet: %w", err)
		}
	}

	writeRow := func(rowNum int, fields []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowNum)
		if err != nil {
			return err
		}
		row := make([]interface{}, len(fields))
		for i, f := range fields {
			row[i] = f
		}
		return book.SetSheetRow(sheet, cell, &row)
	}

	if err := writeRow(1, headers); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	for i, record := range records {
		if err := writeRow(i+2, record); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := book.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}
