// Package excel builds styled spreadsheet exports with excelize.
package excel

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet describes one tabular export: a title row, a styled header row, data
// rows and an optional totals row appended at the bottom.
type Sheet struct {
	Name    string
	Title   string
	Headers []string
	Rows    [][]interface{}
	Totals  []interface{}
}

// Build renders the sheet into xlsx bytes
func Build(sheet Sheet) ([]byte, error) {
	if sheet.Name == "" {
		sheet.Name = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet.Name); err != nil {
		return nil, err
	}

	row := 1
	if sheet.Title != "" {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheet.Name, cell, sheet.Title); err != nil {
			return nil, err
		}
		titleStyle, err := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true, Size: 14},
		})
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet.Name, cell, cell, titleStyle); err != nil {
			return nil, err
		}
		row += 2
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	headerRow := row
	for col, h := range sheet.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, headerRow)
		if err := f.SetCellValue(sheet.Name, cell, h); err != nil {
			return nil, err
		}
	}
	if len(sheet.Headers) > 0 {
		first, _ := excelize.CoordinatesToCellName(1, headerRow)
		last, _ := excelize.CoordinatesToCellName(len(sheet.Headers), headerRow)
		if err := f.SetCellStyle(sheet.Name, first, last, headerStyle); err != nil {
			return nil, err
		}
	}
	row++

	for _, dataRow := range sheet.Rows {
		for col, value := range dataRow {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return nil, err
			}
		}
		row++
	}

	if len(sheet.Totals) > 0 {
		totalStyle, err := f.NewStyle(&excelize.Style{
			Font:   &excelize.Font{Bold: true},
			Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
		})
		if err != nil {
			return nil, err
		}
		for col, value := range sheet.Totals {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
				return nil, err
			}
		}
		first, _ := excelize.CoordinatesToCellName(1, row)
		last, _ := excelize.CoordinatesToCellName(len(sheet.Totals), row)
		if err := f.SetCellStyle(sheet.Name, first, last, totalStyle); err != nil {
			return nil, err
		}
	}

	// Widen columns to a readable default
	if len(sheet.Headers) > 0 {
		firstCol, _ := excelize.ColumnNumberToName(1)
		lastCol, _ := excelize.ColumnNumberToName(len(sheet.Headers))
		if err := f.SetColWidth(sheet.Name, firstCol, lastCol, 18); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
