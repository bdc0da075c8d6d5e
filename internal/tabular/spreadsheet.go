package tabular

import (
	"bytes"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/fintrack-dev/fintrack/internal/model"
)

// parseXLSX reads the first sheet of an .xlsx workbook.
func parseXLSX(data []byte) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("opening xlsx: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptyFile
	}

	grid, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rowsFromGrid(grid)
}

// parseXLS reads the first sheet of a legacy .xls workbook.
func parseXLS(data []byte) ([]model.RawRow, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("opening xls: %w", err)
	}
	if wb.NumSheets() == 0 {
		return nil, ErrEmptyFile
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, ErrEmptyFile
	}

	var grid [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}
		var cells []string
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}
		grid = append(grid, cells)
	}
	return rowsFromGrid(grid)
}
