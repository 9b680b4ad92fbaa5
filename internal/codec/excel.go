package codec

import (
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/dataveil/dataveil/internal/table"
)

// ReadXLSX loads the first sheet of a modern workbook
func ReadXLSX(path string) (*table.Table, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return table.New(nil, nil), nil
	}

	return table.New(rows[0], rows[1:]), nil
}

// WriteXLSX persists a table as a single-sheet modern workbook
func WriteXLSX(path string, t *table.Table) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)

	if err := writeSheetRow(file, sheet, 1, t.Headers()); err != nil {
		return err
	}
	for i, row := range t.Rows() {
		if err := writeSheetRow(file, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// writeSheetRow writes one row of string cells at the 1-based row number
func writeSheetRow(file *excelize.File, sheet string, row int, cells []string) error {
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to build cell reference: %w", err)
	}

	values := make([]interface{}, len(cells))
	for i, cell := range cells {
		values[i] = cell
	}

	if err := file.SetSheetRow(sheet, ref, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

// ReadXLS loads the first sheet of a legacy binary workbook. The legacy
// format is read-only; anonymized output goes out as XLSX instead.
func ReadXLS(path string) (*table.Table, error) {
	workbook, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("failed to open legacy workbook: %w", err)
	}

	sheet := workbook.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("legacy workbook %s has no sheets", path)
	}

	var records [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			records = append(records, nil)
			continue
		}

		var cells []string
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		records = append(records, cells)
	}

	if len(records) == 0 {
		return table.New(nil, nil), nil
	}

	return table.New(records[0], records[1:]), nil
}
