package writer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const procurementSheet = "采购明细"

// CSVToExcel converts an exported CSV into an XLSX workbook the purchasing
// team can open directly: header row frozen, column widths sized to content.
func CSVToExcel(csvPath, xlsxPath string) error {
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		return fmt.Errorf("reading CSV %s: %w", csvPath, err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)

	records, err := csv.NewReader(bytes.NewReader(raw)).ReadAll()
	if err != nil {
		return fmt.Errorf("parsing CSV %s: %w", csvPath, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", procurementSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	colWidths := make(map[int]float64)
	for r, row := range records {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("cell name for row %d col %d: %w", r+1, c+1, err)
			}
			if err := f.SetCellValue(procurementSheet, cell, value); err != nil {
				return fmt.Errorf("setting cell %s: %w", cell, err)
			}
			if w := float64(utf8.RuneCountInString(value)); w > colWidths[c] {
				colWidths[c] = w
			}
		}
	}

	// freeze the header row
	if err := f.SetPanes(procurementSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header row: %w", err)
	}

	for c, width := range colWidths {
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("column name for %d: %w", c+1, err)
		}
		if width+2 > 40 {
			width = 38
		}
		if err := f.SetColWidth(procurementSheet, name, name, width+2); err != nil {
			return fmt.Errorf("setting width for column %s: %w", name, err)
		}
	}

	if err := f.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("saving workbook %s: %w", xlsxPath, err)
	}

	return nil
}
