package workbook

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet is one tab of a workbook: a name plus its row matrix.
type Sheet struct {
	Name string
	Rows [][]any
}

// Encoder turns an ordered set of sheets into a binary workbook.
// The encoding format is opaque to the rest of the system.
type Encoder interface {
	Encode(sheets []Sheet) ([]byte, error)
}

// XLSXEncoder encodes sheets as an Office Open XML workbook.
type XLSXEncoder struct{}

// Encode writes each sheet's rows starting at A1 and returns the serialized
// workbook. Sheet order in the file follows the order of the input.
func (XLSXEncoder) Encode(sheets []Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for _, s := range sheets {
		if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("workbook: create sheet %q: %w", s.Name, err)
		}
		cell := "A1"
		for _, row := range s.Rows {
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				return nil, fmt.Errorf("workbook: write row in %q: %w", s.Name, err)
			}
			col, rowIdx, err := excelize.CellNameToCoordinates(cell)
			if err != nil {
				return nil, fmt.Errorf("workbook: advance cursor in %q: %w", s.Name, err)
			}
			cell, err = excelize.CoordinatesToCellName(col, rowIdx+1)
			if err != nil {
				return nil, fmt.Errorf("workbook: advance cursor in %q: %w", s.Name, err)
			}
		}
	}

	// Drop the default sheet excelize creates, unless a caller sheet reused
	// its name.
	if len(sheets) > 0 {
		if idx, err := f.GetSheetIndex("Sheet1"); err == nil && idx != -1 && !hasSheet(sheets, "Sheet1") {
			if err := f.DeleteSheet("Sheet1"); err != nil {
				return nil, fmt.Errorf("workbook: delete default sheet: %w", err)
			}
		}
		if idx, err := f.GetSheetIndex(sheets[0].Name); err == nil && idx != -1 {
			f.SetActiveSheet(idx)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("workbook: serialize: %w", err)
	}
	return buf.Bytes(), nil
}

func hasSheet(sheets []Sheet, name string) bool {
	for _, s := range sheets {
		if s.Name == name {
			return true
		}
	}
	return false
}
