package ingest

import (
	"bytes"
	"fmt"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	"github.com/xuri/excelize/v2"
)

func decodeXLSX(data []byte, sheet string) (calorimetry.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return calorimetry.Table{}, err
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: fmt.Sprintf("workbook has no sheet named %q", sheet)}
	}

	// Raw values keep number formats from rounding or grouping the stored numbers.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return calorimetry.Table{}, err
	}

	return tableFromRows(rows)
}

// tableFromRows treats the first non-blank row as the header
func tableFromRows(rows [][]string) (calorimetry.Table, error) {
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		return calorimetry.Table{Columns: row, Rows: rows[i+1:]}, nil
	}
	return calorimetry.Table{}, &calorimetry.MalformedInputError{Reason: "no header row found"}
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
