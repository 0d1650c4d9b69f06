package ingest

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
)

func decodeCSV(data []byte) (calorimetry.Table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return calorimetry.Table{}, err
	}

	return tableFromRows(rows)
}

// sniffDelimiter picks ';' or a tab over ',' when the header line uses it.
// Spreadsheets exported in locales with a decimal comma write semicolons.
func sniffDelimiter(data []byte) rune {
	header, _, _ := strings.Cut(string(data), "\n")
	best, count := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(header, string(d)); n > count {
			best, count = d, n
		}
	}
	return best
}
