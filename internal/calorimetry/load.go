package calorimetry

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Load validates a decoded table and turns it into a Dataset sorted by time.
// Phase labels are carried through untouched; Segment decides which ones count.
func Load(t Table) (*Dataset, error) {
	index := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	timeIdx, tempIdx, phaseIdx := index[ColumnTime], index[ColumnTemperature], index[ColumnPhase]

	readings := make([]Reading, 0, len(t.Rows))
	for n, row := range t.Rows {
		if blankRow(row) {
			continue
		}

		// Row numbers are reported 1-based and count the header line.
		line := n + 2

		tm, err := parseCell(row, timeIdx)
		if err != nil {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("row %d, column %q", line, ColumnTime), Err: err}
		}
		temp, err := parseCell(row, tempIdx)
		if err != nil {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("row %d, column %q", line, ColumnTemperature), Err: err}
		}

		readings = append(readings, Reading{
			Time:        tm,
			Temperature: temp,
			Phase:       Phase(cell(row, phaseIdx)),
		})
	}

	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Time < readings[j].Time
	})

	return &Dataset{Readings: readings}, nil
}

func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseCell(row []string, i int) (float64, error) {
	raw := strings.TrimSpace(cell(row, i))
	if raw == "" {
		return 0, fmt.Errorf("empty value")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", raw)
	}
	return v, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
