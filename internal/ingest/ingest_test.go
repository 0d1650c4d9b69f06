package ingest

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename    string
		contentType string
		expected    Format
		wantErr     bool
	}{
		{"run1.xlsx", "", FormatXLSX, false},
		{"RUN1.XLSX", "application/octet-stream", FormatXLSX, false},
		{"data.csv", "", FormatCSV, false},
		{"data.json", "", FormatJSON, false},
		{"", "text/csv; charset=utf-8", FormatCSV, false},
		{"", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", FormatXLSX, false},
		{"", "application/json", FormatJSON, false},
		{"data.xls", "", "", true},
		{"", "image/png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename+"|"+tt.contentType, func(t *testing.T) {
			got, err := DetectFormat(tt.filename, tt.contentType)
			if tt.wantErr {
				var mie *calorimetry.MalformedInputError
				if !errors.As(err, &mie) {
					t.Fatalf("expected MalformedInputError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestDecodeCSV(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"comma", "time,temperature,phase\n0,20,AB\n1,20.5,AB\n"},
		{"semicolon", "time;temperature;phase\n0;20;AB\n1;20.5;AB\n"},
		{"leading blank line", "\ntime, temperature, phase\n0, 20, AB\n1, 20.5, AB\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := Decode(strings.NewReader(tt.input), FormatCSV, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(tbl.Columns) != 3 || tbl.Columns[1] != "temperature" {
				t.Fatalf("unexpected header %q", tbl.Columns)
			}
			if len(tbl.Rows) != 2 || tbl.Rows[1][1] != "20.5" {
				t.Errorf("unexpected rows %q", tbl.Rows)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	input := `[
		{"time": 0, "temperature": 20, "phase": "AB"},
		{"time": 1, "phase": "AB", "temperature": 20.25, "note": "stir"}
	]`

	tbl, err := Decode(strings.NewReader(input), FormatJSON, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"time", "temperature", "phase", "note"}
	if strings.Join(tbl.Columns, ",") != strings.Join(want, ",") {
		t.Fatalf("expected columns %v, got %v", want, tbl.Columns)
	}
	if tbl.Rows[0][3] != "" || tbl.Rows[1][3] != "stir" {
		t.Errorf("unexpected note cells %q", tbl.Rows)
	}
	if tbl.Rows[1][1] != "20.25" {
		t.Errorf("expected temperature 20.25, got %q", tbl.Rows[1][1])
	}
}

func TestDecodeJSONColumnOrderIgnoresValues(t *testing.T) {
	// "temperature" and "time" appear as string values before they appear as keys.
	input := `[
		{"note": "temperature", "label": "time", "phase": "AB", "time": 0, "temperature": 20},
		{"phase": "AB", "time": 1, "time": 2, "temperature": 20.5}
	]`

	tbl, err := Decode(strings.NewReader(input), FormatJSON, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"note", "label", "phase", "time", "temperature"}
	if strings.Join(tbl.Columns, ",") != strings.Join(want, ",") {
		t.Fatalf("expected columns %v, got %v", want, tbl.Columns)
	}
	if tbl.Rows[0][0] != "temperature" || tbl.Rows[0][4] != "20" {
		t.Errorf("unexpected first row %q", tbl.Rows[0])
	}
	// The last value of a repeated key wins.
	if tbl.Rows[1][3] != "2" || tbl.Rows[1][0] != "" {
		t.Errorf("unexpected second row %q", tbl.Rows[1])
	}
}

func TestDecodeXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]any{
		{"phase", "time", "temperature"},
		{"AB", 0, 20.0},
		{"AB", 1, 20.1},
		{"BC", 2, 24.5},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()

	tbl, err := Decode(bytes.NewReader(data), FormatXLSX, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tbl.Columns[0] != "phase" || len(tbl.Rows) != 3 {
		t.Fatalf("unexpected table %+v", tbl)
	}
	if tbl.Rows[2][2] != "24.5" {
		t.Errorf("expected 24.5, got %q", tbl.Rows[2][2])
	}

	ds, err := calorimetry.Load(tbl)
	if err != nil {
		t.Fatalf("decoded workbook did not load: %v", err)
	}
	if len(ds.Readings) != 3 {
		t.Errorf("expected 3 readings, got %d", len(ds.Readings))
	}

	_, err = Decode(bytes.NewReader(data), FormatXLSX, Options{Sheet: "Missing"})
	var mie *calorimetry.MalformedInputError
	if !errors.As(err, &mie) {
		t.Errorf("expected MalformedInputError for unknown sheet, got %v", err)
	}
}

func TestDecodeXLSXIgnoresNumberFormats(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	cells := map[string]any{
		"A1": "time", "B1": "temperature", "C1": "phase",
		"A2": 0.25, "B2": 20.16, "C2": "AB",
		"A3": 1250.5, "B3": 20.24, "C3": "AB",
	}
	for cell, v := range cells {
		if err := f.SetCellValue("Sheet1", cell, v); err != nil {
			t.Fatal(err)
		}
	}

	oneDecimal := "0.0"
	tempStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &oneDecimal})
	if err != nil {
		t.Fatal(err)
	}
	// Built-in format 4 is #,##0.00
	timeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle("Sheet1", "B2", "B3", tempStyle); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle("Sheet1", "A2", "A3", timeStyle); err != nil {
		t.Fatal(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	tbl, err := Decode(bytes.NewReader(buf.Bytes()), FormatXLSX, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ds, err := calorimetry.Load(tbl)
	if err != nil {
		t.Fatalf("formatted workbook did not load: %v", err)
	}

	expected := []calorimetry.Reading{
		{Time: 0.25, Temperature: 20.16, Phase: calorimetry.PhaseAB},
		{Time: 1250.5, Temperature: 20.24, Phase: calorimetry.PhaseAB},
	}
	if len(ds.Readings) != len(expected) {
		t.Fatalf("expected %d readings, got %d", len(expected), len(ds.Readings))
	}
	for i, want := range expected {
		if ds.Readings[i] != want {
			t.Errorf("reading %d: expected %+v, got %+v", i, want, ds.Readings[i])
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		format Format
		opts   Options
		tooBig bool
	}{
		{"empty", "   \n", FormatCSV, Options{}, false},
		{"corrupt workbook", "definitely not a zip file", FormatXLSX, Options{}, false},
		{"json object", `{"time": 1}`, FormatJSON, Options{}, false},
		{"nested json", `[{"time": {"v": 1}}]`, FormatJSON, Options{}, false},
		{"json array of numbers", `[1, 2]`, FormatJSON, Options{}, false},
		{"unbalanced quote", "time,temperature,phase\n\"0,20,AB\n", FormatCSV, Options{}, false},
		{"too large", "time,temperature,phase\n0,20,AB\n", FormatCSV, Options{MaxBytes: 8}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), tt.format, tt.opts)
			var mie *calorimetry.MalformedInputError
			if !errors.As(err, &mie) {
				t.Fatalf("expected MalformedInputError, got %v", err)
			}
			if tt.tooBig != errors.Is(err, ErrTooLarge) {
				t.Errorf("ErrTooLarge mismatch: %v", err)
			}
		})
	}
}
