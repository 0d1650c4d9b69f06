package render

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/chrissnell/calorimetry/internal/calorimetry"
	chart "github.com/wcharczuk/go-chart/v2"
)

func analysis(t *testing.T, lastBC float64) *calorimetry.Analysis {
	t.Helper()
	tbl := calorimetry.Table{
		Columns: []string{"time", "temperature", "phase"},
		Rows: [][]string{
			{"0", "20", "AB"}, {"1", "20.1", "AB"}, {"2", "20.2", "AB"},
			{"3", "22", "BC"}, {"4", "27", "BC"}, {"5", "29", "BC"},
			{"6", strconv.FormatFloat(lastBC, 'f', -1, 64), "BC"},
			{"7", "29.8", "CD"}, {"8", "29.7", "CD"}, {"9", "29.6", "CD"},
		},
	}
	opts := calorimetry.ChartOptions{Title: "ΔT", XLabel: "Time (min)", YLabel: "Temperature (°C)"}
	a, err := calorimetry.NewAnalyzer(nil, opts).Analyze(tbl)
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	return a
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in       string
		expected Format
		wantErr  bool
	}{
		{"", FormatPNG, false},
		{"png", FormatPNG, false},
		{".PNG", FormatPNG, false},
		{"svg", FormatSVG, false},
		{"gif", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: unexpected error state %v", tt.in, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%q: expected %s, got %s", tt.in, tt.expected, got)
		}
	}
	if FormatSVG.ContentType() != "image/svg+xml" || FormatPNG.ContentType() != "image/png" {
		t.Error("unexpected content types")
	}
}

func TestChartSeries(t *testing.T) {
	a := analysis(t, 29.5)
	if !a.Result.Complete() {
		t.Fatalf("expected a crossing, got %s", a.Result.Status)
	}

	c := Chart(a.Chart, 800, 500)

	// measured + 2 baselines + 3 reference levels + EF segment + annotations
	if len(c.Series) != 8 {
		t.Fatalf("expected 8 series, got %d", len(c.Series))
	}
	an, ok := c.Series[7].(chart.AnnotationSeries)
	if !ok {
		t.Fatalf("expected annotation series last, got %T", c.Series[7])
	}
	if len(an.Annotations) != 2 || an.Annotations[0].Label != "E" || an.Annotations[1].Label != "F" {
		t.Errorf("unexpected annotations %+v", an.Annotations)
	}
	if c.Width != 800 || c.Height != 500 || c.Title != "ΔT" {
		t.Errorf("unexpected chart settings %dx%d %q", c.Width, c.Height, c.Title)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		prefix []byte
	}{
		{"png", FormatPNG, []byte("\x89PNG")},
		{"svg", FormatSVG, []byte("<svg")},
	}

	a := analysis(t, 29.5)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, a.Chart, Options{Format: tt.format, Width: 640, Height: 400}); err != nil {
				t.Fatalf("render failed: %v", err)
			}
			if !bytes.HasPrefix(bytes.TrimSpace(buf.Bytes()), tt.prefix) {
				t.Errorf("output does not start with %q: %q", tt.prefix, buf.Bytes()[:min(16, buf.Len())])
			}
		})
	}
}

func TestRenderWithoutCrossing(t *testing.T) {
	a := analysis(t, 29.5)
	a.Chart.Segments = nil
	a.Chart.Markers = nil

	var buf bytes.Buffer
	if err := Render(&buf, a.Chart, Options{Format: FormatSVG}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(buf.String(), "T_K") {
		t.Error("expected the T_K reference line in the legend")
	}
}

func TestRenderFlatRun(t *testing.T) {
	var rows [][]string
	for i, phase := range []string{"AB", "AB", "BC", "BC", "CD", "CD"} {
		rows = append(rows, []string{strconv.Itoa(i), "20", phase})
	}
	a, err := calorimetry.NewAnalyzer(nil, calorimetry.ChartOptions{}).Analyze(calorimetry.Table{
		Columns: []string{"time", "temperature", "phase"},
		Rows:    rows,
	})
	if err != nil {
		t.Fatalf("analysis failed: %v", err)
	}
	if !a.Result.Complete() || *a.Result.DeltaT != 0 {
		t.Fatalf("expected a complete run with ΔT 0, got %+v", a.Result)
	}

	c := Chart(a.Chart, 640, 400)
	if c.YAxis.Range == nil {
		t.Fatal("expected an explicit Y range for flat data")
	}
	if lo, hi := c.YAxis.Range.GetMin(), c.YAxis.Range.GetMax(); lo != 19.5 || hi != 20.5 {
		t.Errorf("expected Y range [19.5, 20.5], got [%v, %v]", lo, hi)
	}

	done := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		done <- Render(&buf, a.Chart, Options{Format: FormatPNG, Width: 640, Height: 400})
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("render failed: %v", err)
		}
	case <-time.After(30 * time.Second):
		t.Fatal("rendering flat data did not finish")
	}
}

func TestChartKeepsAutoRangeForSpreadData(t *testing.T) {
	c := Chart(analysis(t, 29.5).Chart, 640, 400)
	if c.YAxis.Range != nil {
		t.Errorf("expected go-chart to pick the Y range, got %+v", c.YAxis.Range)
	}
}
