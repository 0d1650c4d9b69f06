package calorimetry

// ChartOptions carries the presentation text of a chart
type ChartOptions struct {
	Title  string
	XLabel string
	YLabel string
}

// ChartSpec describes the annotated ΔT chart as data. Rendering it is up to
// the caller.
type ChartSpec struct {
	Title      string        `json:"title"`
	XLabel     string        `json:"x_label"`
	YLabel     string        `json:"y_label"`
	Series     []Series      `json:"series"`
	References []RefLine     `json:"references"`
	Segments   []LineSegment `json:"segments,omitempty"`
	Markers    []Marker      `json:"markers,omitempty"`
	XRange     [2]float64    `json:"x_range"`
}

// Series is a polyline through (X[i], Y[i])
type Series struct {
	Name  string    `json:"name"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Style Style     `json:"style"`
}

// RefLine is a horizontal reference level spanning the chart's time range
type RefLine struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Style Style   `json:"style"`
}

// LineSegment is a straight line between two points
type LineSegment struct {
	Label string  `json:"label"`
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Style Style   `json:"style"`
}

// Marker is a labelled point
type Marker struct {
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
}

// Style is a rendering hint
type Style struct {
	Color  string `json:"color"`
	Dashed bool   `json:"dashed,omitempty"`
	Dotted bool   `json:"dotted,omitempty"`
	Points bool   `json:"points,omitempty"`
}

// Colors used in style hints
const (
	ColorBlack = "black"
	ColorBlue  = "blue"
	ColorRed   = "red"
	ColorGray  = "gray"
)

// BuildChart describes the measured curve, both extrapolated baselines, the
// T_B/T_K/T_C reference levels and, when a crossing exists, the EF segment at t_L.
func BuildChart(p *Phases, s *Solution, opts ChartOptions) ChartSpec {
	measured := p.Measured()
	b := s.Boundary

	spec := ChartSpec{
		Title:  opts.Title,
		XLabel: opts.XLabel,
		YLabel: opts.YLabel,
	}

	mx := make([]float64, len(measured))
	my := make([]float64, len(measured))
	for i, r := range measured {
		mx[i] = r.Time
		my[i] = r.Temperature
	}
	spec.Series = append(spec.Series, Series{
		Name:  "Measured T(t)",
		X:     mx,
		Y:     my,
		Style: Style{Color: ColorBlack, Points: true},
	})

	// The AB line runs forward to t_C and the CD line back to t_B, so both
	// span the whole reaction window and therefore t_L.
	abStart := p.AB[0].Time
	abEnd := max(p.AB[len(p.AB)-1].Time, b.TimeC)
	cdStart := min(p.CD[0].Time, b.TimeB)
	cdEnd := p.CD[len(p.CD)-1].Time

	spec.Series = append(spec.Series,
		Series{
			Name:  "AB extrapolation",
			X:     []float64{abStart, abEnd},
			Y:     []float64{s.FitAB.At(abStart), s.FitAB.At(abEnd)},
			Style: Style{Color: ColorBlue, Dashed: true},
		},
		Series{
			Name:  "CD extrapolation",
			X:     []float64{cdStart, cdEnd},
			Y:     []float64{s.FitCD.At(cdStart), s.FitCD.At(cdEnd)},
			Style: Style{Color: ColorRed, Dashed: true},
		},
	)

	ref := Style{Color: ColorGray, Dotted: true}
	spec.References = []RefLine{
		{Label: "T_B", Value: b.TempB, Style: ref},
		{Label: "T_K", Value: b.TempK, Style: ref},
		{Label: "T_C", Value: b.TempC, Style: ref},
	}

	lo, hi := min(abStart, cdStart), max(abEnd, cdEnd)
	for _, x := range mx {
		lo = min(lo, x)
		hi = max(hi, x)
	}
	spec.XRange = [2]float64{lo, hi}

	if s.Crossing != nil {
		tL := s.Crossing.Time
		tE := s.FitCD.At(tL)
		tF := s.FitAB.At(tL)
		spec.Segments = append(spec.Segments, LineSegment{
			Label: "ΔT = EF",
			X1:    tL,
			Y1:    tF,
			X2:    tL,
			Y2:    tE,
			Style: Style{Color: ColorBlack},
		})
		spec.Markers = append(spec.Markers,
			Marker{Label: "E", X: tL, Y: tE},
			Marker{Label: "F", X: tL, Y: tF},
		)
	}

	return spec
}
