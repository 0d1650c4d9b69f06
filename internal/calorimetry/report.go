package calorimetry

import (
	"fmt"
)

// Status describes how far an analysis got
type Status string

const (
	// StatusComplete means a crossing was found and ΔT was computed
	StatusComplete Status = "complete"
	// StatusNoCrossing means the reaction curve never reached T_K; only the
	// boundary temperatures are available
	StatusNoCrossing Status = "no_crossing"
)

// Result is the numeric outcome of one analysis. When Status is
// StatusNoCrossing the crossing-dependent fields are nil.
type Result struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`

	FitAB LinearFit `json:"fit_ab"`
	FitCD LinearFit `json:"fit_cd"`

	TimeB float64 `json:"time_b"`
	TimeC float64 `json:"time_c"`
	TempB float64 `json:"temp_b"`
	TempC float64 `json:"temp_c"`
	TempK float64 `json:"temp_k"`

	// BoundaryDelta is the uncorrected T_C - T_B. It is reported for comparison
	// only; DeltaT is the corrected value.
	BoundaryDelta float64 `json:"boundary_delta"`

	TimeL  *float64 `json:"time_l,omitempty"`
	TempE  *float64 `json:"temp_e,omitempty"`
	TempF  *float64 `json:"temp_f,omitempty"`
	DeltaT *float64 `json:"delta_t,omitempty"`
}

// Complete reports whether the corrected ΔT is available
func (r *Result) Complete() bool {
	return r.Status == StatusComplete
}

// Report turns a solution into a Result. With a crossing, both baselines are
// evaluated at t_L (E on the CD line, F on the AB line) and ΔT = T_E - T_F.
func Report(s *Solution) *Result {
	b := s.Boundary
	r := &Result{
		FitAB:         s.FitAB,
		FitCD:         s.FitCD,
		TimeB:         b.TimeB,
		TimeC:         b.TimeC,
		TempB:         b.TempB,
		TempC:         b.TempC,
		TempK:         b.TempK,
		BoundaryDelta: b.TempC - b.TempB,
	}

	if s.Crossing == nil {
		r.Status = StatusNoCrossing
		r.Message = "no crossing found: the reaction curve never reaches the midpoint temperature"
		return r
	}

	tL := s.Crossing.Time
	tE := s.FitCD.At(tL)
	tF := s.FitAB.At(tL)
	dT := tE - tF

	r.Status = StatusComplete
	r.TimeL = &tL
	r.TempE = &tE
	r.TempF = &tF
	r.DeltaT = &dT
	return r
}

// Summary renders the result as human-readable lines using the given number
// of decimal places
func (r *Result) Summary(precision int) []string {
	if precision < 0 {
		precision = 0
	}
	f := func(label string, v float64, unit string) string {
		return fmt.Sprintf("%s: %.*f %s", label, precision, v, unit)
	}

	lines := []string{
		f("T_B (M)", r.TempB, "°C"),
		f("T_C (N)", r.TempC, "°C"),
		f("T_K (midpoint)", r.TempK, "°C"),
	}

	if !r.Complete() {
		return append(lines, r.Message)
	}

	return append(lines,
		f("t_L (crossing time)", *r.TimeL, "min"),
		f("T_E (CD baseline at t_L)", *r.TempE, "°C"),
		f("T_F (AB baseline at t_L)", *r.TempF, "°C"),
		f("ΔT = EF", *r.DeltaT, "°C"),
	)
}
