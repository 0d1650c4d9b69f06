// Package calorimetry implements the graphical extrapolation method for correcting a
// calorimeter's measured temperature rise for heat exchanged with the surroundings.
// Readings are split into a pre-reaction baseline (AB), the reaction itself (BC) and a
// post-reaction baseline (CD). Both baselines are fitted with straight lines and
// extrapolated across the reaction window; the corrected ΔT is the gap between them at
// the moment the measured curve passes the midpoint temperature.
package calorimetry

// Phase labels a reading with the stage of the experiment it was taken in
type Phase string

const (
	// PhaseAB is the pre-reaction baseline
	PhaseAB Phase = "AB"
	// PhaseBC is the reaction window
	PhaseBC Phase = "BC"
	// PhaseCD is the post-reaction baseline
	PhaseCD Phase = "CD"
)

// Required input column names
const (
	ColumnTime        = "time"
	ColumnTemperature = "temperature"
	ColumnPhase       = "phase"
)

// RequiredColumns lists the columns every input table must carry, in reporting order
var RequiredColumns = []string{ColumnTime, ColumnTemperature, ColumnPhase}

// Table is raw tabular input: a header row and string cells, as produced by a decoder
type Table struct {
	Columns []string
	Rows    [][]string
}

// Reading is a single temperature observation
type Reading struct {
	Time        float64 `json:"time" msgpack:"time"`
	Temperature float64 `json:"temperature" msgpack:"temperature"`
	Phase       Phase   `json:"phase" msgpack:"phase"`
}

// Dataset holds readings sorted ascending by time
type Dataset struct {
	Readings []Reading
}

// Phases holds the readings of each experimental phase in time order
type Phases struct {
	AB []Reading
	BC []Reading
	CD []Reading
}

// LinearFit is a least-squares line T(t) = Slope*t + Intercept
type LinearFit struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// At evaluates the line at time t
func (f LinearFit) At(t float64) float64 {
	return f.Slope*t + f.Intercept
}

// Boundary holds the reaction window limits and the extrapolated baseline
// temperatures at those limits
type Boundary struct {
	TimeB float64 // t_B, first BC reading
	TimeC float64 // t_C, last BC reading
	TempB float64 // T_B, AB fit at t_B
	TempC float64 // T_C, CD fit at t_C
	TempK float64 // T_K, midpoint of T_B and T_C
}

// Crossing is the point where the measured BC curve passes T_K
type Crossing struct {
	Time  float64 // t_L
	Index int     // index of the first BC reading of the bracketing pair
}

// Solution is the output of the fitting stage
type Solution struct {
	FitAB    LinearFit
	FitCD    LinearFit
	Boundary Boundary
	Crossing *Crossing
}
