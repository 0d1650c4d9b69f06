package calorimetry

import (
	"gonum.org/v1/gonum/stat"
)

// Solve fits both baselines, derives the boundary temperatures and their
// midpoint, and searches the reaction window for the first midpoint crossing.
// A missing crossing is not an error: Solution.Crossing is nil.
func Solve(p *Phases) (*Solution, error) {
	fitAB, err := fitLine(PhaseAB, p.AB)
	if err != nil {
		return nil, err
	}
	fitCD, err := fitLine(PhaseCD, p.CD)
	if err != nil {
		return nil, err
	}

	b := Boundary{
		TimeB: p.BC[0].Time,
		TimeC: p.BC[len(p.BC)-1].Time,
	}
	b.TempB = fitAB.At(b.TimeB)
	b.TempC = fitCD.At(b.TimeC)
	b.TempK = (b.TempB + b.TempC) / 2

	return &Solution{
		FitAB:    fitAB,
		FitCD:    fitCD,
		Boundary: b,
		Crossing: findCrossing(p.BC, b.TempK),
	}, nil
}

// fitLine performs an ordinary least-squares degree-1 regression of
// temperature on time. It needs at least two distinct time values.
func fitLine(phase Phase, readings []Reading) (LinearFit, error) {
	if n := distinctTimes(readings); n < 2 {
		return LinearFit{}, &InsufficientPointsError{Phase: phase, Got: n, Need: 2}
	}

	xs := make([]float64, len(readings))
	ys := make([]float64, len(readings))
	for i, r := range readings {
		xs[i] = r.Time
		ys[i] = r.Temperature
	}

	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	return LinearFit{Slope: slope, Intercept: intercept}, nil
}

func distinctTimes(readings []Reading) int {
	seen := make(map[float64]struct{}, len(readings))
	for _, r := range readings {
		seen[r.Time] = struct{}{}
	}
	return len(seen)
}

// findCrossing returns the first consecutive pair of readings whose
// temperatures straddle (or touch) target, with the crossing time found by
// inverting the straight segment between them.
func findCrossing(bc []Reading, target float64) *Crossing {
	for i := 0; i < len(bc)-1; i++ {
		a, b := bc[i], bc[i+1]
		if (a.Temperature-target)*(b.Temperature-target) > 0 {
			continue
		}

		t := a.Time
		if b.Temperature != a.Temperature {
			t = a.Time + (target-a.Temperature)*(b.Time-a.Time)/(b.Temperature-a.Temperature)
		}
		return &Crossing{Time: t, Index: i}
	}
	return nil
}
