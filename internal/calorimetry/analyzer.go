package calorimetry

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Analysis bundles the outcome of one run
type Analysis struct {
	RunID  string    `json:"run_id"`
	Result *Result   `json:"result"`
	Chart  ChartSpec `json:"chart"`
}

// Analyzer runs the load → segment → solve → report pipeline. It holds no
// per-run state and may be shared between goroutines.
type Analyzer struct {
	logger *zap.SugaredLogger
	chart  ChartOptions
}

// NewAnalyzer creates an Analyzer that logs through logger and labels charts with opts
func NewAnalyzer(logger *zap.SugaredLogger, opts ChartOptions) *Analyzer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Analyzer{
		logger: logger,
		chart:  opts,
	}
}

// Analyze computes the corrected ΔT for a decoded table. A run that finds no
// crossing still succeeds, with Result.Status set to StatusNoCrossing.
func (a *Analyzer) Analyze(t Table) (*Analysis, error) {
	runID := uuid.NewString()
	logger := a.logger.With("run_id", runID)

	ds, err := Load(t)
	if err != nil {
		logger.Debugf("load failed: %v", err)
		return nil, err
	}

	phases, err := Segment(ds)
	if err != nil {
		logger.Debugf("segmentation failed: %v", err)
		return nil, err
	}
	logger.Debugf("segmented %d readings: AB=%d BC=%d CD=%d",
		len(ds.Readings), len(phases.AB), len(phases.BC), len(phases.CD))

	sol, err := Solve(phases)
	if err != nil {
		logger.Debugf("fit failed: %v", err)
		return nil, err
	}

	b := sol.Boundary
	logger.Debugf("fits: AB slope=%.4f intercept=%.4f, CD slope=%.4f intercept=%.4f",
		sol.FitAB.Slope, sol.FitAB.Intercept, sol.FitCD.Slope, sol.FitCD.Intercept)
	logger.Debugf("boundary: t_B=%.3f T_B=%.3f t_C=%.3f T_C=%.3f T_K=%.3f",
		b.TimeB, b.TempB, b.TimeC, b.TempC, b.TempK)

	res := Report(sol)
	if res.Complete() {
		logger.Debugf("crossing at t_L=%.3f, ΔT=%.3f", *res.TimeL, *res.DeltaT)
	} else {
		logger.Infow("no crossing found in reaction window", "temp_k", b.TempK)
	}

	return &Analysis{
		RunID:  runID,
		Result: res,
		Chart:  BuildChart(phases, sol, a.chart),
	}, nil
}
