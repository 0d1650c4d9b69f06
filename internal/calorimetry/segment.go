package calorimetry

// Segment splits a sorted dataset into its three phases, keeping time order.
// Readings with any other phase label are dropped.
func Segment(ds *Dataset) (*Phases, error) {
	p := &Phases{}
	for _, r := range ds.Readings {
		switch r.Phase {
		case PhaseAB:
			p.AB = append(p.AB, r)
		case PhaseBC:
			p.BC = append(p.BC, r)
		case PhaseCD:
			p.CD = append(p.CD, r)
		}
	}

	for _, g := range []struct {
		phase    Phase
		readings []Reading
	}{
		{PhaseAB, p.AB},
		{PhaseBC, p.BC},
		{PhaseCD, p.CD},
	} {
		if len(g.readings) == 0 {
			return nil, &EmptyPhaseError{Phase: g.phase}
		}
	}

	if len(p.BC) < 2 {
		return nil, &InsufficientPointsError{Phase: PhaseBC, Got: len(p.BC), Need: 2}
	}

	return p, nil
}

// Measured returns every segmented reading in phase order: AB, then BC, then CD
func (p *Phases) Measured() []Reading {
	out := make([]Reading, 0, len(p.AB)+len(p.BC)+len(p.CD))
	out = append(out, p.AB...)
	out = append(out, p.BC...)
	return append(out, p.CD...)
}
