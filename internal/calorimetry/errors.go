package calorimetry

import (
	"fmt"
	"strings"
)

// MissingColumnsError is returned when the input lacks one or more required columns
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("input is missing required columns: %s (need %s)",
		strings.Join(e.Columns, ", "), strings.Join(RequiredColumns, ", "))
}

// EmptyPhaseError is returned when a phase has no readings at all
type EmptyPhaseError struct {
	Phase Phase
}

func (e *EmptyPhaseError) Error() string {
	return fmt.Sprintf("phase %s has no readings", e.Phase)
}

// InsufficientPointsError is returned when a phase has too few usable points,
// either to bracket a crossing (BC) or to fit a line (AB, CD)
type InsufficientPointsError struct {
	Phase Phase
	Got   int
	Need  int
}

func (e *InsufficientPointsError) Error() string {
	if e.Phase == PhaseBC {
		return fmt.Sprintf("phase %s has %d readings, at least %d are needed to locate the crossing", e.Phase, e.Got, e.Need)
	}
	return fmt.Sprintf("phase %s has %d distinct time values, at least %d are needed to fit a baseline", e.Phase, e.Got, e.Need)
}

// MalformedInputError is returned when the input cannot be read as a table of readings
type MalformedInputError struct {
	Reason string
	Err    error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed input: %s: %v", e.Reason, e.Err)
	}
	return "malformed input: " + e.Reason
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}
