// Package loss computes the optical power budget for a fiber link.
//
// The model is the fixed-constant budget used by the original planning
// sheet: a link starts with InitialSignal dB injected and loses a fixed
// amount per kilometre of fiber, per passive splitter, and per fusion
// splice. The result is the remaining margin in dB.
//
// Calculate never clamps: a negative final signal is a legitimate result
// and means the link as designed does not close.
package loss

import "math"

// Budget constants in dB. These match the values the original planning
// tool was calibrated against and are part of the calculation contract.
const (
	// InitialSignal is the power injected at the head end, in dB.
	InitialSignal = 6.0

	// FiberLossPerKm is attenuation per kilometre of fiber, in dB/km.
	FiberLossPerKm = 0.2

	// SpliceLossPerUnit is attenuation per fusion splice, in dB.
	SpliceLossPerUnit = 0.1
)

// Inputs holds the pre-validated parameters for one budget calculation.
// Splitter losses come from the catalog (per-type attenuation in dB);
// counts are how many splitters of each type the link traverses.
type Inputs struct {
	Distance      float64 // km
	SplitterLoss1 float64 // dB per splitter of type 1
	Splitters1    int
	SplitterLoss2 float64 // dB per splitter of type 2
	Splitters2    int
	FusionSplices int
}

// Calculate returns the final signal in dB after subtracting all losses
// from the initial signal. Pure and deterministic; assumes inputs passed
// validation.
func Calculate(in Inputs) float64 {
	fiberLoss := in.Distance * FiberLossPerKm
	splitterLoss := in.SplitterLoss1*float64(in.Splitters1) + in.SplitterLoss2*float64(in.Splitters2)
	spliceLoss := float64(in.FusionSplices) * SpliceLossPerUnit

	return InitialSignal - (fiberLoss + splitterLoss + spliceLoss)
}

// Round2 rounds a signal value to two decimal places, the display
// convention used everywhere a final signal is shown.
func Round2(db float64) float64 {
	return math.Round(db*100) / 100
}
