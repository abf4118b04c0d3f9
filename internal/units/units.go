// Package units converts body measurements between metric and imperial.
// All functions are pure; any non-negative input is valid.
package units

const (
	cmPerInch = 2.54
	lbPerKg   = 2.20462262185
)

// CmToIn converts centimeters to inches.
func CmToIn(cm float64) float64 {
	return cm / cmPerInch
}

// InToCm converts inches to centimeters.
func InToCm(in float64) float64 {
	return in * cmPerInch
}

// KgToLb converts kilograms to pounds.
func KgToLb(kg float64) float64 {
	return kg * lbPerKg
}

// LbToKg converts pounds to kilograms.
func LbToKg(lb float64) float64 {
	return lb / lbPerKg
}
