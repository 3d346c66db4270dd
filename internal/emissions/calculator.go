// Package emissions converts shipment mileage into CO2 figures and rolls
// shipment records up into state, month and route aggregates.
package emissions

import "github.com/ithomeportal/unilink-energy/internal/models"

// EPA emission factors and carrier policy constants.
// Source: EPA Emission Factors Hub.
const (
	// CO2PerGallonDiesel is kg CO2 emitted per gallon of diesel burned.
	CO2PerGallonDiesel = 10.21

	// TruckMPG is the average fuel economy of a heavy-duty truck.
	TruckMPG = 6.0

	// B20ReductionFactor is the CO2 reduction of B20 biodiesel against diesel.
	B20ReductionFactor = 0.17

	// ModernFleetEfficiencyGain is the efficiency gain of trucks under 9 years old.
	ModernFleetEfficiencyGain = 0.12

	// KgPerTon converts kilograms to metric tons.
	KgPerTon = 1000.0
)

// Savings is the full breakdown for one mileage figure. B20Savings and
// FleetSavings are each measured against the standalone policy and are not
// additive; the combined figure is Standard - Actual.
type Savings struct {
	StandardEmissions float64
	ActualEmissions   float64
	B20Savings        float64
	FleetSavings      float64
	TotalSavings      float64
	PercentReduction  float64
}

// StandardEmissions returns tCO2e for miles driven on plain diesel.
func StandardEmissions(miles float64) float64 {
	if miles <= 0 {
		return 0
	}
	gallons := miles / TruckMPG
	return gallons * CO2PerGallonDiesel / KgPerTon
}

// B20Savings returns tCO2e saved by running miles on B20 alone.
func B20Savings(miles float64) float64 {
	return StandardEmissions(miles) * B20ReductionFactor
}

// FleetSavings returns tCO2e saved by running miles on a modern truck alone.
func FleetSavings(miles float64) float64 {
	return StandardEmissions(miles) * ModernFleetEfficiencyGain
}

// CombinedReduction is 1 - (1-b20)(1-fleet). The two policies compound, so
// this is 0.2696 and not 0.29.
func CombinedReduction() float64 {
	return 1 - (1-B20ReductionFactor)*(1-ModernFleetEfficiencyGain)
}

// CalculateSavings applies both policies to miles. PercentReduction is 0 when
// there are no standard emissions to reduce.
func CalculateSavings(miles float64) Savings {
	standard := StandardEmissions(miles)
	actual := standard * (1 - CombinedReduction())
	total := standard - actual

	var percent float64
	if standard > 0 {
		percent = total / standard * 100
	}

	return Savings{
		StandardEmissions: standard,
		ActualEmissions:   actual,
		B20Savings:        B20Savings(miles),
		FleetSavings:      FleetSavings(miles),
		TotalSavings:      total,
		PercentReduction:  percent,
	}
}

// Figure is the EmissionsFigure view of CalculateSavings.
func Figure(miles float64) models.EmissionsFigure {
	s := CalculateSavings(miles)
	return models.EmissionsFigure{
		StandardEmissions: s.StandardEmissions,
		ActualEmissions:   s.ActualEmissions,
		CO2Saved:          s.TotalSavings,
		PercentReduction:  s.PercentReduction,
	}
}
