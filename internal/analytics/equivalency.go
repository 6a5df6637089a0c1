package analytics

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EPA conversion factors: equivalency = kg CO2e / factor.
const (
	milesDrivenFactor      = 0.192
	smartphoneChargeFactor = 0.00822
	treeSeedlingFactor     = 60.0
	minEquivalencyKg       = 1.0
)

var printer = message.NewPrinter(language.English)

type Equivalency struct {
	InputKg            float64 `json:"input_kg"`
	MilesDriven        float64 `json:"miles_driven,omitempty"`
	SmartphonesCharged float64 `json:"smartphones_charged,omitempty"`
	TreeSeedlings      float64 `json:"tree_seedlings,omitempty"`
	DisplayText        string  `json:"display_text,omitempty"`
	IsEmpty            bool    `json:"is_empty"`
}

// Equivalent converts kg CO2e into everyday comparisons. Amounts under 1 kg
// produce an empty result.
func Equivalent(kg float64) Equivalency {
	if kg < minEquivalencyKg || math.IsNaN(kg) || math.IsInf(kg, 0) {
		return Equivalency{InputKg: kg, IsEmpty: true}
	}

	miles := kg / milesDrivenFactor
	phones := kg / smartphoneChargeFactor
	trees := kg / treeSeedlingFactor

	return Equivalency{
		InputKg:            kg,
		MilesDriven:        round2(miles),
		SmartphonesCharged: round2(phones),
		TreeSeedlings:      round2(trees),
		DisplayText: fmt.Sprintf("Equivalent to driving ~%s miles or charging ~%s smartphones",
			formatCount(miles), formatCount(phones)),
	}
}

func formatCount(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}
