package emission

import (
	"fmt"

	"backend-carbonwallet/internal/profile"
)

// SuggestExercise proposes the next intensity tier up. It returns nil when the
// input is already at the highest tier; otherwise a suggestion is always made.
func SuggestExercise(in ExerciseInput, out ExerciseOutput, p *profile.Profile) (*Suggestion, ExerciseInput) {
	var next Intensity
	switch in.Intensity {
	case IntensityLow:
		next = IntensityModerate
	case IntensityModerate:
		next = IntensityHigh
	default:
		return nil, in
	}

	alt := in
	alt.Intensity = next
	// Scored with the caller's profile weight, same as the submitted input.
	altOut := ComputeExercise(alt, p)

	improvement := 0.0
	if out.CaloriesBurned != 0 {
		improvement = float64(altOut.CaloriesBurned-out.CaloriesBurned) / float64(out.CaloriesBurned) * 100
	}

	return &Suggestion{
		Type:                  ActivityExercise,
		CurrentChoice:         fmt.Sprintf("%s (%s intensity)", in.Type, in.Intensity),
		Alternative:           fmt.Sprintf("%s (%s intensity)", in.Type, next),
		PercentageImprovement: round(improvement, 2),
	}, alt
}

// SuggestFood proposes the next stricter diet category. Vegan inputs and
// alternatives that do not strictly lower daily emission yield nil.
func SuggestFood(in FoodInput, out FoodOutput) (*Suggestion, FoodInput) {
	var next DietCategory
	switch in.Category {
	case DietNonVegetarian:
		next = DietVegetarian
	case DietVegetarian:
		next = DietVegan
	default:
		return nil, in
	}

	alt := in
	alt.Category = next
	altOut := ComputeFood(alt)

	saved := out.DailyEmission - altOut.DailyEmission
	if saved <= 0 {
		return nil, in
	}

	return &Suggestion{
		Type:                  ActivityFood,
		CurrentChoice:         fmt.Sprintf("%s diet", in.Category),
		Alternative:           fmt.Sprintf("%s diet", next),
		CarbonSaved:           round(saved, 2),
		PercentageImprovement: round(saved/out.DailyEmission*100, 2),
	}, alt
}

// SuggestTravel proposes walking for trips under 5 km and public transport
// otherwise. Trips already on foot or on public transport, and alternatives
// that do not strictly lower carbon, yield nil. Cost saved is reported as is
// and may be zero or negative.
func SuggestTravel(in TravelInput, out TravelOutput) (*Suggestion, TravelInput) {
	if in.Mode == ModeWalk || in.Mode == ModePublicTransport {
		return nil, in
	}

	alt := in
	label := "Public Transport"
	alt.Mode = ModePublicTransport
	if in.Distance < walkSuggestionMaxKm {
		alt.Mode = ModeWalk
		alt.FuelType = FuelNone
		label = "Walking"
	}
	altOut := ComputeTravel(alt)

	carbonSaved := out.CarbonEmitted - altOut.CarbonEmitted
	if carbonSaved <= 0 {
		return nil, in
	}
	costSaved := out.MoneySpent - altOut.MoneySpent

	return &Suggestion{
		Type:                  ActivityManualTravel,
		CurrentChoice:         string(in.Mode),
		Alternative:           label,
		CarbonSaved:           round(carbonSaved, 2),
		CostSaved:             round(costSaved, 2),
		PercentageImprovement: round(carbonSaved/out.CarbonEmitted*100, 2),
	}, alt
}
