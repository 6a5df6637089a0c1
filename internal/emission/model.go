// Package emission holds the carbon, calorie and cost model for logged
// activities and the suggestion rules built on top of it. Everything here is a
// pure function of its inputs.
package emission

import (
	"math"

	"backend-carbonwallet/internal/profile"
)

// ComputeExercise estimates calories burned, the monthly weight change implied
// by the weekly frequency, and the incidental carbon of a workout. A nil
// profile, or one without a weight, uses DefaultWeightKg.
func ComputeExercise(in ExerciseInput, p *profile.Profile) ExerciseOutput {
	weight := DefaultWeightKg
	if w := p.WeightKg(); w > 0 {
		weight = w
	}

	calories := MET(in.Type, in.Intensity) * weight * in.Duration / 60
	weeklyCalories := calories * float64(in.Frequency)
	weightChange := weeklyCalories * weeksPerMonth / kcalPerKg
	carbon := in.Duration * exerciseCarbonPerMinute

	return ExerciseOutput{
		CaloriesBurned: int(math.Round(calories)),
		WeightChange:   round(weightChange, 2),
		CarbonImpact:   round(carbon, 2),
	}
}

// ComputeFood scales the per-meal emission of a diet choice to daily, weekly
// and monthly totals.
func ComputeFood(in FoodInput) FoodOutput {
	daily := FoodFactor(in.Category, in.FoodType, in.Quantity) * float64(in.MealsPerDay)

	return FoodOutput{
		DailyEmission:   round(daily, 2),
		WeeklyEmission:  round(daily*7, 2),
		MonthlyEmission: round(daily*30, 2),
	}
}

// ComputeTravel estimates the carbon and fuel cost of a trip. Cost is only
// computed for fuelled trips with a known mileage tier; vehicles older than
// five years pay a linear surcharge.
func ComputeTravel(in TravelInput) TravelOutput {
	carbon := TravelFactor(in.Mode, in.FuelType) * in.Distance

	cost := 0.0
	if in.FuelType != FuelNone && in.Mileage != "" {
		if kmPerLitre := Mileage(in.Mileage); kmPerLitre > 0 {
			cost = in.Distance / kmPerLitre * FuelCost(in.FuelType)
		}
		if in.VehicleAge > ageSurchargeFreeYears {
			cost *= 1 + float64(in.VehicleAge-ageSurchargeFreeYears)*ageSurchargePerYear
		}
	}

	costPerKm, emissionPerKm := 0.0, 0.0
	if in.Distance > 0 {
		costPerKm = cost / in.Distance
		emissionPerKm = carbon / in.Distance
	}

	return TravelOutput{
		CarbonEmitted: round(carbon, 2),
		MoneySpent:    round(cost, 2),
		CostPerKm:     round(costPerKm, 2),
		EmissionPerKm: round(emissionPerKm, 3),
	}
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
