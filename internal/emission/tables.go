package emission

const (
	// DefaultWeightKg applies when no profile weight is known.
	DefaultWeightKg = 70.0

	exerciseCarbonPerMinute = 0.05
	kcalPerKg               = 7700.0
	weeksPerMonth           = 4.0

	ageSurchargeFreeYears = 5
	ageSurchargePerYear   = 0.05

	walkSuggestionMaxKm = 5.0
)

var metValues = map[ExerciseType]map[Intensity]float64{
	ExerciseWalking: {IntensityLow: 2.5, IntensityModerate: 3.5, IntensityHigh: 4.5},
	ExerciseRunning: {IntensityLow: 6.0, IntensityModerate: 8.0, IntensityHigh: 10.0},
	ExerciseCycling: {IntensityLow: 4.0, IntensityModerate: 6.8, IntensityHigh: 10.0},
	ExerciseGym:     {IntensityLow: 3.0, IntensityModerate: 5.0, IntensityHigh: 8.0},
	ExerciseYoga:    {IntensityLow: 2.0, IntensityModerate: 3.0, IntensityHigh: 4.0},
}

// kg CO2 per meal.
var foodCarbonFactors = map[DietCategory]map[FoodType]map[Portion]float64{
	DietVegetarian: {
		FoodRice:      {PortionSmall: 0.3, PortionMedium: 0.5, PortionLarge: 0.8},
		FoodWheat:     {PortionSmall: 0.25, PortionMedium: 0.4, PortionLarge: 0.6},
		FoodDairy:     {PortionSmall: 0.4, PortionMedium: 0.7, PortionLarge: 1.0},
		FoodMeat:      {PortionSmall: 0, PortionMedium: 0, PortionLarge: 0},
		FoodProcessed: {PortionSmall: 0.5, PortionMedium: 0.8, PortionLarge: 1.2},
	},
	DietNonVegetarian: {
		FoodRice:      {PortionSmall: 0.3, PortionMedium: 0.5, PortionLarge: 0.8},
		FoodWheat:     {PortionSmall: 0.25, PortionMedium: 0.4, PortionLarge: 0.6},
		FoodDairy:     {PortionSmall: 0.4, PortionMedium: 0.7, PortionLarge: 1.0},
		FoodMeat:      {PortionSmall: 1.5, PortionMedium: 2.5, PortionLarge: 4.0},
		FoodProcessed: {PortionSmall: 0.8, PortionMedium: 1.2, PortionLarge: 1.8},
	},
	DietVegan: {
		FoodRice:      {PortionSmall: 0.25, PortionMedium: 0.4, PortionLarge: 0.6},
		FoodWheat:     {PortionSmall: 0.2, PortionMedium: 0.35, PortionLarge: 0.5},
		FoodDairy:     {PortionSmall: 0, PortionMedium: 0, PortionLarge: 0},
		FoodMeat:      {PortionSmall: 0, PortionMedium: 0, PortionLarge: 0},
		FoodProcessed: {PortionSmall: 0.4, PortionMedium: 0.6, PortionLarge: 0.9},
	},
}

// kg CO2 per km.
var travelCarbonFactors = map[TravelMode]map[FuelType]float64{
	ModeCar:             {FuelPetrol: 0.12, FuelDiesel: 0.15, FuelElectric: 0.05, FuelNone: 0},
	ModeBike:            {FuelPetrol: 0.08, FuelDiesel: 0.1, FuelElectric: 0.03, FuelNone: 0},
	ModePublicTransport: {FuelPetrol: 0.04, FuelDiesel: 0.05, FuelElectric: 0.02, FuelNone: 0},
	ModeTrain:           {FuelPetrol: 0.03, FuelDiesel: 0.04, FuelElectric: 0.015, FuelNone: 0},
	ModeWalk:            {FuelPetrol: 0, FuelDiesel: 0, FuelElectric: 0, FuelNone: 0},
}

// Cost per litre (or per litre-equivalent for electric).
var fuelCosts = map[FuelType]float64{
	FuelPetrol:   1.5,
	FuelDiesel:   1.4,
	FuelElectric: 0.3,
	FuelNone:     0,
}

// km per litre.
var mileageValues = map[MileageTier]float64{
	MileageLow:    7.5,
	MileageMedium: 12.5,
	MileageHigh:   17.5,
}

// MET returns the metabolic equivalent for an exercise type and intensity.
func MET(t ExerciseType, i Intensity) float64 {
	return metValues[t][i]
}

// FoodFactor returns kg CO2 per meal for a diet, food type and portion.
func FoodFactor(c DietCategory, f FoodType, p Portion) float64 {
	return foodCarbonFactors[c][f][p]
}

// TravelFactor returns kg CO2 per km for a mode and fuel.
func TravelFactor(m TravelMode, f FuelType) float64 {
	return travelCarbonFactors[m][f]
}

// FuelCost returns the unit fuel cost for a fuel type.
func FuelCost(f FuelType) float64 {
	return fuelCosts[f]
}

// Mileage returns km per litre for a mileage tier.
func Mileage(m MileageTier) float64 {
	return mileageValues[m]
}
