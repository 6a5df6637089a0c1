package emission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestExerciseNextTier(t *testing.T) {
	in := ExerciseInput{Type: ExerciseWalking, Duration: 60, Intensity: IntensityLow, Frequency: 2}
	out := ComputeExercise(in, nil)

	s, alt := SuggestExercise(in, out, nil)
	require.NotNil(t, s)
	assert.Equal(t, IntensityModerate, alt.Intensity)
	assert.Equal(t, ActivityExercise, s.Type)
	assert.Equal(t, "walking (low intensity)", s.CurrentChoice)
	assert.Equal(t, "walking (moderate intensity)", s.Alternative)
	assert.Equal(t, 40.0, s.PercentageImprovement)
	assert.Zero(t, s.CarbonSaved)
	assert.Zero(t, s.CostSaved)

	s, alt = SuggestExercise(alt, ComputeExercise(alt, nil), nil)
	require.NotNil(t, s)
	assert.Equal(t, IntensityHigh, alt.Intensity)
}

func TestSuggestExerciseHighIntensityIsNil(t *testing.T) {
	in := ExerciseInput{Type: ExerciseGym, Duration: 45, Intensity: IntensityHigh, Frequency: 4}
	s, alt := SuggestExercise(in, ComputeExercise(in, nil), nil)

	assert.Nil(t, s)
	assert.Equal(t, in, alt)
}

func TestSuggestExerciseUsesProfileForRecompute(t *testing.T) {
	in := ExerciseInput{Type: ExerciseRunning, Duration: 30, Intensity: IntensityLow, Frequency: 1}
	p := weighing(100)

	s, _ := SuggestExercise(in, ComputeExercise(in, p), p)
	require.NotNil(t, s)
	// 6 -> 8 MET regardless of weight
	assert.InDelta(t, 33.33, s.PercentageImprovement, 0.01)
}

func TestSuggestFoodStricterDiet(t *testing.T) {
	in := FoodInput{Category: DietNonVegetarian, FoodType: FoodMeat, Quantity: PortionLarge, MealsPerDay: 2}

	s, alt := SuggestFood(in, ComputeFood(in))
	require.NotNil(t, s)
	assert.Equal(t, DietVegetarian, alt.Category)
	assert.Equal(t, "non_vegetarian diet", s.CurrentChoice)
	assert.Equal(t, "vegetarian diet", s.Alternative)
	assert.Equal(t, 8.0, s.CarbonSaved)
	assert.Equal(t, 100.0, s.PercentageImprovement)
}

func TestSuggestFoodVegetarianToVegan(t *testing.T) {
	in := FoodInput{Category: DietVegetarian, FoodType: FoodRice, Quantity: PortionMedium, MealsPerDay: 3}

	s, alt := SuggestFood(in, ComputeFood(in))
	require.NotNil(t, s)
	assert.Equal(t, DietVegan, alt.Category)
	assert.Equal(t, 0.3, s.CarbonSaved)
	assert.InDelta(t, 20.0, s.PercentageImprovement, 1e-9)
}

func TestSuggestFoodSuppressesNonImprovement(t *testing.T) {
	cases := []FoodInput{
		{Category: DietNonVegetarian, FoodType: FoodRice, Quantity: PortionSmall, MealsPerDay: 3},
		{Category: DietVegetarian, FoodType: FoodMeat, Quantity: PortionLarge, MealsPerDay: 1},
	}
	for _, in := range cases {
		s, alt := SuggestFood(in, ComputeFood(in))
		assert.Nil(t, s, "%+v", in)
		assert.Equal(t, in, alt)
	}
}

func TestSuggestFoodVeganIsAlwaysNil(t *testing.T) {
	for _, ft := range []FoodType{FoodRice, FoodWheat, FoodDairy, FoodMeat, FoodProcessed} {
		for _, q := range []Portion{PortionSmall, PortionMedium, PortionLarge} {
			in := FoodInput{Category: DietVegan, FoodType: ft, Quantity: q, MealsPerDay: 3}
			s, _ := SuggestFood(in, ComputeFood(in))
			assert.Nil(t, s)
		}
	}
}

func TestSuggestTravelPublicTransportForLongTrips(t *testing.T) {
	in := TravelInput{Mode: ModeCar, Distance: 10, FuelType: FuelPetrol, Mileage: MileageMedium, VehicleAge: 3}

	s, alt := SuggestTravel(in, ComputeTravel(in))
	require.NotNil(t, s)
	assert.Equal(t, ModePublicTransport, alt.Mode)
	assert.Equal(t, FuelPetrol, alt.FuelType)
	assert.Equal(t, ActivityManualTravel, s.Type)
	assert.Equal(t, "car", s.CurrentChoice)
	assert.Equal(t, "Public Transport", s.Alternative)
	assert.Equal(t, 0.8, s.CarbonSaved)
	assert.Zero(t, s.CostSaved)
	assert.Equal(t, 66.67, s.PercentageImprovement)
}

func TestSuggestTravelWalkForShortTrips(t *testing.T) {
	in := TravelInput{Mode: ModeCar, Distance: 3, FuelType: FuelPetrol, Mileage: MileageMedium}

	s, alt := SuggestTravel(in, ComputeTravel(in))
	require.NotNil(t, s)
	assert.Equal(t, ModeWalk, alt.Mode)
	assert.Equal(t, FuelNone, alt.FuelType)
	assert.Equal(t, "Walking", s.Alternative)
	assert.Equal(t, 0.36, s.CarbonSaved)
	assert.Equal(t, 0.36, s.CostSaved)
	assert.Equal(t, 100.0, s.PercentageImprovement)
}

func TestSuggestTravelSuppressesNonImprovement(t *testing.T) {
	in := TravelInput{Mode: ModeTrain, Distance: 10, FuelType: FuelElectric}

	s, alt := SuggestTravel(in, ComputeTravel(in))
	assert.Nil(t, s)
	assert.Equal(t, in, alt)
}

func TestSuggestTravelGreenModesAreNil(t *testing.T) {
	for _, mode := range []TravelMode{ModeWalk, ModePublicTransport} {
		for _, d := range []float64{1, 4.9, 5, 50} {
			in := TravelInput{Mode: mode, Distance: d, FuelType: FuelDiesel, Mileage: MileageLow}
			s, _ := SuggestTravel(in, ComputeTravel(in))
			assert.Nil(t, s)
		}
	}
}
