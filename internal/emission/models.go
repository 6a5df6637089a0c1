package emission

// ActivityType tags an activity log entry and the suggestion produced for it.
type ActivityType string

const (
	ActivityExercise       ActivityType = "exercise"
	ActivityFood           ActivityType = "food"
	ActivityManualTravel   ActivityType = "manual_travel"
	ActivityRealtimeTravel ActivityType = "realtime_travel"
)

type ExerciseType string

const (
	ExerciseWalking ExerciseType = "walking"
	ExerciseRunning ExerciseType = "running"
	ExerciseCycling ExerciseType = "cycling"
	ExerciseGym     ExerciseType = "gym"
	ExerciseYoga    ExerciseType = "yoga"
)

type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
)

type DietCategory string

const (
	DietVegetarian    DietCategory = "vegetarian"
	DietNonVegetarian DietCategory = "non_vegetarian"
	DietVegan         DietCategory = "vegan"
)

type FoodType string

const (
	FoodRice      FoodType = "rice"
	FoodWheat     FoodType = "wheat"
	FoodDairy     FoodType = "dairy"
	FoodMeat      FoodType = "meat"
	FoodProcessed FoodType = "processed"
)

type Portion string

const (
	PortionSmall  Portion = "small"
	PortionMedium Portion = "medium"
	PortionLarge  Portion = "large"
)

type TravelMode string

const (
	ModeCar             TravelMode = "car"
	ModeBike            TravelMode = "bike"
	ModePublicTransport TravelMode = "public_transport"
	ModeTrain           TravelMode = "train"
	ModeWalk            TravelMode = "walk"
)

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelNone     FuelType = "none"
)

type MileageTier string

const (
	MileageLow    MileageTier = "low"
	MileageMedium MileageTier = "medium"
	MileageHigh   MileageTier = "high"
)

type ExerciseInput struct {
	Type      ExerciseType `json:"type"`
	Duration  float64      `json:"duration"`
	Intensity Intensity    `json:"intensity"`
	Frequency int          `json:"frequency"`
}

type ExerciseOutput struct {
	CaloriesBurned int     `json:"calories_burned"`
	WeightChange   float64 `json:"weight_change"`
	CarbonImpact   float64 `json:"carbon_impact"`
}

type FoodInput struct {
	Category    DietCategory `json:"category"`
	FoodType    FoodType     `json:"food_type"`
	Quantity    Portion      `json:"quantity"`
	MealsPerDay int          `json:"meals_per_day"`
}

type FoodOutput struct {
	DailyEmission   float64 `json:"daily_emission"`
	WeeklyEmission  float64 `json:"weekly_emission"`
	MonthlyEmission float64 `json:"monthly_emission"`
}

// TravelInput describes a manually logged trip. Mileage is optional; an empty
// tier means no fuel cost is computed.
type TravelInput struct {
	Mode       TravelMode  `json:"mode"`
	Distance   float64     `json:"distance"`
	FuelType   FuelType    `json:"fuel_type"`
	VehicleAge int         `json:"vehicle_age,omitempty"`
	Mileage    MileageTier `json:"mileage,omitempty"`
}

type TravelOutput struct {
	CarbonEmitted float64 `json:"carbon_emitted"`
	MoneySpent    float64 `json:"money_spent"`
	CostPerKm     float64 `json:"cost_per_km"`
	EmissionPerKm float64 `json:"emission_per_km"`
}

// Suggestion proposes a single greener or stricter alternative to a submitted input.
type Suggestion struct {
	Type                  ActivityType `json:"type"`
	CurrentChoice         string       `json:"current_choice"`
	Alternative           string       `json:"alternative"`
	CarbonSaved           float64      `json:"carbon_saved"`
	CostSaved             float64      `json:"cost_saved"`
	PercentageImprovement float64      `json:"percentage_improvement"`
}
