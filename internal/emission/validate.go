package emission

import (
	"errors"
	"fmt"
)

// ErrInvalidInput wraps every validation failure so handlers can map it to 400.
var ErrInvalidInput = errors.New("invalid input")

func (in ExerciseInput) Validate() error {
	if _, ok := metValues[in.Type]; !ok {
		return fmt.Errorf("%w: unknown exercise type %q", ErrInvalidInput, in.Type)
	}
	if _, ok := metValues[in.Type][in.Intensity]; !ok {
		return fmt.Errorf("%w: unknown intensity %q", ErrInvalidInput, in.Intensity)
	}
	if in.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}
	if in.Frequency <= 0 {
		return fmt.Errorf("%w: frequency must be positive", ErrInvalidInput)
	}
	return nil
}

func (in FoodInput) Validate() error {
	byFood, ok := foodCarbonFactors[in.Category]
	if !ok {
		return fmt.Errorf("%w: unknown diet category %q", ErrInvalidInput, in.Category)
	}
	byPortion, ok := byFood[in.FoodType]
	if !ok {
		return fmt.Errorf("%w: unknown food type %q", ErrInvalidInput, in.FoodType)
	}
	if _, ok := byPortion[in.Quantity]; !ok {
		return fmt.Errorf("%w: unknown quantity %q", ErrInvalidInput, in.Quantity)
	}
	if in.MealsPerDay <= 0 {
		return fmt.Errorf("%w: meals_per_day must be positive", ErrInvalidInput)
	}
	return nil
}

func (in TravelInput) Validate() error {
	byFuel, ok := travelCarbonFactors[in.Mode]
	if !ok {
		return fmt.Errorf("%w: unknown travel mode %q", ErrInvalidInput, in.Mode)
	}
	if _, ok := byFuel[in.FuelType]; !ok {
		return fmt.Errorf("%w: unknown fuel type %q", ErrInvalidInput, in.FuelType)
	}
	if in.Mileage != "" {
		if _, ok := mileageValues[in.Mileage]; !ok {
			return fmt.Errorf("%w: unknown mileage %q", ErrInvalidInput, in.Mileage)
		}
	}
	if in.Distance <= 0 {
		return fmt.Errorf("%w: distance must be positive", ErrInvalidInput)
	}
	if in.VehicleAge < 0 {
		return fmt.Errorf("%w: vehicle_age cannot be negative", ErrInvalidInput)
	}
	return nil
}
