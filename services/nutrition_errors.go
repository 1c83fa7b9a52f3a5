package services

import "errors"

// Error taxonomy for the nutrition resolution pipeline. Callers branch on
// these with errors.Is; anything else escaping the pipeline is wrapped as
// ErrNutritionInternal so transport and storage failures never leak.
var (
	// ErrNutritionDataRequired means the caller supplied neither a food
	// identifier nor descriptive text, or an empty value where one was
	// required. Checked locally, never after a network round trip.
	ErrNutritionDataRequired = errors.New("nutrition data required")

	// ErrFoodItemDoesNotExist means the external system has no match at
	// the parse or the nutrient-fetch stage.
	ErrFoodItemDoesNotExist = errors.New("food item does not exist")

	// ErrServiceUnavailable is a transport or HTTP failure talking to the
	// external nutrition API. Transient; the whole request may be retried.
	ErrServiceUnavailable = errors.New("nutrition service unavailable")

	// ErrNutritionInternal re-signals an unexpected failure inside the
	// resolution pipeline after it has been logged.
	ErrNutritionInternal = errors.New("nutrition service internal error")

	// ErrFoodAlreadyExists reports a unique-constraint hit while
	// persisting a food another request just created.
	ErrFoodAlreadyExists = errors.New("food already exists")

	// ErrDuplicateFoodItem is the meal validation failure for a second
	// non-deleted line item referencing the same food.
	ErrDuplicateFoodItem = errors.New("cannot have duplicate food item in meal")
)
