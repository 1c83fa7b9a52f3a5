package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jkong61/health-backend-app/models"
)

// foodStore is the slice of NutrientStore the resolver needs.
type foodStore interface {
	LookupFood(foodID string) (*models.Food, error)
	PersistNewFood(foodID, name string, quantities map[string]float64) (*models.Food, error)
}

// nutritionAPI is the slice of EdamamService the resolver needs.
type nutritionAPI interface {
	ParseFood(ctx context.Context, text string) (ParsedFood, error)
	FetchNutrients(ctx context.Context, foodID string) (map[string]float64, error)
}

// FoodResolver turns a food identifier or a free-text description into a
// canonical Food: local store first, external parse-then-fetch on a miss,
// persisting what it discovers.
type FoodResolver struct {
	store foodStore
	api   nutritionAPI
	log   *slog.Logger
}

func NewFoodResolver(store foodStore, api nutritionAPI, logger *slog.Logger) *FoodResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &FoodResolver{store: store, api: api, log: logger}
}

// Resolve runs the resolution state machine. Exactly one of foodID and
// newFoodType is expected to carry information; with neither it fails with
// ErrNutritionDataRequired. Errors outside the taxonomy are logged and
// re-signaled as ErrNutritionInternal so the caller never sees a raw
// transport or storage failure.
func (r *FoodResolver) Resolve(ctx context.Context, foodID, newFoodType string) (*models.Food, error) {
	if foodID == "" && newFoodType == "" {
		return nil, fmt.Errorf("%w: neither food ID nor description provided", ErrNutritionDataRequired)
	}

	// Identifier lookup. LookupFood treats an empty identifier as a miss.
	food, err := r.store.LookupFood(foodID)
	if err != nil {
		return nil, r.classify("store lookup", err)
	}
	if food != nil {
		return food, nil
	}

	// An unresolvable identifier cannot be discovered without text.
	if newFoodType == "" {
		return nil, fmt.Errorf("%w: parsed text not provided", ErrNutritionDataRequired)
	}

	parsed, err := r.api.ParseFood(ctx, newFoodType)
	if err != nil {
		return nil, r.classify("parse", err)
	}

	// Second chance at a store hit: a concurrent request or a prior sync
	// may have created the parsed identifier already.
	food, err = r.store.LookupFood(parsed.FoodID)
	if err != nil {
		return nil, r.classify("store recheck", err)
	}
	if food != nil {
		return food, nil
	}

	quantities, err := r.api.FetchNutrients(ctx, parsed.FoodID)
	if err != nil {
		return nil, r.classify("fetch nutrients", err)
	}

	food, err = r.store.PersistNewFood(parsed.FoodID, parsed.Label, quantities)
	if errors.Is(err, ErrFoodAlreadyExists) {
		// Lost the insert race; the other committer's row serves.
		food, err = r.store.LookupFood(parsed.FoodID)
		if err == nil && food == nil {
			err = fmt.Errorf("food %q vanished after duplicate insert", parsed.FoodID)
		}
	}
	if err != nil {
		return nil, r.classify("persist", err)
	}
	return food, nil
}

// classify separates expected domain failures from infrastructure failures.
// The three taxonomy kinds pass through untouched; everything else is logged
// with context and replaced by the generic internal error.
func (r *FoodResolver) classify(step string, err error) error {
	if errors.Is(err, ErrNutritionDataRequired) ||
		errors.Is(err, ErrFoodItemDoesNotExist) ||
		errors.Is(err, ErrServiceUnavailable) {
		return err
	}
	r.log.Error("food resolution failed unexpectedly", "step", step, "error", err)
	return fmt.Errorf("%w: %s failed", ErrNutritionInternal, step)
}
