package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/jkong61/health-backend-app/models"
)

type fakeStore struct {
	foods      map[string]*models.Food
	lookupErr  error
	persistErr error
	persists   int
}

func newFakeStore(foods ...*models.Food) *fakeStore {
	s := &fakeStore{foods: make(map[string]*models.Food)}
	for _, f := range foods {
		s.foods[f.FoodID] = f
	}
	return s
}

func (s *fakeStore) LookupFood(foodID string) (*models.Food, error) {
	if s.lookupErr != nil {
		return nil, s.lookupErr
	}
	if foodID == "" {
		return nil, nil
	}
	return s.foods[foodID], nil
}

func (s *fakeStore) PersistNewFood(foodID, name string, quantities map[string]float64) (*models.Food, error) {
	s.persists++
	if s.persistErr != nil {
		return nil, s.persistErr
	}
	food := &models.Food{FoodID: foodID, FoodName: name, Enabled: true}
	s.foods[foodID] = food
	return food, nil
}

type fakeAPI struct {
	parsed     ParsedFood
	parseErr   error
	nutrients  map[string]float64
	fetchErr   error
	parseCalls int
	fetchCalls int
}

func (a *fakeAPI) ParseFood(ctx context.Context, text string) (ParsedFood, error) {
	a.parseCalls++
	if a.parseErr != nil {
		return ParsedFood{}, a.parseErr
	}
	return a.parsed, nil
}

func (a *fakeAPI) FetchNutrients(ctx context.Context, foodID string) (map[string]float64, error) {
	a.fetchCalls++
	if a.fetchErr != nil {
		return nil, a.fetchErr
	}
	return a.nutrients, nil
}

func quietResolver(store foodStore, api nutritionAPI) *FoodResolver {
	return NewFoodResolver(store, api, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestResolveKnownIdentifierSkipsNetwork(t *testing.T) {
	store := newFakeStore(&models.Food{FoodID: "food_a1", FoodName: "Apple"})
	api := &fakeAPI{}
	r := quietResolver(store, api)

	food, err := r.Resolve(context.Background(), "food_a1", "any text at all")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if food.FoodID != "food_a1" {
		t.Fatalf("resolved %q, want food_a1", food.FoodID)
	}
	if api.parseCalls != 0 || api.fetchCalls != 0 {
		t.Fatalf("network calls parse=%d fetch=%d, want none", api.parseCalls, api.fetchCalls)
	}
}

func TestResolveNoInputFailsRequired(t *testing.T) {
	r := quietResolver(newFakeStore(), &fakeAPI{})
	_, err := r.Resolve(context.Background(), "", "")
	if !errors.Is(err, ErrNutritionDataRequired) {
		t.Fatalf("Resolve error = %v, want ErrNutritionDataRequired", err)
	}
}

func TestResolveUnknownIdentifierWithoutTextFailsRequired(t *testing.T) {
	api := &fakeAPI{}
	r := quietResolver(newFakeStore(), api)
	_, err := r.Resolve(context.Background(), "food_unknown", "")
	if !errors.Is(err, ErrNutritionDataRequired) {
		t.Fatalf("Resolve error = %v, want ErrNutritionDataRequired", err)
	}
	if api.parseCalls != 0 {
		t.Fatalf("parse was called %d times, want 0", api.parseCalls)
	}
}

func TestResolveFetchNotFoundPersistsNothing(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{
		parsed:   ParsedFood{FoodID: "food_new", Label: "New Food"},
		fetchErr: ErrFoodItemDoesNotExist,
	}
	r := quietResolver(store, api)

	_, err := r.Resolve(context.Background(), "", "new food")
	if !errors.Is(err, ErrFoodItemDoesNotExist) {
		t.Fatalf("Resolve error = %v, want ErrFoodItemDoesNotExist", err)
	}
	if store.persists != 0 {
		t.Fatalf("persisted %d foods, want 0", store.persists)
	}
}

func TestResolveParseErrorsPropagate(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"not found", ErrFoodItemDoesNotExist},
		{"unavailable", ErrServiceUnavailable},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			r := quietResolver(newFakeStore(), &fakeAPI{parseErr: tt.err})
			_, err := r.Resolve(context.Background(), "", "something")
			if !errors.Is(err, tt.err) {
				t.Fatalf("Resolve error = %v, want %v", err, tt.err)
			}
		})
	}
}

func TestResolveIdempotentAcrossCalls(t *testing.T) {
	store := newFakeStore()
	api := &fakeAPI{
		parsed:    ParsedFood{FoodID: "food_new", Label: "New Food"},
		nutrients: map[string]float64{"ENERC_KCAL": 0.52},
	}
	r := quietResolver(store, api)

	for i := 0; i < 2; i++ {
		food, err := r.Resolve(context.Background(), "", "new food")
		if err != nil {
			t.Fatalf("Resolve #%d returned error: %v", i+1, err)
		}
		if food.FoodID != "food_new" {
			t.Fatalf("Resolve #%d = %q, want food_new", i+1, food.FoodID)
		}
	}

	if store.persists != 1 {
		t.Fatalf("persisted %d times, want exactly 1", store.persists)
	}
	if api.fetchCalls != 1 {
		t.Fatalf("fetch called %d times, want 1 (second call is a store hit)", api.fetchCalls)
	}
}

func TestResolveLostInsertRaceFallsBackToLookup(t *testing.T) {
	store := &raceStore{fakeStore: newFakeStore()}
	api := &fakeAPI{
		parsed:    ParsedFood{FoodID: "food_new", Label: "New Food"},
		nutrients: map[string]float64{"ENERC_KCAL": 0.52},
	}
	r := quietResolver(store, api)

	food, err := r.Resolve(context.Background(), "", "new food")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if food.FoodID != "food_new" {
		t.Fatalf("resolved %q, want food_new", food.FoodID)
	}
}

// raceStore simulates another request committing the food between the
// recheck and the persist call.
type raceStore struct {
	*fakeStore
}

func (s *raceStore) PersistNewFood(foodID, name string, quantities map[string]float64) (*models.Food, error) {
	s.foods[foodID] = &models.Food{FoodID: foodID, FoodName: name}
	return nil, ErrFoodAlreadyExists
}

func TestResolveUnexpectedErrorBecomesInternal(t *testing.T) {
	store := newFakeStore()
	store.lookupErr = fmt.Errorf("connection pool exhausted")
	r := quietResolver(store, &fakeAPI{})

	_, err := r.Resolve(context.Background(), "food_a1", "")
	if !errors.Is(err, ErrNutritionInternal) {
		t.Fatalf("Resolve error = %v, want ErrNutritionInternal", err)
	}
	for _, kind := range []error{ErrNutritionDataRequired, ErrFoodItemDoesNotExist, ErrServiceUnavailable} {
		if errors.Is(err, kind) {
			t.Fatalf("internal error must not satisfy %v", kind)
		}
	}
}
