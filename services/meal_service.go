package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jkong61/health-backend-app/models"
)

// ErrInvalidMeasurement marks an unknown measurement suffix on a food item
// request. Maps to a validation failure, like the duplicate guard.
var ErrInvalidMeasurement = errors.New("invalid measurement")

// foodResolver lets tests drive the meal service with a canned resolver.
type foodResolver interface {
	Resolve(ctx context.Context, foodID, newFoodType string) (*models.Food, error)
}

// MealService owns meals and their food items: CRUD with soft deletes, and
// the attach path that resolves nutrition and enforces the one-item-per-food
// invariant.
type MealService struct {
	db       *gorm.DB
	store    *NutrientStore
	resolver foodResolver
}

func NewMealService(db *gorm.DB, store *NutrientStore, resolver foodResolver) *MealService {
	return &MealService{db: db, store: store, resolver: resolver}
}

// FoodItemRequest is the caller-facing shape for creating or updating a
// food item. FoodID and NewFoodType feed the resolver; exactly one is
// expected to carry information.
type FoodItemRequest struct {
	FoodID             *string  `json:"food_id"`
	NewFoodType        *string  `json:"new_food_type"`
	PerUnitMeasurement float64  `json:"per_unit_measurement"`
	VolumeConsumed     *float64 `json:"volume_consumed"`
	MeasurementSuffix  string   `json:"measurement_suffix"`
}

func (s *MealService) CreateMeal(userID uint, image string) (*models.Meal, error) {
	meal := models.Meal{UserID: userID, Image: image}
	if err := s.db.Create(&meal).Error; err != nil {
		return nil, fmt.Errorf("create meal: %w", err)
	}
	return &meal, nil
}

// ListMeals returns the user's meals newest first. Each non-deleted food
// item carries its food, nutrients and measurement, scaled to the consumed
// weight like the single-item reads.
func (s *MealService) ListMeals(userID uint, skip, limit int) ([]models.Meal, error) {
	if limit <= 0 {
		limit = 20
	}
	var meals []models.Meal
	err := s.db.
		Preload("FoodItems.Food.Nutrients.NutrientType").
		Preload("FoodItems.Measurement").
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&meals).Error
	if err != nil {
		return nil, fmt.Errorf("list meals: %w", err)
	}
	for i := range meals {
		for j := range meals[i].FoodItems {
			NormalizeFoodItem(&meals[i].FoodItems[j])
		}
	}
	return meals, nil
}

// GetMeal loads one meal with its non-deleted food items, nutrition scaled
// like ListMeals; nil when the meal does not exist or is deleted. Ownership
// is the caller's concern.
func (s *MealService) GetMeal(mealID uint) (*models.Meal, error) {
	var meal models.Meal
	err := s.db.
		Preload("FoodItems.Food.Nutrients.NutrientType").
		Preload("FoodItems.Measurement").
		First(&meal, mealID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get meal %d: %w", mealID, err)
	}
	for i := range meal.FoodItems {
		NormalizeFoodItem(&meal.FoodItems[i])
	}
	return &meal, nil
}

func (s *MealService) UpdateBloodGlucose(mealID uint, bloodGlucose float64) error {
	return s.db.Model(&models.Meal{}).
		Where("id = ?", mealID).
		Update("blood_glucose", bloodGlucose).Error
}

func (s *MealService) DeleteMeal(mealID uint) error {
	return s.db.Delete(&models.Meal{}, mealID).Error
}

// GetFoodItems returns the meal's non-deleted items with nutrition scaled to
// the consumed weight.
func (s *MealService) GetFoodItems(mealID uint) ([]models.FoodItem, error) {
	var items []models.FoodItem
	err := s.db.
		Preload("Food.Nutrients.NutrientType").
		Preload("Measurement").
		Where("meal_id = ?", mealID).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list food items for meal %d: %w", mealID, err)
	}
	for i := range items {
		NormalizeFoodItem(&items[i])
	}
	return items, nil
}

// GetFoodItem loads one non-deleted item, normalized; nil on a miss.
func (s *MealService) GetFoodItem(foodItemID uint) (*models.FoodItem, error) {
	var item models.FoodItem
	err := s.db.
		Preload("Food.Nutrients.NutrientType").
		Preload("Measurement").
		First(&item, foodItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food item %d: %w", foodItemID, err)
	}
	return NormalizeFoodItem(&item), nil
}

// AddFoodItem resolves the requested food and attaches it to the meal. The
// duplicate check and the insert run in one transaction holding the meal
// row, so two concurrent edits of the same meal serialize.
func (s *MealService) AddFoodItem(ctx context.Context, mealID uint, req FoodItemRequest) (*models.FoodItem, error) {
	food, measurement, err := s.resolveRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var created models.FoodItem
	err = s.db.Transaction(func(tx *gorm.DB) error {
		meal, err := s.lockMeal(tx, mealID)
		if err != nil {
			return err
		}

		taken, err := s.foodIDsInMeal(tx, meal.ID)
		if err != nil {
			return err
		}
		if taken[food.FoodID] {
			return ErrDuplicateFoodItem
		}

		created = models.FoodItem{
			MealID:             meal.ID,
			FoodID:             &food.FoodID,
			MeasurementID:      measurement.ID,
			PerUnitMeasurement: req.PerUnitMeasurement,
			VolumeConsumed:     req.VolumeConsumed,
		}
		return tx.Create(&created).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetFoodItem(created.ID)
}

// UpdateFoodItem re-resolves the food for an existing item. Keeping the same
// food is allowed; moving onto a food already present in another non-deleted
// item of the meal is a validation failure.
func (s *MealService) UpdateFoodItem(ctx context.Context, foodItemID uint, req FoodItemRequest) (*models.FoodItem, error) {
	var item models.FoodItem
	err := s.db.First(&item, foodItemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food item %d: %w", foodItemID, err)
	}

	food, measurement, err := s.resolveRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.lockMeal(tx, item.MealID); err != nil {
			return err
		}

		taken, err := s.foodIDsInMeal(tx, item.MealID)
		if err != nil {
			return err
		}
		identifierChanged := item.FoodID == nil || *item.FoodID != food.FoodID
		if taken[food.FoodID] && identifierChanged {
			return ErrDuplicateFoodItem
		}

		item.FoodID = &food.FoodID
		item.MeasurementID = measurement.ID
		item.PerUnitMeasurement = req.PerUnitMeasurement
		item.VolumeConsumed = req.VolumeConsumed
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return s.GetFoodItem(item.ID)
}

// DeleteFoodItem soft-deletes the item when it belongs to the given meal.
func (s *MealService) DeleteFoodItem(mealID, foodItemID uint) error {
	result := s.db.
		Where("id = ? AND meal_id = ?", foodItemID, mealID).
		Delete(&models.FoodItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *MealService) resolveRequest(ctx context.Context, req FoodItemRequest) (*models.Food, *models.Measurement, error) {
	food, err := s.resolver.Resolve(ctx, deref(req.FoodID), deref(req.NewFoodType))
	if err != nil {
		return nil, nil, err
	}
	measurement, err := s.store.MeasurementBySuffix(req.MeasurementSuffix)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidMeasurement, err)
	}
	return food, measurement, nil
}

// lockMeal loads the meal under a row lock where the dialect supports one.
// SQLite serializes writers on its own, so tests skip the clause.
func (s *MealService) lockMeal(tx *gorm.DB, mealID uint) (*models.Meal, error) {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var meal models.Meal
	if err := q.First(&meal, mealID).Error; err != nil {
		return nil, fmt.Errorf("get meal %d: %w", mealID, err)
	}
	return &meal, nil
}

// foodIDsInMeal collects the food identifiers of the meal's non-deleted
// items. Items still carrying a nil food are skipped.
func (s *MealService) foodIDsInMeal(tx *gorm.DB, mealID uint) (map[string]bool, error) {
	var items []models.FoodItem
	if err := tx.Where("meal_id = ?", mealID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list food items for meal %d: %w", mealID, err)
	}
	ids := make(map[string]bool, len(items))
	for _, it := range items {
		if it.FoodID != nil {
			ids[*it.FoodID] = true
		}
	}
	return ids, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
