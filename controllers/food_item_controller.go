package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jkong61/health-backend-app/middlewares"
	"github.com/jkong61/health-backend-app/services"
)

// FoodItemController exposes the meal line items and, through them, the
// nutrition resolution pipeline. Every pipeline error kind maps to exactly
// one response shape; raw transport and storage errors never reach the
// client.
type FoodItemController struct {
	meals *services.MealService
}

func NewFoodItemController(meals *services.MealService) *FoodItemController {
	return &FoodItemController{meals: meals}
}

func (ctl *FoodItemController) ListFoodItems(c *gin.Context) {
	meal, ok := ctl.mealFromPath(c)
	if !ok {
		return
	}

	items, err := ctl.meals.GetFoodItems(meal.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load food items"})
		return
	}
	c.JSON(http.StatusOK, items)
}

func (ctl *FoodItemController) GetFoodItem(c *gin.Context) {
	meal, ok := ctl.mealFromPath(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food item id"})
		return
	}

	item, err := ctl.meals.GetFoodItem(uint(itemID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load food item"})
		return
	}
	if item == nil || item.MealID != meal.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// CreateFoodItem resolves the requested food (local store first, external
// lookup on a miss) and attaches it to the meal.
func (ctl *FoodItemController) CreateFoodItem(c *gin.Context) {
	meal, ok := ctl.mealFromPath(c)
	if !ok {
		return
	}

	var body services.FoodItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := ctl.meals.AddFoodItem(c.Request.Context(), meal.ID, body)
	if err != nil {
		writeNutritionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// UpdateFoodItem re-resolves the item's food. Routed without a meal prefix;
// ownership is checked through the item's parent meal.
func (ctl *FoodItemController) UpdateFoodItem(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food item id"})
		return
	}

	existing, err := ctl.meals.GetFoodItem(uint(itemID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load food item"})
		return
	}
	if existing == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "food item does not exist"})
		return
	}
	if !ctl.ownsMeal(c, existing.MealID) {
		return
	}

	var body services.FoodItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := ctl.meals.UpdateFoodItem(c.Request.Context(), uint(itemID), body)
	if err != nil {
		writeNutritionError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "food item does not exist"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (ctl *FoodItemController) DeleteFoodItem(c *gin.Context) {
	meal, ok := ctl.mealFromPath(c)
	if !ok {
		return
	}

	itemID, err := strconv.ParseUint(c.Param("item_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid food item id"})
		return
	}

	if err := ctl.meals.DeleteFoodItem(meal.ID, uint(itemID)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "food item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": strconv.FormatUint(itemID, 10)})
}

func (ctl *FoodItemController) mealFromPath(c *gin.Context) (*mealRef, bool) {
	id, err := strconv.ParseUint(c.Param("meal_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid meal id"})
		return nil, false
	}

	meal, err := ctl.meals.GetMeal(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load meal"})
		return nil, false
	}
	if meal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return nil, false
	}

	user := middlewares.CurrentUser(c)
	if meal.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access forbidden"})
		return nil, false
	}
	return &mealRef{ID: meal.ID}, true
}

func (ctl *FoodItemController) ownsMeal(c *gin.Context, mealID uint) bool {
	meal, err := ctl.meals.GetMeal(mealID)
	if err != nil || meal == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
		return false
	}
	user := middlewares.CurrentUser(c)
	if meal.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access forbidden"})
		return false
	}
	return true
}

type mealRef struct {
	ID uint
}

// writeNutritionError maps each pipeline error kind to its one stable
// response.
func writeNutritionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNutritionDataRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Bad Request, Parsed Text Required"})
	case errors.Is(err, services.ErrFoodItemDoesNotExist):
		c.JSON(http.StatusNotFound, gin.H{"error": "Food Not Found. Is the spelling correct?"})
	case errors.Is(err, services.ErrServiceUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Nutrition Service is unavailable"})
	case errors.Is(err, services.ErrDuplicateFoodItem):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cannot have duplicate food item in meal."})
	case errors.Is(err, services.ErrInvalidMeasurement):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server Error. Please contact service administrator"})
	}
}
