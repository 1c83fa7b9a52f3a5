package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jkong61/health-backend-app/middlewares"
	"github.com/jkong61/health-backend-app/models"
	"github.com/jkong61/health-backend-app/services"
)

type MealController struct {
	meals *services.MealService
}

func NewMealController(meals *services.MealService) *MealController {
	return &MealController{meals: meals}
}

func (ctl *MealController) ListMeals(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	skip, limit := listQuery(c)
	meals, err := ctl.meals.ListMeals(user.ID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load meals"})
		return
	}
	c.JSON(http.StatusOK, meals)
}

func (ctl *MealController) CreateMeal(c *gin.Context) {
	var body struct {
		Image string `json:"image"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	meal, err := ctl.meals.CreateMeal(user.ID, body.Image)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create meal"})
		return
	}
	c.JSON(http.StatusCreated, meal)
}

func (ctl *MealController) GetMeal(c *gin.Context) {
	meal, ok := ctl.ownedMeal(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, meal)
}

func (ctl *MealController) UpdateBloodGlucose(c *gin.Context) {
	meal, ok := ctl.ownedMeal(c)
	if !ok {
		return
	}

	var body struct {
		BloodGlucose float64 `json:"blood_glucose" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.meals.UpdateBloodGlucose(meal.ID, body.BloodGlucose); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update blood glucose"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": strconv.FormatFloat(body.BloodGlucose, 'f', -1, 64)})
}

func (ctl *MealController) DeleteMeal(c *gin.Context) {
	meal, ok := ctl.ownedMeal(c)
	if !ok {
		return
	}
	if err := ctl.meals.DeleteMeal(meal.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete meal"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": strconv.FormatUint(uint64(meal.ID), 10)})
}

// ownedMeal loads the :meal_id meal and checks it belongs to the caller.
func (ctl *MealController) ownedMeal(c *gin.Context) (*models.Meal, bool) {
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
	return meal, true
}
