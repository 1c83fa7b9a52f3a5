package models

import "gorm.io/gorm"

// Meal groups the food items a user logged together. Deletion is a
// timestamp (gorm soft delete), never a row removal.
type Meal struct {
	gorm.Model
	UserID       uint `gorm:"index;not null"`
	Image        string
	BloodGlucose *float64

	FoodItems []FoodItem
}

// FoodItem is one line inside a meal. FoodID is nullable: a free-text item
// exists without a food only while a request is being resolved, it is never
// persisted unresolved. PerUnitMeasurement counts consumed units of the
// referenced Measurement.
type FoodItem struct {
	gorm.Model
	MealID             uint    `gorm:"index;not null"`
	FoodID             *string `gorm:"index;type:varchar(255)"`
	MeasurementID      uint    `gorm:"not null"`
	PerUnitMeasurement float64 `gorm:"default:0"`
	VolumeConsumed     *float64
	NewFoodType        *string `gorm:"-"`

	Food        *Food       `gorm:"foreignKey:FoodID;references:FoodID"`
	Measurement Measurement `gorm:"foreignKey:MeasurementID"`
}
