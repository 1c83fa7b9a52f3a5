package models

import "time"

const (
	FoodTypeItem = 0
	FoodTypeDish = 1
)

// Food is the canonical nutrient-bearing entity, keyed by the identifier
// shared with the external nutrition API. Foods are never deleted, only
// disabled by the offline metadata sync.
type Food struct {
	FoodID    string `gorm:"primaryKey;type:varchar(255)"`
	FoodName  string
	FoodType  int  `gorm:"default:0"`
	Enabled   bool `gorm:"default:true"`
	FoodIndex uint `gorm:"index"`
	CreatedAt time.Time

	Nutrients []NutrientAssociation `gorm:"foreignKey:FoodID;references:FoodID"`
}

// NutrientType is a catalog entry maintained by the offline sync process.
type NutrientType struct {
	ID                uint   `gorm:"primaryKey"`
	Code              string `gorm:"type:varchar(16);uniqueIndex"`
	Name              string
	MeasurementSuffix string
	Enabled           bool `gorm:"default:true"`
}

// NutrientAssociation stores the quantity of one nutrient per one gram of
// food, rounded to 5 decimal places. Rows are written once at food creation
// and never updated.
type NutrientAssociation struct {
	FoodID         string  `gorm:"primaryKey;type:varchar(255)"`
	NutrientTypeID uint    `gorm:"primaryKey"`
	Value          float64

	NutrientType NutrientType `gorm:"foreignKey:NutrientTypeID"`
}
