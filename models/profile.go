package models

import (
	"time"

	"gorm.io/gorm"
)

type Profile struct {
	gorm.Model
	UserID      uint `gorm:"uniqueIndex;not null"`
	DateOfBirth *time.Time
	Gender      string
	Height      float64
	Ethnicity   int

	FamilyHistoryDiabetesNonImmediate bool
	FamilyHistoryDiabetesParents      bool
	FamilyHistoryDiabetesSiblings     bool
	FamilyHistoryDiabetesChildren     bool
	HighBloodGlucoseHistory           bool
	HighBloodPressureMedicationHistory bool
}
