package models

import "gorm.io/gorm"

type HealthRecord struct {
	gorm.Model
	UserID uint `gorm:"index;not null"`

	WaistCircumference      float64
	Weight                  float64
	BloodPressureMedication bool
	PhysicalExerciseHours   int
	PhysicalExerciseMinutes int
	Smoking                 bool

	VegetableFruitBerriesConsumption bool
	SystolicPressure                 float64
	FastingBloodGlucose              float64
	HDLCholesterol                   float64
	Triglycerides                    float64
}
