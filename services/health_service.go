package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/models"
)

// HealthService covers health profiles and health records.
type HealthService struct {
	db *gorm.DB
}

func NewHealthService(db *gorm.DB) *HealthService {
	return &HealthService{db: db}
}

// ProfileInput carries the mutable profile fields.
type ProfileInput struct {
	DateOfBirth *time.Time `json:"date_of_birth"`
	Gender      string     `json:"gender"`
	Height      float64    `json:"height"`
	Ethnicity   int        `json:"ethnicity"`

	FamilyHistoryDiabetesNonImmediate  bool `json:"family_history_diabetes_non_immediate"`
	FamilyHistoryDiabetesParents       bool `json:"family_history_diabetes_parents"`
	FamilyHistoryDiabetesSiblings      bool `json:"family_history_diabetes_siblings"`
	FamilyHistoryDiabetesChildren      bool `json:"family_history_diabetes_children"`
	HighBloodGlucoseHistory            bool `json:"high_blood_glucose_history"`
	HighBloodPressureMedicationHistory bool `json:"high_blood_pressure_medication_history"`
}

func (s *HealthService) GetProfile(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile for user %d: %w", userID, err)
	}
	return &profile, nil
}

// UpsertProfile creates the profile on first write, updates it afterwards.
func (s *HealthService) UpsertProfile(userID uint, in ProfileInput) (*models.Profile, error) {
	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		profile = &models.Profile{UserID: userID}
	}

	profile.DateOfBirth = in.DateOfBirth
	profile.Gender = in.Gender
	profile.Height = in.Height
	profile.Ethnicity = in.Ethnicity
	profile.FamilyHistoryDiabetesNonImmediate = in.FamilyHistoryDiabetesNonImmediate
	profile.FamilyHistoryDiabetesParents = in.FamilyHistoryDiabetesParents
	profile.FamilyHistoryDiabetesSiblings = in.FamilyHistoryDiabetesSiblings
	profile.FamilyHistoryDiabetesChildren = in.FamilyHistoryDiabetesChildren
	profile.HighBloodGlucoseHistory = in.HighBloodGlucoseHistory
	profile.HighBloodPressureMedicationHistory = in.HighBloodPressureMedicationHistory

	if err := s.db.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("save profile for user %d: %w", userID, err)
	}
	return profile, nil
}

// HealthRecordInput carries the mutable health record fields.
type HealthRecordInput struct {
	WaistCircumference      float64 `json:"waist_circumference"`
	Weight                  float64 `json:"weight"`
	BloodPressureMedication bool    `json:"blood_pressure_medication"`
	PhysicalExerciseHours   int     `json:"physical_exercise_hours"`
	PhysicalExerciseMinutes int     `json:"physical_exercise_minutes"`
	Smoking                 bool    `json:"smoking"`

	VegetableFruitBerriesConsumption bool    `json:"vegetable_fruit_berries_consumption"`
	SystolicPressure                 float64 `json:"systolic_pressure"`
	FastingBloodGlucose              float64 `json:"fasting_blood_glucose"`
	HDLCholesterol                   float64 `json:"hdl_cholesterol"`
	Triglycerides                    float64 `json:"triglycerides"`
}

func (s *HealthService) ListHealthRecords(userID uint, skip, limit int) ([]models.HealthRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	var records []models.HealthRecord
	err := s.db.
		Where("user_id = ?", userID).
		Order("id DESC").
		Offset(skip).
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	return records, nil
}

func (s *HealthService) LatestHealthRecord(userID uint) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := s.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest health record: %w", err)
	}
	return &record, nil
}

func (s *HealthService) GetHealthRecord(recordID uint) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := s.db.First(&record, recordID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get health record %d: %w", recordID, err)
	}
	return &record, nil
}

func (s *HealthService) CreateHealthRecord(userID uint, in HealthRecordInput) (*models.HealthRecord, error) {
	record := models.HealthRecord{UserID: userID}
	applyHealthRecordInput(&record, in)
	if err := s.db.Create(&record).Error; err != nil {
		return nil, fmt.Errorf("create health record: %w", err)
	}
	return &record, nil
}

func (s *HealthService) UpdateHealthRecord(recordID uint, in HealthRecordInput) (*models.HealthRecord, error) {
	record, err := s.GetHealthRecord(recordID)
	if err != nil || record == nil {
		return record, err
	}
	applyHealthRecordInput(record, in)
	if err := s.db.Save(record).Error; err != nil {
		return nil, fmt.Errorf("update health record %d: %w", recordID, err)
	}
	return record, nil
}

func (s *HealthService) DeleteHealthRecord(recordID uint) error {
	return s.db.Delete(&models.HealthRecord{}, recordID).Error
}

func applyHealthRecordInput(record *models.HealthRecord, in HealthRecordInput) {
	record.WaistCircumference = in.WaistCircumference
	record.Weight = in.Weight
	record.BloodPressureMedication = in.BloodPressureMedication
	record.PhysicalExerciseHours = in.PhysicalExerciseHours
	record.PhysicalExerciseMinutes = in.PhysicalExerciseMinutes
	record.Smoking = in.Smoking
	record.VegetableFruitBerriesConsumption = in.VegetableFruitBerriesConsumption
	record.SystolicPressure = in.SystolicPressure
	record.FastingBloodGlucose = in.FastingBloodGlucose
	record.HDLCholesterol = in.HDLCholesterol
	record.Triglycerides = in.Triglycerides
}
