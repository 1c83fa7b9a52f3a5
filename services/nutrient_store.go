package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/models"
)

// NutrientStore is the local repository for canonical foods and the nutrient
// catalog. It is handed to the resolver as an explicit capability so tests
// can substitute a fake.
type NutrientStore struct {
	db *gorm.DB
}

func NewNutrientStore(db *gorm.DB) *NutrientStore {
	return &NutrientStore{db: db}
}

// LookupFood finds a food by its external identifier, associations included.
// An empty identifier is a miss, never a query.
func (s *NutrientStore) LookupFood(foodID string) (*models.Food, error) {
	if foodID == "" {
		return nil, nil
	}
	var food models.Food
	err := s.db.Preload("Nutrients.NutrientType").
		Where("food_id = ?", foodID).
		First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup food %q: %w", foodID, err)
	}
	return &food, nil
}

// LookupNutrientType finds a catalog entry by its canonical code.
func (s *NutrientStore) LookupNutrientType(code string) (*models.NutrientType, error) {
	return nutrientTypeByCode(s.db, code)
}

// nutrientTypeByCode is the single catalog query, usable both on the store
// handle and inside a transaction. A missing code is nil, not an error.
func nutrientTypeByCode(db *gorm.DB, code string) (*models.NutrientType, error) {
	var nt models.NutrientType
	err := db.Where("code = ?", code).First(&nt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup nutrient type %q: %w", code, err)
	}
	return &nt, nil
}

// PersistNewFood creates the food together with every association whose
// nutrient code exists in the catalog; unknown codes are dropped. The food
// and its associations commit as one unit, so a concurrent reader never
// observes a partial nutrient set. A unique-constraint hit on the identifier
// maps to ErrFoodAlreadyExists.
func (s *NutrientStore) PersistNewFood(foodID, name string, quantities map[string]float64) (*models.Food, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var maxIndex uint
		row := tx.Model(&models.Food{}).Select("COALESCE(MAX(food_index), 0)").Row()
		if err := row.Scan(&maxIndex); err != nil {
			return fmt.Errorf("next food index: %w", err)
		}

		food := models.Food{
			FoodID:    foodID,
			FoodName:  name,
			FoodType:  models.FoodTypeItem,
			Enabled:   true,
			FoodIndex: maxIndex + 1,
		}
		if err := tx.Create(&food).Error; err != nil {
			return err
		}

		for code, quantity := range quantities {
			nt, err := nutrientTypeByCode(tx, code)
			if err != nil {
				return err
			}
			if nt == nil {
				continue
			}

			assoc := models.NutrientAssociation{
				FoodID:         foodID,
				NutrientTypeID: nt.ID,
				Value:          roundHalfEven(quantity),
			}
			if err := tx.Create(&assoc).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, fmt.Errorf("%w: %s", ErrFoodAlreadyExists, foodID)
	}
	if err != nil {
		return nil, fmt.Errorf("persist food %q: %w", foodID, err)
	}

	return s.LookupFood(foodID)
}

// MeasurementBySuffix finds the unit conversion for a suffix; the error for
// an unknown suffix lists the ones that exist.
func (s *NutrientStore) MeasurementBySuffix(suffix string) (*models.Measurement, error) {
	var m models.Measurement
	err := s.db.Where("suffix = ?", suffix).First(&m).Error
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup measurement %q: %w", suffix, err)
	}

	var suffixes []string
	if err := s.db.Model(&models.Measurement{}).Pluck("suffix", &suffixes).Error; err != nil {
		return nil, fmt.Errorf("list measurements: %w", err)
	}
	return nil, fmt.Errorf("provided measurement type does not exist, available measurements are: %s",
		strings.Join(suffixes, ", "))
}

// roundHalfEven rounds to 5 decimal places with banker's rounding, matching
// the precision nutrient values are stored at.
func roundHalfEven(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).RoundBank(5).Float64()
	return f
}
