package services

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jkong61/health-backend-app/config"
	"github.com/jkong61/health-backend-app/models"
)

// newTestDB opens a throwaway sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

func seedNutrientTypes(t *testing.T, db *gorm.DB) {
	t.Helper()
	types := []models.NutrientType{
		{Code: "ENERC_KCAL", Name: "Energy", MeasurementSuffix: "kcal", Enabled: true},
		{Code: "PROCNT", Name: "Protein", MeasurementSuffix: "g", Enabled: true},
	}
	if err := db.Create(&types).Error; err != nil {
		t.Fatalf("seed nutrient types: %v", err)
	}
}

func TestLookupFoodEmptyIdentifier(t *testing.T) {
	store := NewNutrientStore(newTestDB(t))
	food, err := store.LookupFood("")
	if err != nil {
		t.Fatalf("LookupFood(\"\") returned error: %v", err)
	}
	if food != nil {
		t.Fatalf("LookupFood(\"\") = %+v, want nil", food)
	}
}

func TestLookupFoodMiss(t *testing.T) {
	store := NewNutrientStore(newTestDB(t))
	food, err := store.LookupFood("food_missing")
	if err != nil {
		t.Fatalf("LookupFood returned error: %v", err)
	}
	if food != nil {
		t.Fatalf("LookupFood = %+v, want nil on miss", food)
	}
}

func TestPersistNewFoodSkipsUnknownCodesAndRounds(t *testing.T) {
	db := newTestDB(t)
	seedNutrientTypes(t, db)
	store := NewNutrientStore(db)

	food, err := store.PersistNewFood("food_a1", "Apple", map[string]float64{
		"ENERC_KCAL": 0.52,
		"PROCNT":     0.123456789,
		"XYZ_FAKE":   9.9, // not in the catalog, must be dropped
	})
	if err != nil {
		t.Fatalf("PersistNewFood returned error: %v", err)
	}

	if food.FoodName != "Apple" || !food.Enabled {
		t.Fatalf("food = %+v, want enabled Apple", food)
	}
	if len(food.Nutrients) != 2 {
		t.Fatalf("food has %d associations, want 2 (unknown code dropped)", len(food.Nutrients))
	}

	values := map[string]float64{}
	for _, assoc := range food.Nutrients {
		values[assoc.NutrientType.Code] = assoc.Value
	}
	if values["ENERC_KCAL"] != 0.52 {
		t.Fatalf("ENERC_KCAL = %v, want 0.52", values["ENERC_KCAL"])
	}
	if values["PROCNT"] != 0.12346 {
		t.Fatalf("PROCNT = %v, want 0.12346 (rounded to 5 decimals)", values["PROCNT"])
	}
}

func TestPersistRoundingIsHalfEven(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.000025, 0.00002}, // tie rounds to even neighbour
		{0.000035, 0.00004},
		{0.999999, 1.0},
	}
	for _, tt := range cases {
		if got := roundHalfEven(tt.in); got != tt.want {
			t.Fatalf("roundHalfEven(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestPersistNewFoodAssignsInsertionOrder(t *testing.T) {
	db := newTestDB(t)
	seedNutrientTypes(t, db)
	store := NewNutrientStore(db)

	first, err := store.PersistNewFood("food_a1", "Apple", nil)
	if err != nil {
		t.Fatalf("persist first food: %v", err)
	}
	second, err := store.PersistNewFood("food_b2", "Banana", nil)
	if err != nil {
		t.Fatalf("persist second food: %v", err)
	}
	if second.FoodIndex <= first.FoodIndex {
		t.Fatalf("food index %d not after %d", second.FoodIndex, first.FoodIndex)
	}
}

func TestPersistNewFoodDuplicateIdentifier(t *testing.T) {
	db := newTestDB(t)
	seedNutrientTypes(t, db)
	store := NewNutrientStore(db)

	if _, err := store.PersistNewFood("food_a1", "Apple", nil); err != nil {
		t.Fatalf("first persist: %v", err)
	}
	_, err := store.PersistNewFood("food_a1", "Apple again", nil)
	if !errors.Is(err, ErrFoodAlreadyExists) {
		t.Fatalf("second persist error = %v, want ErrFoodAlreadyExists", err)
	}
}

func TestLookupNutrientType(t *testing.T) {
	db := newTestDB(t)
	seedNutrientTypes(t, db)
	store := NewNutrientStore(db)

	nt, err := store.LookupNutrientType("PROCNT")
	if err != nil {
		t.Fatalf("LookupNutrientType returned error: %v", err)
	}
	if nt == nil || nt.Name != "Protein" {
		t.Fatalf("LookupNutrientType = %+v, want Protein", nt)
	}

	missing, err := store.LookupNutrientType("NOPE")
	if err != nil || missing != nil {
		t.Fatalf("unknown code = (%+v, %v), want (nil, nil)", missing, err)
	}
}

func TestMeasurementBySuffixListsAvailable(t *testing.T) {
	db := newTestDB(t)
	if err := db.Create(&[]models.Measurement{
		{Description: "Gram", ConversionToG: 1, Suffix: "g", Enabled: true},
		{Description: "Cup", ConversionToG: 240, Suffix: "cup", Enabled: true},
	}).Error; err != nil {
		t.Fatalf("seed measurements: %v", err)
	}
	store := NewNutrientStore(db)

	m, err := store.MeasurementBySuffix("cup")
	if err != nil {
		t.Fatalf("MeasurementBySuffix returned error: %v", err)
	}
	if m.ConversionToG != 240 {
		t.Fatalf("cup converts to %v g, want 240", m.ConversionToG)
	}

	_, err = store.MeasurementBySuffix("barrel")
	if err == nil {
		t.Fatal("unknown suffix did not error")
	}
	if !strings.Contains(err.Error(), "g") || !strings.Contains(err.Error(), "cup") {
		t.Fatalf("error %q does not list available suffixes", err)
	}
}
