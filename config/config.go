package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/models"
)

// Config captures everything the server reads from the environment.
type Config struct {
	ServerAddr string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	JWTSecret       string
	TokenExpireDays int

	Edamam EdamamConfig
}

// EdamamConfig holds the external nutrition API settings. The parser and
// nutrients endpoints use separate credential pairs.
type EdamamConfig struct {
	BaseURL         string
	FoodAppID       string
	FoodAppKey      string
	NutritionAppID  string
	NutritionAppKey string
	GramMeasureURI  string
}

// Load reads .env if present and builds the Config from the environment.
func Load() (Config, error) {
	// .env is optional in deployed environments
	_ = godotenv.Load()

	cfg := Config{
		ServerAddr: envOr("SERVER_ADDR", ":8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBPort:     envOr("DB_PORT", "5432"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		Edamam: EdamamConfig{
			BaseURL:         envOr("EXTERNAL_API_URL", "https://api.edamam.com/api/food-database/v2"),
			FoodAppID:       os.Getenv("FOOD_APP_ID"),
			FoodAppKey:      os.Getenv("FOOD_APP_KEY"),
			NutritionAppID:  os.Getenv("NUTRITION_APP_ID"),
			NutritionAppKey: os.Getenv("NUTRITION_APP_KEY"),
			GramMeasureURI:  envOr("EXTERNAL_MEASUREMENT_URI", "http://www.edamam.com/ontologies/edamam.owl#Measure_gram"),
		},
	}

	cfg.TokenExpireDays = 7
	if v := os.Getenv("ACCESS_TOKEN_EXPIRE_DURATION"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_DURATION: %w", err)
		}
		cfg.TokenExpireDays = days
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET must be set")
	}

	return cfg, nil
}

// InitDB opens the Postgres connection and migrates the schema.
func InitDB(cfg Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

// Migrate runs schema migration for every model. Shared with the test
// suites that run against sqlite.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.ClinicianAssignment{},
		&models.Profile{},
		&models.HealthRecord{},
		&models.Food{},
		&models.NutrientType{},
		&models.NutrientAssociation{},
		&models.Measurement{},
		&models.Meal{},
		&models.FoodItem{},
	)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
