package main

import (
	"log"
	"log/slog"

	"github.com/jkong61/health-backend-app/config"
	"github.com/jkong61/health-backend-app/controllers"
	"github.com/jkong61/health-backend-app/routes"
	"github.com/jkong61/health-backend-app/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	db := config.InitDB(cfg)

	logger := slog.Default()

	store := services.NewNutrientStore(db)
	edamam := services.NewEdamamService(cfg.Edamam)
	resolver := services.NewFoodResolver(store, edamam, logger)

	hub := services.NewRealtimeHub()

	userSvc := services.NewUserService(db)
	authSvc := services.NewAuthService(db, cfg.JWTSecret, cfg.TokenExpireDays)
	healthSvc := services.NewHealthService(db)
	mealSvc := services.NewMealService(db, store, resolver)
	clinicianSvc := services.NewClinicianService(db, userSvc, services.LogPushSender{Log: logger}, hub, logger)

	r := routes.SetupRouter(db, cfg.JWTSecret, routes.Controllers{
		Auth:      controllers.NewAuthController(authSvc),
		User:      controllers.NewUserController(userSvc),
		Health:    controllers.NewHealthController(healthSvc),
		Meal:      controllers.NewMealController(mealSvc),
		FoodItem:  controllers.NewFoodItemController(mealSvc),
		Clinician: controllers.NewClinicianController(clinicianSvc, healthSvc, mealSvc),
		Realtime:  controllers.NewRealtimeController(hub),
	})

	if err := r.Run(cfg.ServerAddr); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
