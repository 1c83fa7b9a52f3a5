package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jkong61/health-backend-app/controllers"
	"github.com/jkong61/health-backend-app/middlewares"
)

// Controllers bundles everything the router wires up.
type Controllers struct {
	Auth      *controllers.AuthController
	User      *controllers.UserController
	Health    *controllers.HealthController
	Meal      *controllers.MealController
	FoodItem  *controllers.FoodItemController
	Clinician *controllers.ClinicianController
	Realtime  *controllers.RealtimeController
}

func SetupRouter(db *gorm.DB, jwtSecret string, ctl Controllers) *gin.Engine {
	r := gin.Default()
	r.Use(middlewares.RequestID())

	// Public auth routes
	auth := r.Group("/auth")
	{
		auth.POST("/register", ctl.Auth.Register)
		auth.POST("/login", ctl.Auth.Login)
	}

	authed := r.Group("/")
	authed.Use(middlewares.AuthMiddleware(db, jwtSecret))
	{
		authed.GET("/user", ctl.User.GetUser)
		authed.PUT("/user", ctl.User.UpdateInfo)
		authed.PUT("/user/password", ctl.Auth.ChangePassword)
		authed.PUT("/user/push-token", ctl.User.UpdatePushToken)
		authed.DELETE("/user/push-token", ctl.User.DeletePushToken)

		authed.GET("/profile", ctl.Health.GetProfile)
		authed.POST("/profile", ctl.Health.UpsertProfile)
		authed.PUT("/profile", ctl.Health.UpsertProfile)

		authed.GET("/health-records", ctl.Health.ListHealthRecords)
		authed.GET("/health-records/latest", ctl.Health.LatestHealthRecord)
		authed.GET("/health-records/:id", ctl.Health.GetHealthRecord)
		authed.POST("/health-records", ctl.Health.CreateHealthRecord)
		authed.PUT("/health-records/:id", ctl.Health.UpdateHealthRecord)
		authed.DELETE("/health-records/:id", ctl.Health.DeleteHealthRecord)

		authed.GET("/meals", ctl.Meal.ListMeals)
		authed.POST("/meals", ctl.Meal.CreateMeal)
		authed.GET("/meals/:meal_id", ctl.Meal.GetMeal)
		authed.PUT("/meals/:meal_id/blood-glucose", ctl.Meal.UpdateBloodGlucose)
		authed.DELETE("/meals/:meal_id", ctl.Meal.DeleteMeal)

		authed.GET("/meals/:meal_id/food-items", ctl.FoodItem.ListFoodItems)
		authed.POST("/meals/:meal_id/food-items", ctl.FoodItem.CreateFoodItem)
		authed.GET("/meals/:meal_id/food-items/:item_id", ctl.FoodItem.GetFoodItem)
		authed.DELETE("/meals/:meal_id/food-items/:item_id", ctl.FoodItem.DeleteFoodItem)
		authed.PUT("/food-items/:item_id", ctl.FoodItem.UpdateFoodItem)

		authed.GET("/realtime/assignments", ctl.Realtime.AssignmentsWS)

		authed.GET("/clinicians", ctl.Clinician.ListClinicians)
		authed.POST("/clinicians/assignments", ctl.Clinician.CreateAssignment)
		authed.GET("/clinicians/assignments", ctl.Clinician.UserAssignments)
	}

	clinician := r.Group("/clinician")
	clinician.Use(middlewares.AuthMiddleware(db, jwtSecret), middlewares.ClinicianOnly())
	{
		clinician.GET("/assignments", ctl.Clinician.ClinicianAssignments)
		clinician.PUT("/assignments/:assignment_id/accept", ctl.Clinician.AcceptAssignment)
		clinician.PUT("/assignments/:assignment_id/decline", ctl.Clinician.DeclineAssignment)
		clinician.GET("/assigned-users/:user_id/health-profile", ctl.Clinician.AssignedUserProfile)
		clinician.GET("/assigned-users/:user_id/health-records", ctl.Clinician.AssignedUserHealthRecords)
		clinician.GET("/assigned-users/:user_id/meals", ctl.Clinician.AssignedUserMeals)
	}

	return r
}
