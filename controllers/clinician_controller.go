package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jkong61/health-backend-app/middlewares"
	"github.com/jkong61/health-backend-app/services"
)

type ClinicianController struct {
	clinicians *services.ClinicianService
	health     *services.HealthService
	meals      *services.MealService
}

func NewClinicianController(clinicians *services.ClinicianService, health *services.HealthService, meals *services.MealService) *ClinicianController {
	return &ClinicianController{clinicians: clinicians, health: health, meals: meals}
}

func (ctl *ClinicianController) ListClinicians(c *gin.Context) {
	clinicians, err := ctl.clinicians.ListClinicians()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load clinicians"})
		return
	}
	c.JSON(http.StatusOK, clinicians)
}

// CreateAssignment lets the authenticated user request follow-up from a
// clinician.
func (ctl *ClinicianController) CreateAssignment(c *gin.Context) {
	var body struct {
		ClinicianID uint `json:"clinician_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	assignment, err := ctl.clinicians.CreateAssignment(body.ClinicianID, user.ID)
	switch {
	case errors.Is(err, services.ErrNotAClinician), errors.Is(err, services.ErrAssignmentExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create assignment"})
	default:
		c.JSON(http.StatusCreated, assignment)
	}
}

func (ctl *ClinicianController) UserAssignments(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	assignments, err := ctl.clinicians.UserAssignments(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load assignments"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (ctl *ClinicianController) ClinicianAssignments(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	assignments, err := ctl.clinicians.ClinicianAssignments(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load assignments"})
		return
	}
	c.JSON(http.StatusOK, assignments)
}

func (ctl *ClinicianController) AcceptAssignment(c *gin.Context) {
	ctl.respond(c, true)
}

func (ctl *ClinicianController) DeclineAssignment(c *gin.Context) {
	ctl.respond(c, false)
}

func (ctl *ClinicianController) respond(c *gin.Context, accepted bool) {
	id, err := strconv.ParseUint(c.Param("assignment_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assignment id"})
		return
	}

	assignment, err := ctl.clinicians.GetAssignment(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load assignment"})
		return
	}
	user := middlewares.CurrentUser(c)
	if assignment == nil || assignment.ClinicianID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "clinician assignment not found"})
		return
	}

	updated, err := ctl.clinicians.RespondToAssignment(uint(id), accepted)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update assignment"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

// AssignedUserProfile serves the read-only clinician view of a patient's
// profile, gated on an accepted assignment.
func (ctl *ClinicianController) AssignedUserProfile(c *gin.Context) {
	userID, ok := ctl.assignedUser(c)
	if !ok {
		return
	}
	profile, err := ctl.health.GetProfile(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *ClinicianController) AssignedUserHealthRecords(c *gin.Context) {
	userID, ok := ctl.assignedUser(c)
	if !ok {
		return
	}
	skip, limit := listQuery(c)
	records, err := ctl.health.ListHealthRecords(userID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load health records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (ctl *ClinicianController) AssignedUserMeals(c *gin.Context) {
	userID, ok := ctl.assignedUser(c)
	if !ok {
		return
	}
	skip, limit := listQuery(c)
	meals, err := ctl.meals.ListMeals(userID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load meals"})
		return
	}
	c.JSON(http.StatusOK, meals)
}

// assignedUser parses the :user_id path param and enforces the assignment
// gate for the authenticated clinician.
func (ctl *ClinicianController) assignedUser(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return 0, false
	}

	clinician := middlewares.CurrentUser(c)
	assigned, err := ctl.clinicians.CheckAssignment(clinician.ID, uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify assignment"})
		return 0, false
	}
	if !assigned {
		c.JSON(http.StatusForbidden, gin.H{"error": "no accepted assignment for this user"})
		return 0, false
	}
	return uint(id), true
}
