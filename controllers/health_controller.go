package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jkong61/health-backend-app/middlewares"
	"github.com/jkong61/health-backend-app/models"
	"github.com/jkong61/health-backend-app/services"
)

// HealthController serves the user's own health profile and records.
type HealthController struct {
	health *services.HealthService
}

func NewHealthController(health *services.HealthService) *HealthController {
	return &HealthController{health: health}
}

func (ctl *HealthController) GetProfile(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	profile, err := ctl.health.GetProfile(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *HealthController) UpsertProfile(c *gin.Context) {
	var body services.ProfileInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	profile, err := ctl.health.UpsertProfile(user.ID, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (ctl *HealthController) ListHealthRecords(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	skip, limit := listQuery(c)
	records, err := ctl.health.ListHealthRecords(user.ID, skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load health records"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (ctl *HealthController) LatestHealthRecord(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	record, err := ctl.health.LatestHealthRecord(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load health record"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no health records"})
		return
	}
	c.JSON(http.StatusOK, record)
}

func (ctl *HealthController) GetHealthRecord(c *gin.Context) {
	record, ok := ctl.ownedRecord(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

func (ctl *HealthController) CreateHealthRecord(c *gin.Context) {
	var body services.HealthRecordInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	record, err := ctl.health.CreateHealthRecord(user.ID, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create health record"})
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (ctl *HealthController) UpdateHealthRecord(c *gin.Context) {
	record, ok := ctl.ownedRecord(c)
	if !ok {
		return
	}

	var body services.HealthRecordInput
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := ctl.health.UpdateHealthRecord(record.ID, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update health record"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (ctl *HealthController) DeleteHealthRecord(c *gin.Context) {
	record, ok := ctl.ownedRecord(c)
	if !ok {
		return
	}
	if err := ctl.health.DeleteHealthRecord(record.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete health record"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": strconv.FormatUint(uint64(record.ID), 10)})
}

// ownedRecord loads the :id record and enforces that it belongs to the
// caller; writes the response itself when it does not.
func (ctl *HealthController) ownedRecord(c *gin.Context) (record *models.HealthRecord, ok bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid health record id"})
		return nil, false
	}

	rec, err := ctl.health.GetHealthRecord(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load health record"})
		return nil, false
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "health record not found"})
		return nil, false
	}

	user := middlewares.CurrentUser(c)
	if rec.UserID != user.ID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid health record ID"})
		return nil, false
	}
	return rec, true
}

func listQuery(c *gin.Context) (skip, limit int) {
	skip, _ = strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	return skip, limit
}
