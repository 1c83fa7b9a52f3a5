package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jkong61/health-backend-app/middlewares"
	"github.com/jkong61/health-backend-app/services"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (ctl *UserController) GetUser(c *gin.Context) {
	c.JSON(http.StatusOK, middlewares.CurrentUser(c))
}

func (ctl *UserController) UpdateInfo(c *gin.Context) {
	var body struct {
		Name               string `json:"name"`
		ContactInformation string `json:"contact_information"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	updated, err := ctl.users.UpdateInfo(user.ID, body.Name, body.ContactInformation)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update user"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (ctl *UserController) UpdatePushToken(c *gin.Context) {
	var body struct {
		PushToken string `json:"push_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := middlewares.CurrentUser(c)
	updated, err := ctl.users.UpdatePushToken(user.ID, body.PushToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update push token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (ctl *UserController) DeletePushToken(c *gin.Context) {
	user := middlewares.CurrentUser(c)
	if _, err := ctl.users.UpdatePushToken(user.ID, ""); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not clear push token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "push token cleared"})
}
