package handlers

import (
	"context"
	"net/http"

	"quiz-backend/internal/models"
	"quiz-backend/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{Service: s}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := h.Service.GetUser(context.Background(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	var profile models.Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.Service.UpdateProfile(context.Background(), id, profile)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.Response())
}
