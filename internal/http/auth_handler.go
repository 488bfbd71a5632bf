package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/service"
)

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(result))
}

func (h *Handler) createUser(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Username  string     `json:"username" binding:"required,min=3,max=64"`
		Password  string     `json:"password" binding:"required,min=8"`
		FullName  string     `json:"full_name" binding:"required"`
		Email     string     `json:"email" binding:"omitempty,email"`
		Role      string     `json:"role" binding:"required"`
		StationID *uuid.UUID `json:"station_id"`
		CourtID   *uuid.UUID `json:"court_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	user, err := h.auth.CreateUser(c.Request.Context(), principal, service.CreateUserInput{
		Username:  req.Username,
		Password:  req.Password,
		FullName:  req.FullName,
		Email:     req.Email,
		Role:      model.Role(req.Role),
		StationID: req.StationID,
		CourtID:   req.CourtID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(user))
}
