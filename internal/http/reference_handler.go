package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noise-sentinel/internal/service"
)

func (h *Handler) createStation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		StationCode string `json:"station_code" binding:"required,max=32"`
		District    string `json:"district"`
		City        string `json:"city"`
		Province    string `json:"province"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	station, err := h.reference.CreateStation(c.Request.Context(), principal, service.StationInput{
		Name:        req.Name,
		StationCode: req.StationCode,
		District:    req.District,
		City:        req.City,
		Province:    req.Province,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(station))
}

func (h *Handler) createCourt(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		CourtType string `json:"court_type" binding:"required"`
		City      string `json:"city" binding:"required"`
		Province  string `json:"province"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	court, err := h.reference.CreateCourt(c.Request.Context(), principal, service.CourtInput{
		Name:      req.Name,
		CourtType: req.CourtType,
		City:      req.City,
		Province:  req.Province,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(court))
}

func (h *Handler) registerDevice(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		DeviceCode string     `json:"device_code" binding:"required,max=64"`
		StationID  *uuid.UUID `json:"station_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	device, err := h.reference.RegisterDevice(c.Request.Context(), principal, service.DeviceInput{
		DeviceCode: req.DeviceCode,
		StationID:  req.StationID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(device))
}

func (h *Handler) calibrateDevice(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "device")
	if !ok {
		return
	}

	device, err := h.reference.CalibrateDevice(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(device))
}

func (h *Handler) listViolations(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	violations, err := h.reference.ListViolations(c.Request.Context(), principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(gin.H{"items": violations}))
}

func (h *Handler) createViolation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		Name          string  `json:"name" binding:"required,max=128"`
		Description   string  `json:"description"`
		PenaltyAmount float64 `json:"penalty_amount" binding:"gte=0"`
		IsCognizable  bool    `json:"is_cognizable"`
		SectionOfLaw  string  `json:"section_of_law"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	violation, err := h.reference.CreateViolation(c.Request.Context(), principal, service.ViolationInput{
		Name:          req.Name,
		Description:   req.Description,
		PenaltyAmount: req.PenaltyAmount,
		IsCognizable:  req.IsCognizable,
		SectionOfLaw:  req.SectionOfLaw,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(violation))
}
