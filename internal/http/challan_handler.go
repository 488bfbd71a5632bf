package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/service"
)

type accusedPayload struct {
	CNIC     string `json:"cnic" binding:"required,cnic"`
	FullName string `json:"full_name" binding:"max=255"`
	City     string `json:"city"`
	Province string `json:"province"`
	Address  string `json:"address"`
	Contact  string `json:"contact"`
	Email    string `json:"email" binding:"omitempty,email"`
}

type vehiclePayload struct {
	PlateNumber      string `json:"plate_number" binding:"required,max=32"`
	Make             string `json:"make"`
	Model            string `json:"model"`
	Color            string `json:"color"`
	VehicleType      string `json:"vehicle_type"`
	RegistrationYear *int   `json:"registration_year" binding:"omitempty,gte=1900"`
}

func (h *Handler) createChallan(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		ViolationID      uuid.UUID      `json:"violation_id" binding:"required"`
		EmissionReportID *uuid.UUID     `json:"emission_report_id"`
		Accused          accusedPayload `json:"accused"`
		Vehicle          vehiclePayload `json:"vehicle"`
		Location         string         `json:"location"`
		IssueDateTime    *time.Time     `json:"issue_date_time"`
		// Evidence image, base64 in JSON.
		Evidence []byte `json:"evidence"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	challan, err := h.challan.Create(c.Request.Context(), principal, service.IssueChallanInput{
		ViolationID:      req.ViolationID,
		EmissionReportID: req.EmissionReportID,
		Accused: service.AccusedInput{
			CNIC:     req.Accused.CNIC,
			FullName: req.Accused.FullName,
			City:     req.Accused.City,
			Province: req.Accused.Province,
			Address:  req.Accused.Address,
			Contact:  req.Accused.Contact,
			Email:    req.Accused.Email,
		},
		Vehicle: service.VehicleInput{
			PlateNumber:      req.Vehicle.PlateNumber,
			Make:             req.Vehicle.Make,
			Model:            req.Vehicle.Model,
			Color:            req.Vehicle.Color,
			VehicleType:      req.Vehicle.VehicleType,
			RegistrationYear: req.Vehicle.RegistrationYear,
		},
		Location:      req.Location,
		IssueDateTime: req.IssueDateTime,
		Evidence:      req.Evidence,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(challan))
}

func (h *Handler) getChallan(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "challan")
	if !ok {
		return
	}

	challan, err := h.challan.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(challan))
}

// getChallanEvidence streams the stored image rather than the JSON envelope.
func (h *Handler) getChallanEvidence(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "challan")
	if !ok {
		return
	}

	data, err := h.challan.Evidence(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Cache-Control", "private, no-store")
	c.Data(http.StatusOK, http.DetectContentType(data), data)
}

func (h *Handler) updateChallanStatus(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "challan")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required,oneof=Paid Disputed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	challan, err := h.challan.UpdateStatus(c.Request.Context(), principal, id, model.ChallanStatus(req.Status))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(challan))
}
