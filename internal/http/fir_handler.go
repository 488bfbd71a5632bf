package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/service"
)

func (h *Handler) createFir(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		ChallanID   uuid.UUID  `json:"challan_id" binding:"required"`
		StationID   *uuid.UUID `json:"station_id"`
		Description string     `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	fir, err := h.fir.Create(c.Request.Context(), principal, service.FileFirInput{
		ChallanID:   req.ChallanID,
		StationID:   req.StationID,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(fir))
}

func (h *Handler) getFir(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "FIR")
	if !ok {
		return
	}

	fir, err := h.fir.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(fir))
}

func (h *Handler) updateFirInvestigation(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "FIR")
	if !ok {
		return
	}

	var req struct {
		Status              string `json:"status" binding:"required"`
		InvestigationReport string `json:"investigation_report"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	fir, err := h.fir.UpdateInvestigation(c.Request.Context(), principal, id, model.FirStatus(req.Status), req.InvestigationReport)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(fir))
}
