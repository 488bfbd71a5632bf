package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noise-sentinel/internal/service"
)

func (h *Handler) createEmissionReport(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		DeviceID         uuid.UUID `json:"device_id" binding:"required"`
		CO               *float64  `json:"co" binding:"omitempty,gte=0"`
		CO2              *float64  `json:"co2" binding:"omitempty,gte=0"`
		HC               *float64  `json:"hc" binding:"omitempty,gte=0"`
		NOx              *float64  `json:"nox" binding:"omitempty,gte=0"`
		SoundLevelDBa    float64   `json:"sound_level_dba" binding:"required,gt=0,lte=200"`
		TestDateTime     time.Time `json:"test_date_time" binding:"required"`
		MLClassification *string   `json:"ml_classification"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	report, err := h.emission.Create(c.Request.Context(), principal, service.RecordEmissionInput{
		DeviceID:         req.DeviceID,
		CO:               req.CO,
		CO2:              req.CO2,
		HC:               req.HC,
		NOx:              req.NOx,
		SoundLevelDBa:    req.SoundLevelDBa,
		TestDateTime:     req.TestDateTime,
		MLClassification: req.MLClassification,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(report))
}

func (h *Handler) getEmissionReport(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "emission report")
	if !ok {
		return
	}

	report, err := h.emission.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) verifyEmissionReport(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "emission report")
	if !ok {
		return
	}

	result, err := h.emission.Verify(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	msg := "signature verified"
	if !result.IsAuthentic {
		msg = "signature mismatch: report data has been altered"
	}
	c.JSON(http.StatusOK, messageResponse(result, msg))
}
