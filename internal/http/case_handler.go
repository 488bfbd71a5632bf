package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"noise-sentinel/internal/model"
	"noise-sentinel/internal/service"
)

func (h *Handler) createCase(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}

	var req struct {
		FirID       uuid.UUID  `json:"fir_id" binding:"required"`
		CourtID     *uuid.UUID `json:"court_id"`
		JudgeID     uuid.UUID  `json:"judge_id" binding:"required"`
		CaseType    string     `json:"case_type" binding:"required,max=64"`
		HearingDate *time.Time `json:"hearing_date"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	details, err := h.cases.Create(c.Request.Context(), principal, service.OpenCaseInput{
		FirID:       req.FirID,
		CourtID:     req.CourtID,
		JudgeID:     req.JudgeID,
		CaseType:    req.CaseType,
		HearingDate: req.HearingDate,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(details))
}

func (h *Handler) getCase(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "case")
	if !ok {
		return
	}

	details, err := h.cases.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(details))
}

func (h *Handler) addCaseStatement(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "case")
	if !ok {
		return
	}

	var req struct {
		StatementText string `json:"statement_text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	statement, err := h.cases.AddStatement(c.Request.Context(), principal, id, req.StatementText)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse(statement))
}

func (h *Handler) recordVerdict(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "case")
	if !ok {
		return
	}

	var req struct {
		Verdict string  `json:"verdict" binding:"required"`
		Status  *string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	var status *model.CaseStatus
	if req.Status != nil && *req.Status != "" {
		s := model.CaseStatus(*req.Status)
		status = &s
	}

	courtCase, err := h.cases.RecordVerdict(c.Request.Context(), principal, id, req.Verdict, status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(courtCase))
}

func (h *Handler) rescheduleHearing(c *gin.Context) {
	principal, ok := principalOrAbort(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "case")
	if !ok {
		return
	}

	var req struct {
		HearingDate time.Time `json:"hearing_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	courtCase, err := h.cases.Reschedule(c.Request.Context(), principal, id, req.HearingDate)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(courtCase))
}
