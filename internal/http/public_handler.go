package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"noise-sentinel/internal/http/middleware"
	"noise-sentinel/internal/service"
)

func (h *Handler) requestOTP(c *gin.Context) {
	var req struct {
		VehicleNo string `json:"vehicle_no" binding:"required,max=32"`
		CNIC      string `json:"cnic" binding:"required,cnic"`
		Email     string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	expiresAt, err := h.public.RequestAccess(c.Request.Context(), service.AccessRequest{
		VehicleNo: req.VehicleNo,
		CNIC:      req.CNIC,
		Email:     req.Email,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse(gin.H{"expires_at": expiresAt}, "verification code sent"))
}

func (h *Handler) verifyOTP(c *gin.Context) {
	var req struct {
		VehicleNo string `json:"vehicle_no" binding:"required,max=32"`
		CNIC      string `json:"cnic" binding:"required,cnic"`
		OTP       string `json:"otp" binding:"required,len=6,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindErrorResponse(err))
		return
	}

	token, err := h.public.VerifyAccess(c.Request.Context(), service.AccessVerification{
		VehicleNo: req.VehicleNo,
		CNIC:      req.CNIC,
		OTP:       req.OTP,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(token))
}

func (h *Handler) publicCaseStatus(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("access token missing"))
		return
	}

	snapshot, err := h.public.CaseStatus(c.Request.Context(), token)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse(snapshot))
}
