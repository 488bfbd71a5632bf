package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"noise-sentinel/internal/http/middleware"
	"noise-sentinel/internal/model"
)

// HealthCheck reports whether the backing stores are reachable.
type HealthCheck func(ctx context.Context) error

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, health HealthCheck, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	registerValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		if health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := health(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	api.POST("/auth/login", handler.login)

	public := api.Group("/public")
	{
		public.POST("/otp/request", handler.requestOTP)
		public.POST("/otp/verify", handler.verifyOTP)
		public.GET("/case-status", handler.publicCaseStatus)
	}

	protected := api.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/violations", handler.listViolations)

		protected.POST("/emission-reports", handler.createEmissionReport)
		protected.GET("/emission-reports/:id", handler.getEmissionReport)
		protected.GET("/emission-reports/:id/verify", handler.verifyEmissionReport)

		protected.POST("/challans", handler.createChallan)
		protected.GET("/challans/:id", handler.getChallan)
		protected.GET("/challans/:id/evidence", handler.getChallanEvidence)
		protected.PUT("/challans/:id/status", handler.updateChallanStatus)

		protected.POST("/firs", handler.createFir)
		protected.GET("/firs/:id", handler.getFir)
		protected.PUT("/firs/:id/investigation", handler.updateFirInvestigation)

		protected.POST("/cases", handler.createCase)
		protected.GET("/cases/:id", handler.getCase)
		protected.POST("/cases/:id/statements", handler.addCaseStatement)
		protected.PUT("/cases/:id/verdict", handler.recordVerdict)
		protected.PUT("/cases/:id/hearing", handler.rescheduleHearing)
	}

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/users", handler.createUser)
		admin.POST("/stations", handler.createStation)
		admin.POST("/courts", handler.createCourt)
		admin.POST("/violations", handler.createViolation)
		admin.POST("/devices", handler.registerDevice)
		admin.PUT("/devices/:id/calibration", handler.calibrateDevice)
	}

	return router
}
