package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"noise-sentinel/internal/http/middleware"
	"noise-sentinel/internal/model"
	"noise-sentinel/internal/service"
)

type Services struct {
	Auth      *service.AuthService
	Reference *service.ReferenceService
	Emission  *service.EmissionService
	Challan   *service.ChallanService
	Fir       *service.FirService
	Case      *service.CaseService
	Public    *service.PublicService
}

type Handler struct {
	auth      *service.AuthService
	reference *service.ReferenceService
	emission  *service.EmissionService
	challan   *service.ChallanService
	fir       *service.FirService
	cases     *service.CaseService
	public    *service.PublicService
	log       zerolog.Logger
}

func NewHandler(services Services, log zerolog.Logger) *Handler {
	return &Handler{
		auth:      services.Auth,
		reference: services.Reference,
		emission:  services.Emission,
		challan:   services.Challan,
		fir:       services.Fir,
		cases:     services.Case,
		public:    services.Public,
		log:       log,
	}
}

// errorStatuses is checked in order; the first kind the error wraps decides the status.
var errorStatuses = []struct {
	kind   error
	status int
}{
	{service.ErrPermissionDenied, http.StatusForbidden},
	{service.ErrUnauthorized, http.StatusUnauthorized},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{service.ErrNotCognizable, http.StatusBadRequest},
	{service.ErrInvalidStatus, http.StatusBadRequest},
	{service.ErrOTPInvalid, http.StatusBadRequest},
	{service.ErrNotFound, http.StatusNotFound},
	{service.ErrAlreadyLinked, http.StatusConflict},
	{service.ErrConflict, http.StatusConflict},
}

func (h *Handler) handleError(c *gin.Context, err error) {
	for _, entry := range errorStatuses {
		if errors.Is(err, entry.kind) {
			c.JSON(entry.status, errorResponse(err.Error()))
			return
		}
	}
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg("handler error")
	c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
}

func principalOrAbort(c *gin.Context) (model.Principal, bool) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
	}
	return principal, ok
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid "+name+" id"))
		return uuid.Nil, false
	}
	return id, true
}
