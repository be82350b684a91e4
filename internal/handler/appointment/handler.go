package appointment

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/service/appointment"
	"github.com/medicore/clinic-api/internal/service/policy"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/httputil"
)

type Handler struct {
	service *appointment.Service
}

func NewHandler(service *appointment.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpCreateAppointment, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	appt, err := h.service.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, "appointment booked successfully", appt)
}

// List switches on the caller's role: patients see their own bookings,
// doctors their schedule, admins everything.
func (h *Handler) List(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpListAppointments, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	switch claims.Role {
	case model.RolePatient:
		appts, err := h.service.ListForPatient(c.Request.Context(), claims.UserID)
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithList(c, appts, len(appts))
	case model.RoleDoctor:
		appts, err := h.service.ListForDoctor(c.Request.Context(), claims.UserID, c.Query("date"))
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithList(c, appts, len(appts))
	case model.RoleAdmin:
		appts, err := h.service.ListAll(c.Request.Context())
		if err != nil {
			httputil.RespondWithError(c, err)
			return
		}
		httputil.RespondWithList(c, appts, len(appts))
	default:
		httputil.RespondWithError(c, apperror.Authorization("access denied"))
	}
}

func (h *Handler) Get(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpViewAppointment, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid appointment id"))
		return
	}

	appt, err := h.service.Get(c.Request.Context(), claims, id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) Cancel(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpCancelAppointment, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid appointment id"))
		return
	}

	if err := h.service.Cancel(c.Request.Context(), claims.UserID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "appointment cancelled successfully")
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpUpdateAppointmentStatus, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid appointment id"))
		return
	}

	var req model.UpdateAppointmentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "appointment status updated successfully")
}

func (h *Handler) Delete(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpDeleteAppointment, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid appointment id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "appointment deleted successfully")
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/appointments", authMW.Authenticate())
	{
		group.POST("", authMW.RequireRole(model.RolePatient), h.Create)
		group.GET("", h.List)
		group.GET("/:id", h.Get)
		group.PATCH("/:id/cancel", authMW.RequireRole(model.RolePatient), h.Cancel)
		group.PATCH("/:id/status", authMW.RequireRole(model.RoleDoctor, model.RoleAdmin), h.UpdateStatus)
		group.DELETE("/:id", authMW.RequireRole(model.RoleAdmin), h.Delete)
	}
}
