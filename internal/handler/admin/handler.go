package admin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medicore/clinic-api/internal/middleware"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/service/policy"
	"github.com/medicore/clinic-api/internal/service/report"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/httputil"
)

type Handler struct {
	reports *report.Service
}

func NewHandler(reports *report.Service) *Handler {
	return &Handler{reports: reports}
}

func (h *Handler) ListUsers(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpListUsers, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	users, err := h.reports.ListUsers(c.Request.Context(), c.Query("role"))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, users, len(users))
}

func (h *Handler) DeleteUser(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperror.Validation("invalid user id"))
		return
	}

	if err := policy.Authorize(claims, policy.OpDeleteUser, &id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if err := h.reports.DeleteUser(c.Request.Context(), claims.UserID, id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, "user deleted successfully")
}

func (h *Handler) Statistics(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpViewStatistics, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	stats, err := h.reports.Statistics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) AppointmentReport(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)

	if err := policy.Authorize(claims, policy.OpViewReports, nil); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	appts, err := h.reports.AppointmentReport(
		c.Request.Context(),
		c.Query("start_date"),
		c.Query("end_date"),
		c.Query("status"),
		c.Query("doctor_id"),
	)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, appts, len(appts))
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, authMW *middleware.AuthMiddleware) {
	group := r.Group("/admin", authMW.Authenticate(), authMW.RequireRole(model.RoleAdmin))
	{
		group.GET("/users", h.ListUsers)
		group.DELETE("/users/:id", h.DeleteUser)
		group.GET("/statistics", h.Statistics)
		group.GET("/reports/appointments", h.AppointmentReport)
	}
}
