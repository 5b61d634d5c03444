package controllers

import (
	"log/slog"
	"net/http"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/domain"
)

type StatsController struct {
	Logger  *slog.Logger
	Service domain.StatsService
}

func NewStatsController(logger *slog.Logger, svc domain.StatsService) *StatsController {
	return &StatsController{
		Logger:  logger,
		Service: svc,
	}
}

// StatsOverviewSuccessResponse is the success envelope for GET /stats/overview.
type StatsOverviewSuccessResponse struct {
	Data  *domain.StatsOverview `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// Overview godoc
// @Summary Dashboard aggregates
// @Description Returns registration counts by kind and status plus donation totals by currency and payment status, computed on demand. Admin only.
// @Tags stats
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.StatsOverviewSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /stats/overview [get]
func (c *StatsController) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := c.Service.Overview(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, overview)
}
