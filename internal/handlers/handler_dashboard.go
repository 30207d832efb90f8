package handlers

import (
	"net/http"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

type dashboardHandler struct {
	dashboardService portssvc.DashboardSvc
}

func newDashboardHandler(ds portssvc.DashboardSvc) *dashboardHandler {
	return &dashboardHandler{dashboardService: ds}
}

// registerDashboardRoutes registers the dashboard on an authenticated group that has
// already loaded the current user. Admin endpoints get their own guard.
func registerDashboardRoutes(rg *gin.RouterGroup, ds portssvc.DashboardSvc) {
	h := newDashboardHandler(ds)
	dashboard := rg.Group("/dashboard")
	{
		dashboard.GET("/kpis", h.kpis)
		dashboard.GET("/expenses/:status", h.listExpenses)

		admin := dashboard.Group("/admin", middleware.RequireAdmin())
		admin.GET("/filters", h.filterOptions)
		admin.GET("/pie/head", h.topBy(domain.GroupByHead))
		admin.GET("/pie/office", h.topBy(domain.GroupByOffice))
	}
}

// kpis godoc
// @Summary Dashboard KPIs
// @Description Totals over the caller's expenses. Admins may filter by user, office, head, subhead and date.
// @Tags dashboard
// @Produce json
// @Param user query int false "User ID (admin only)"
// @Param office query string false "Office name"
// @Param head query string false "Head"
// @Param subhead query string false "Subhead"
// @Param date query string false "Expense date (YYYY-MM-DD)"
// @Success 200 {object} domain.DashboardKPIs
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/dashboard/kpis [get]
func (h *dashboardHandler) kpis(c *gin.Context) {
	var params dto.DashboardFilterParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondWithBindError(c, err)
		return
	}
	caller, filter, ok := currentUserAndFilter(c, params)
	if !ok {
		return
	}

	kpis, err := h.dashboardService.KPIs(c.Request.Context(), *caller, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, kpis)
}

// listExpenses godoc
// @Summary List own expenses
// @Description Lists the caller's expenses in one collection, newest first.
// @Tags dashboard
// @Produce json
// @Param status path string true "pending, approved or rejected"
// @Success 200 {array} dto.ExpenseSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/dashboard/expenses/{status} [get]
func (h *dashboardHandler) listExpenses(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return
	}

	status, ok := domain.ParseExpenseStatus(c.Param("status"))
	if !ok {
		respondWithError(c, apperrors.NewValidationError("status must be pending, approved or rejected", "status"))
		return
	}

	records, err := h.dashboardService.ListExpenses(c.Request.Context(), *caller, status)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToExpenseSummaryResponses(records))
}

// filterOptions godoc
// @Summary Admin filter options
// @Description Distinct users, offices, heads and subheads present in approved expenses.
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.AdminFilterOptions
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/dashboard/admin/filters [get]
func (h *dashboardHandler) filterOptions(c *gin.Context) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return
	}

	opts, err := h.dashboardService.FilterOptions(c.Request.Context(), *caller)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, opts)
}

// topBy godoc
// @Summary Approved totals by head or office
// @Description Largest approved totals grouped by head (/pie/head) or office (/pie/office).
// @Tags dashboard
// @Produce json
// @Param top query int false "Number of slices" default(3)
// @Param user query int false "User ID"
// @Param office query string false "Office name"
// @Param head query string false "Head"
// @Param subhead query string false "Subhead"
// @Param date query string false "Expense date (YYYY-MM-DD)"
// @Success 200 {array} domain.LabelValue
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/dashboard/admin/pie/head [get]
// @Router /api/dashboard/admin/pie/office [get]
func (h *dashboardHandler) topBy(column domain.GroupBy) gin.HandlerFunc {
	return func(c *gin.Context) {
		var params dto.TopParams
		if err := c.ShouldBindQuery(&params); err != nil {
			respondWithBindError(c, err)
			return
		}
		caller, filter, ok := currentUserAndFilter(c, params.DashboardFilterParams)
		if !ok {
			return
		}

		parts, err := h.dashboardService.TopApproved(c.Request.Context(), *caller, column, filter, params.Top)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, parts)
	}
}

// currentUserAndFilter returns the caller and the converted filters. On failure the
// response has been written and ok is false.
func currentUserAndFilter(c *gin.Context, params dto.DashboardFilterParams) (*domain.User, domain.DashboardFilter, bool) {
	caller, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return nil, domain.DashboardFilter{}, false
	}

	filter, err := params.ToDomain()
	if err != nil {
		respondWithError(c, apperrors.NewValidationError(err.Error(), "date"))
		return nil, domain.DashboardFilter{}, false
	}
	return caller, filter, true
}
