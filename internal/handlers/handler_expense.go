package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const notificationWarning = "Expense submitted, but the approval email could not be sent"

// ExpenseHandler accepts expense submissions.
type ExpenseHandler struct {
	expenseService portssvc.ExpenseSvc
}

func newExpenseHandler(es portssvc.ExpenseSvc) *ExpenseHandler {
	return &ExpenseHandler{expenseService: es}
}

// registerExpenseRoutes registers expense routes on an authenticated group.
func registerExpenseRoutes(rg *gin.RouterGroup, es portssvc.ExpenseSvc) {
	h := newExpenseHandler(es)
	expenses := rg.Group("/expenses")
	{
		expenses.POST("/submit", h.SubmitExpense)
	}
}

// SubmitExpense godoc
// @Summary Submit an expense for approval
// @Description Stores the expense as pending and emails approve/reject links to every admin.
// @Description Porter, Urgent Delivery and Pickup & Delivery expenses need from/to location, weight, amount and AWB.
// @Tags expenses
// @Accept json
// @Produce json
// @Param expense body dto.SubmitExpenseRequest true "Expense"
// @Success 201 {object} dto.SubmitExpenseResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/expenses/submit [post]
func (h *ExpenseHandler) SubmitExpense(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return
	}

	var req dto.SubmitExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	sub, err := h.expenseService.SubmitExpense(c.Request.Context(), req, *user)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := dto.SubmitExpenseResponse{Message: "submitted", PendingID: sub.PendingID}
	if sub.NotificationErr != nil {
		resp.Warning = notificationWarning
	}
	c.JSON(http.StatusCreated, resp)
}
