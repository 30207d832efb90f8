package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ReviewHandler redeems the approve and reject links sent to admins.
// The token in the path is the only credential.
type ReviewHandler struct {
	reviewService portssvc.ReviewSvc
}

func newReviewHandler(rs portssvc.ReviewSvc) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

// registerReviewRoutes registers the unauthenticated review routes behind limit.
func registerReviewRoutes(r *gin.Engine, rs portssvc.ReviewSvc, limit gin.HandlerFunc) {
	h := newReviewHandler(rs)
	review := r.Group("/review", limit)
	{
		review.GET("/approve/:token", h.Approve)
		review.GET("/reject/:token", h.Reject)
	}
}

// Approve godoc
// @Summary Approve a pending expense
// @Description Redeems an approve token and moves the expense to the approved collection.
// @Tags review
// @Produce json
// @Param token path string true "Approval token"
// @Success 200 {object} dto.ReviewResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown token"
// @Failure 409 {object} dto.ErrorResponse "Token already used or expense already decided"
// @Failure 410 {object} dto.ErrorResponse "Token expired"
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /review/approve/{token} [get]
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.redeem(c, domain.ActionApprove)
}

// Reject godoc
// @Summary Reject a pending expense
// @Description Redeems a reject token and moves the expense to the rejected collection.
// @Tags review
// @Produce json
// @Param token path string true "Rejection token"
// @Success 200 {object} dto.ReviewResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown token"
// @Failure 409 {object} dto.ErrorResponse "Token already used or expense already decided"
// @Failure 410 {object} dto.ErrorResponse "Token expired"
// @Failure 429 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /review/reject/{token} [get]
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.redeem(c, domain.ActionReject)
}

func (h *ReviewHandler) redeem(c *gin.Context, action domain.TokenAction) {
	status, err := h.reviewService.Redeem(c.Request.Context(), c.Param("token"), action)
	if err != nil {
		respondWithError(c, err)
		return
	}

	middleware.GetLoggerFromContext(c).Info("Expense decided via email link",
		slog.String("action", string(action)),
		slog.String("status", string(status)))
	c.JSON(http.StatusOK, dto.ReviewResponse{Status: strings.ToLower(string(status))})
}
