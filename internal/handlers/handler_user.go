package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/expense_approval_app/internal/core/ports/services"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// userHandler handles admin user management.
type userHandler struct {
	userService portssvc.UserSvcFacade
}

func newUserHandler(us portssvc.UserSvcFacade) *userHandler {
	return &userHandler{userService: us}
}

// registerUserRoutes registers user management on an admin-only group.
func registerUserRoutes(admin *gin.RouterGroup, userService portssvc.UserSvcFacade) {
	h := newUserHandler(userService)
	admin.POST("/users", h.createUser)
}

// createUser godoc
// @Summary Create a new user
// @Description Creates a user with an explicit role. Admin only.
// @Tags users
// @Accept json
// @Produce json
// @Param user body dto.CreateUserRequest true "User details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /api/admin/users [post]
func (h *userHandler) createUser(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	creator, ok := middleware.GetCurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized", Message: "Not authenticated"})
		return
	}

	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	created, err := h.userService.CreateUser(c.Request.Context(), req, *creator)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Info("User created", slog.Int64("new_user_id", created.ID), slog.String("role", string(created.Role)))
	c.JSON(http.StatusCreated, dto.ToUserResponse(created))
}
