package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/SscSPs/expense_approval_app/internal/apperrors"
	"github.com/SscSPs/expense_approval_app/internal/dto"
	"github.com/SscSPs/expense_approval_app/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// errorMapping is the response for one sentinel error.
type errorMapping struct {
	sentinel error
	status   int
	code     string
	message  string
}

// Order matters: the first sentinel matched by errors.Is wins.
var errorMappings = []errorMapping{
	{apperrors.ErrTokenNotFound, http.StatusNotFound, "token_not_found", "Invalid approval link"},
	{apperrors.ErrTokenAlreadyUsed, http.StatusConflict, "token_already_used", "This approval link has already been used"},
	{apperrors.ErrTokenExpired, http.StatusGone, "token_expired", "This approval link has expired"},
	{apperrors.ErrRecordNotFound, http.StatusConflict, "record_not_found", "This expense has already been processed"},
	{apperrors.ErrTransactionFailure, http.StatusInternalServerError, "transaction_failure", "The request could not be completed, please retry"},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Invalid credentials"},
	{apperrors.ErrForbidden, http.StatusForbidden, "forbidden", "Admins only"},
	{apperrors.ErrDuplicate, http.StatusConflict, "duplicate", "Already exists"},
	{apperrors.ErrNotFound, http.StatusNotFound, "not_found", "Not found"},
}

// respondWithError writes the error body for err and logs it at a level matching the status.
func respondWithError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromContext(c)

	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		logger.Info("Request failed validation", slog.String("error", err.Error()), slog.Any("fields", ve.Fields))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation_error", Message: ve.Message, Fields: ve.Fields})
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.sentinel) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("error", err.Error()))
		} else {
			logger.Warn("Request rejected", slog.String("code", m.code), slog.String("error", err.Error()))
		}
		c.JSON(m.status, dto.ErrorResponse{Error: m.code, Message: m.message})
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code >= 400 && appErr.Code < 500 {
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(appErr.Code, dto.ErrorResponse{Error: strings.ToLower(strings.ReplaceAll(http.StatusText(appErr.Code), " ", "_")), Message: appErr.Message})
		return
	}

	logger.Error("Unhandled error", slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal_error", Message: "Internal server error"})
}

// respondWithBindError reports a request that failed binding, naming the offending fields.
func respondWithBindError(c *gin.Context, err error) {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields = append(fields, fe.Field())
		}
		respondWithError(c, apperrors.NewValidationError("invalid request", fields...))
		return
	}
	respondWithError(c, apperrors.NewValidationError("invalid request body: "+err.Error()))
}

var registerTagNamesOnce sync.Once

// useJSONFieldNames makes gin's validator report fields by their json or form name.
func useJSONFieldNames() {
	registerTagNamesOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
}
