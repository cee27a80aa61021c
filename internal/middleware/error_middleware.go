package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuscloud/eduprojects/internal/app/models/dto"
	"github.com/campuscloud/eduprojects/internal/pkg/apperrors"
	"github.com/campuscloud/eduprojects/internal/pkg/logger"
)

// HandleAPIError maps service errors onto HTTP responses. CustomError
// wrappers contribute their message, field and details; the wrapped sentinel
// decides status code and error code.
func HandleAPIError(c *gin.Context, err error) {
	status, code, message := classify(err)

	detail := dto.NewErrorDetail(code, message)

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		if custom.Message != "" {
			detail.Message = custom.Message
		}
		if custom.Field != "" {
			detail = detail.WithField(custom.Field)
		}
		if custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("Unhandled API error")
		// Do not leak internals
		detail.Message = "Internal server error"
		detail.Field = ""
		detail.Details = nil
	}

	c.JSON(status, dto.NewErrorResponse(detail))
}

func classify(err error) (int, dto.ErrorCode, string) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"
	case errors.Is(err, apperrors.ErrAccountDisabled):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Account is disabled"
	case errors.Is(err, apperrors.ErrPermissionDenied),
		errors.Is(err, apperrors.ErrNotProjectGuide),
		errors.Is(err, apperrors.ErrNotProjectOwner):
		return http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"
	case errors.Is(err, apperrors.ErrProjectNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Project not found"
	case errors.Is(err, apperrors.ErrUserNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"
	case errors.Is(err, apperrors.ErrFileNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "File not found"
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrEmailAlreadyExists),
		errors.Is(err, apperrors.ErrCollegeIDExists),
		errors.Is(err, apperrors.ErrResourceAlreadyExists):
		return http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"
	case errors.Is(err, apperrors.ErrInvalidProjectState):
		return http.StatusBadRequest, dto.ErrorCodeInvalidState, "Operation not allowed in current project state"
	case errors.Is(err, apperrors.ErrNotFaculty),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrFileTooLarge),
		errors.Is(err, apperrors.ErrFileTypeInvalid),
		errors.Is(err, apperrors.ErrUnsafeFilename):
		return http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"
	default:
		return http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error"
	}
}
