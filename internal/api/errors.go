package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
)

type errorMapping struct {
	target error
	build  func(error) *apperrors.AppError
}

func badRequest(code string) func(error) *apperrors.AppError {
	return func(err error) *apperrors.AppError { return apperrors.BadRequest(err, code) }
}

func notFound(code string) func(error) *apperrors.AppError {
	return func(err error) *apperrors.AppError { return apperrors.NotFound(err, code) }
}

var errorMappings = []errorMapping{
	{apperrors.ErrInvalidCoordinates, badRequest("INVALID_COORDINATES")},
	{apperrors.ErrInvalidLatitude, badRequest("INVALID_COORDINATES")},
	{apperrors.ErrInvalidLongitude, badRequest("INVALID_COORDINATES")},
	{apperrors.ErrInvalidRadius, badRequest("INVALID_RADIUS")},
	{apperrors.ErrInvalidGeohash, badRequest("INVALID_GEOHASH")},
	{apperrors.ErrInvalidSortMode, badRequest("INVALID_SORT_MODE")},
	{apperrors.ErrCategoryNotFound, notFound("CATEGORY_NOT_FOUND")},
	{apperrors.ErrActivityNotFound, notFound("ACTIVITY_NOT_FOUND")},
	{apperrors.ErrMemberNotFound, notFound("MEMBER_NOT_FOUND")},
	{apperrors.ErrInvalidEmail, badRequest("INVALID_EMAIL")},
	{apperrors.ErrInvalidPassword, badRequest("INVALID_PASSWORD")},
	{apperrors.ErrPasswordMismatch, badRequest("PASSWORD_MISMATCH")},
	{apperrors.ErrInvalidName, badRequest("INVALID_NAME")},
	{apperrors.ErrEmailTaken, func(err error) *apperrors.AppError { return apperrors.Conflict(err, "EMAIL_TAKEN") }},
	{apperrors.ErrInvalidCredentials, func(err error) *apperrors.AppError {
		return apperrors.Unauthorized(err).WithCode("INVALID_CREDENTIALS")
	}},
	{apperrors.ErrMissingToken, apperrors.Unauthorized},
	{apperrors.ErrInvalidToken, apperrors.Unauthorized},
	{apperrors.ErrUnauthenticated, apperrors.Unauthorized},
	{apperrors.ErrSessionNotFound, apperrors.Unauthorized},
	{apperrors.ErrAccountNotFound, apperrors.Unauthorized},
	{apperrors.ErrProfileNotFound, notFound("PROFILE_NOT_FOUND")},
	{apperrors.ErrInvalidBio, badRequest("INVALID_BIO")},
	{apperrors.ErrUnknownInterest, badRequest("UNKNOWN_INTEREST")},
	{apperrors.ErrUnknownActivity, badRequest("UNKNOWN_ACTIVITY")},
	{apperrors.ErrContentRejected, badRequest("CONTENT_REJECTED")},
	{apperrors.ErrInvalidImageURL, badRequest("INVALID_IMAGE_URL")},
	{apperrors.ErrInvalidLocation, badRequest("INVALID_LOCATION")},
	{apperrors.ErrRateLimitExceeded, apperrors.TooManyRequests},
	{apperrors.ErrStorageUnavailable, func(err error) *apperrors.AppError {
		return apperrors.NewAppError(err, "Service temporarily unavailable", http.StatusServiceUnavailable).WithCode("STORAGE_UNAVAILABLE")
	}},
}

// toAppError classifies err. Anything unrecognised becomes a 500 whose
// message does not leak internals.
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return m.build(err)
		}
	}

	return apperrors.NewAppError(err, "Internal server error", http.StatusInternalServerError).WithCode("INTERNAL_ERROR")
}

func respondError(c *gin.Context, log logger.Logger, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	c.JSON(appErr.StatusCode, ErrorResponse(appErr.Error(), appErr.Code))
}

// bindJSON decodes the body into req. On failure it writes the error
// response and returns false.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string][]string)
		for _, ferr := range verrs {
			fields[ferr.Field()] = append(fields[ferr.Field()], ferr.Tag())
		}
		c.JSON(http.StatusBadRequest, ValidationErrorResponse(fields))
		return false
	}

	c.JSON(http.StatusBadRequest, ErrorResponse("Invalid request", "INVALID_REQUEST"))
	return false
}
