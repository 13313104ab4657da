package errors

import (
	"errors"
	"net/http"
)

var (
	// Location errors
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidLatitude    = errors.New("latitude must be between -90 and 90")
	ErrInvalidLongitude   = errors.New("longitude must be between -180 and 180")
	ErrInvalidRadius      = errors.New("radius out of range")
	ErrInvalidGeohash     = errors.New("invalid geohash")

	// Listing errors
	ErrInvalidSortMode  = errors.New("invalid sort mode")
	ErrCategoryNotFound = errors.New("category not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrMemberNotFound   = errors.New("member not found")

	// Account errors
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidPassword    = errors.New("password must be 8-72 characters")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidName        = errors.New("name must be 1-40 characters")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrMissingToken    = errors.New("missing bearer token")
	ErrInvalidToken    = errors.New("invalid bearer token")
	ErrUnauthenticated = errors.New("authentication required")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidBio      = errors.New("bio must be at most 500 characters")
	ErrUnknownInterest = errors.New("unknown interest")
	ErrUnknownActivity = errors.New("unknown activity")
	ErrContentRejected = errors.New("content rejected")
	ErrInvalidImageURL = errors.New("profile image must be an http(s) URL")
	ErrInvalidLocation = errors.New("location must be at most 100 characters")

	// Rate limit errors
	ErrRateLimitExceeded = errors.New("rate limit exceeded")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrDataNotFound       = errors.New("data not found")
)

type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithCode sets the machine-readable code reported to API clients.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

func BadRequest(err error, code string) *AppError {
	return NewAppError(err, "", http.StatusBadRequest).WithCode(code)
}

func NotFound(err error, code string) *AppError {
	return NewAppError(err, "", http.StatusNotFound).WithCode(code)
}

func Unauthorized(err error) *AppError {
	return NewAppError(err, "", http.StatusUnauthorized).WithCode("UNAUTHORIZED")
}

func Conflict(err error, code string) *AppError {
	return NewAppError(err, "", http.StatusConflict).WithCode(code)
}

func TooManyRequests(err error) *AppError {
	return NewAppError(err, "", http.StatusTooManyRequests).WithCode("RATE_LIMIT")
}
