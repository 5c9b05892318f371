package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with additional context
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Common error codes
const (
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeDatabase         = "DATABASE_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeQuotaExceeded    = "QUOTA_EXCEEDED"
	ErrCodeExtraction       = "EXTRACTION_ERROR"
	ErrCodeTranscription    = "TRANSCRIPTION_ERROR"
	ErrCodeMalformedSegment = "MALFORMED_SEGMENT"
	ErrCodeMissingTrack     = "MISSING_TRACK"
	ErrCodeRender           = "RENDER_ERROR"
	ErrCodeWebhook          = "WEBHOOK_VERIFICATION_ERROR"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Common error constructors

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// ValidationError creates a validation error
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// QuotaExceeded creates the quota rejection returned before any processing
// starts. The message names the plan and its monthly limit.
func QuotaExceeded(plan string, limit int) *AppError {
	return New(ErrCodeQuotaExceeded,
		fmt.Sprintf("Monthly limit for plan '%s' reached (%d/month). Upgrade to continue.", plan, limit),
		http.StatusForbidden)
}

// ExtractionError creates an audio extraction failure
func ExtractionError(message string, err error) *AppError {
	return Wrap(err, ErrCodeExtraction, message, http.StatusInternalServerError)
}

// TranscriptionError creates a transcription engine failure
func TranscriptionError(message string, err error) *AppError {
	return Wrap(err, ErrCodeTranscription, message, http.StatusInternalServerError)
}

// MalformedSegment creates an error for a segment violating end >= start >= 0
func MalformedSegment(index int, start, end float64) *AppError {
	return New(ErrCodeMalformedSegment,
		fmt.Sprintf("segment %d has invalid time range [%f, %f]", index, start, end),
		http.StatusInternalServerError)
}

// MissingTrack creates an error for a caption track file absent on disk
func MissingTrack(path string) *AppError {
	return New(ErrCodeMissingTrack,
		fmt.Sprintf("caption track not found: %s", path),
		http.StatusInternalServerError)
}

// RenderError creates a caption burn-in failure
func RenderError(message string, err error) *AppError {
	return Wrap(err, ErrCodeRender, message, http.StatusInternalServerError)
}

// WebhookVerificationError creates a payment webhook verification failure
func WebhookVerificationError(err error) *AppError {
	return Wrap(err, ErrCodeWebhook, "Invalid webhook payload", http.StatusBadRequest)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err is a not-found AppError.
func IsNotFound(err error) bool {
	return IsCode(err, ErrCodeNotFound)
}
