// Package errors provides structured error handling for the application.
// It defines AppError type with error codes for consistent API responses.
package errors

import (
	"errors"
	"fmt"
)

// Error codes organized by category
const (
	// General errors (1000-1099)
	CodeSuccess       = 0
	CodeInternal      = 1000
	CodeInvalidParams = 1001
	CodeNotFound      = 1002

	// Source and media errors (1100-1199)
	CodeInvalidSource    = 1100
	CodeMediaUnreadable  = 1101
	CodeExtractionFailed = 1102
	CodeVideoTooLong     = 1103
	CodeSourceMissing    = 1104

	// Transcription errors (1200-1299)
	CodeTranscriptUnavailable = 1200

	// Render errors (1300-1399)
	CodeRenderFailed  = 1300
	CodeInvalidWindow = 1301

	// Storage errors (1500-1599)
	CodeDBError        = 1500
	CodeFileNotFound   = 1501
	CodeFileWriteError = 1502
)

// kindNames maps codes to the stable kind strings exposed at the API boundary.
var kindNames = map[int]string{
	CodeInternal:              "Internal",
	CodeInvalidParams:         "InvalidParams",
	CodeNotFound:              "NotFound",
	CodeInvalidSource:         "InvalidSource",
	CodeMediaUnreadable:       "MediaUnreadable",
	CodeExtractionFailed:      "ExtractionFailed",
	CodeVideoTooLong:          "VideoTooLong",
	CodeSourceMissing:         "SourceMissing",
	CodeTranscriptUnavailable: "TranscriptUnavailable",
	CodeRenderFailed:          "RenderFailed",
	CodeInvalidWindow:         "InvalidWindow",
	CodeDBError:               "Internal",
	CodeFileNotFound:          "NotFound",
	CodeFileWriteError:        "Internal",
}

// AppError represents a structured application error
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code int, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetail wraps an error with additional detail
func WrapWithDetail(code int, message string, detail string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Detail:  detail,
		Cause:   cause,
	}
}

// Is checks if the target error is an AppError with the specified code
func Is(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts error code from error, returns CodeInternal if not AppError
func GetCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// GetMessage extracts message from error
func GetMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// GetKind returns the stable kind string for an error. Unknown errors are
// reported as Internal so nothing leaks past the boundary.
func GetKind(err error) string {
	if kind, ok := kindNames[GetCode(err)]; ok {
		return kind
	}
	return "Internal"
}

// Predefined common errors
var (
	ErrInvalidParams = New(CodeInvalidParams, "invalid parameters")
	ErrNotFound      = New(CodeNotFound, "resource not found")

	ErrInvalidSource    = New(CodeInvalidSource, "source is missing, corrupt, or has a bad time range")
	ErrMediaUnreadable  = New(CodeMediaUnreadable, "no decodable video stream")
	ErrExtractionFailed = New(CodeExtractionFailed, "audio extraction failed")
	ErrVideoTooLong     = New(CodeVideoTooLong, "source exceeds the maximum accepted duration")
	ErrSourceMissing    = New(CodeSourceMissing, "original source video is no longer available")

	ErrTranscriptUnavailable = New(CodeTranscriptUnavailable, "transcript provider failed")

	ErrRenderFailed  = New(CodeRenderFailed, "clip render failed")
	ErrInvalidWindow = New(CodeInvalidWindow, "clip window is invalid")

	ErrDBError      = New(CodeDBError, "database error")
	ErrFileNotFound = New(CodeFileNotFound, "file not found")
)
