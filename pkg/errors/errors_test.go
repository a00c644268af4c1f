package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	err := New(CodeInvalidSource, "bad source")
	assert.Equal(t, "[1100] bad source", err.Error())

	cause := errors.New("underlying error")
	errWithCause := Wrap(CodeInvalidSource, "bad source", cause)
	assert.Contains(t, errWithCause.Error(), "underlying error")
	assert.Contains(t, errWithCause.Error(), "1100")
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(CodeTranscriptUnavailable, "transcription failed", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestIs(t *testing.T) {
	err := New(CodeRenderFailed, "render failed")

	assert.True(t, Is(err, CodeRenderFailed))
	assert.False(t, Is(err, CodeInvalidSource))

	regularErr := errors.New("regular error")
	assert.False(t, Is(regularErr, CodeRenderFailed))
}

func TestGetCode(t *testing.T) {
	appErr := New(CodeVideoTooLong, "too long")
	assert.Equal(t, CodeVideoTooLong, GetCode(appErr))

	regularErr := errors.New("regular error")
	assert.Equal(t, CodeInternal, GetCode(regularErr))
}

func TestGetMessage(t *testing.T) {
	appErr := New(CodeFileNotFound, "file not found")
	assert.Equal(t, "file not found", GetMessage(appErr))

	regularErr := errors.New("regular error message")
	assert.Equal(t, "regular error message", GetMessage(regularErr))
}

func TestGetKind(t *testing.T) {
	testCases := []struct {
		err  error
		kind string
	}{
		{New(CodeInvalidSource, "x"), "InvalidSource"},
		{New(CodeMediaUnreadable, "x"), "MediaUnreadable"},
		{New(CodeExtractionFailed, "x"), "ExtractionFailed"},
		{New(CodeTranscriptUnavailable, "x"), "TranscriptUnavailable"},
		{New(CodeRenderFailed, "x"), "RenderFailed"},
		{New(CodeSourceMissing, "x"), "SourceMissing"},
		{New(CodeVideoTooLong, "x"), "VideoTooLong"},
		{errors.New("anything else"), "Internal"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.kind, GetKind(tc.err))
	}
}

func TestWrapWithDetail(t *testing.T) {
	cause := errors.New("connection refused")
	err := WrapWithDetail(CodeSourceMissing, "source gone", "path: /tmp/video.mp4", cause)

	assert.Equal(t, CodeSourceMissing, err.Code)
	assert.Equal(t, "source gone", err.Message)
	assert.Equal(t, "path: /tmp/video.mp4", err.Detail)
	assert.Equal(t, cause, err.Cause)
}

func TestPredefinedErrors(t *testing.T) {
	assert.Equal(t, CodeInvalidParams, ErrInvalidParams.Code)
	assert.Equal(t, CodeInvalidSource, ErrInvalidSource.Code)
	assert.Equal(t, CodeMediaUnreadable, ErrMediaUnreadable.Code)
	assert.Equal(t, CodeRenderFailed, ErrRenderFailed.Code)
	assert.Equal(t, CodeDBError, ErrDBError.Code)
}
