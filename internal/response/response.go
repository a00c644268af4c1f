package response

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "clipforge/pkg/errors"
)

// Response is the envelope every API handler returns. Error 0 means success;
// any other value is an application error code.
type Response struct {
	Error  int32  `json:"error"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
	Data   any    `json:"data"`
}

// R sends a pre-built payload as JSON.
func R(c *gin.Context, data any) {
	c.JSON(200, data)
}

// Success wraps data in a zero-error envelope.
func Success(c *gin.Context, data any) {
	c.JSON(200, Response{
		Error: 0,
		Msg:   "success",
		Data:  data,
	})
}

// Error sends an error envelope with an explicit code and message.
func Error(c *gin.Context, code int, msg string) {
	c.JSON(200, Response{
		Error: int32(code),
		Msg:   msg,
		Data:  nil,
	})
}

// FromError builds an error envelope from any error, extracting the code,
// message and detail when it is an AppError.
func FromError(err error) Response {
	if err == nil {
		return Response{
			Error: 0,
			Msg:   "success",
		}
	}

	code := apperrors.GetCode(err)
	msg := apperrors.GetMessage(err)

	var detail string
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		detail = appErr.Detail
	}

	return Response{
		Error:  int32(code),
		Msg:    msg,
		Detail: detail,
		Data:   nil,
	}
}

// ErrorResponse sends the envelope produced by FromError.
func ErrorResponse(c *gin.Context, err error) {
	c.JSON(200, FromError(err))
}
