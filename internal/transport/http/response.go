package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	platformerrors "github.com/ghelioth/les-bons-artisants-test/internal/platform/errors"
)

// APIResponse is the uniform JSON envelope. The message field is the fixed
// path clients read human readable errors from.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

// RespondSuccess writes a success envelope.
func RespondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	if message == "" {
		message = "ok"
	}
	if data == nil {
		data = gin.H{}
	}

	c.JSON(httpStatus, APIResponse{
		Success: true,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondError writes a failure envelope.
func RespondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	if data == nil {
		data = gin.H{}
	}

	c.JSON(httpStatus, APIResponse{
		Success: false,
		Message: message,
		Code:    httpStatus,
		Data:    data,
	})
}

// RespondWithError maps a typed error onto the status code of its kind and
// writes the failure envelope.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case platformerrors.IsKind(err, platformerrors.KindValidation):
		status = http.StatusBadRequest
	case platformerrors.IsKind(err, platformerrors.KindAuth):
		status = http.StatusUnauthorized
	case platformerrors.IsKind(err, platformerrors.KindNotFound):
		status = http.StatusNotFound
	}
	RespondError(c, status, platformerrors.Message(err), nil)
}
