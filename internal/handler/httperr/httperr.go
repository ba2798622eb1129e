package httperr

import (
	"net/http"

	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// Abort maps err onto the error taxonomy's HTTP status.
func Abort(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := http.StatusText(status)
	var detail any
	if status != http.StatusInternalServerError {
		msg = err.Error()
	}
	if v, ok := errs.AsValidation(err); ok {
		detail = gin.H{"field": v.Field}
	}
	AbortWithError(c, status, err, msg, detail)
}

func StatusOf(err error) int {
	switch {
	case errs.IsValidation(err):
		return http.StatusBadRequest
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsConflict(err):
		return http.StatusConflict
	case errs.IsBusinessRule(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
