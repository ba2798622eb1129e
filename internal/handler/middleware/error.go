package middleware

import (
	"log/slog"
	"net/http"

	"booking-core/internal/handler/httperr"
	"booking-core/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const panicStackLines = 12

// ErrorHandler renders the last error a handler recorded with c.Error when the
// handler itself wrote nothing.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() || len(c.Errors) == 0 {
			return
		}
		last := c.Errors.Last()
		if resp, ok := last.Meta.(httperr.Response); ok {
			c.JSON(resp.Status, resp)
			return
		}
		httperr.Abort(c, last.Err)
	}
}

func CustomRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			err, ok := rec.(error)
			if !ok {
				err = errs.Newf("panic: %v", rec)
			}
			slog.ErrorContext(c.Request.Context(), "recovered from panic",
				slog.String("request_id", GetRequestID(c)),
				slog.String("path", c.Request.URL.Path),
				slog.Any("stack", errs.ExtractStackLines(errs.Wrap(err, "recovered"), panicStackLines)))

			resp := httperr.Response{Status: http.StatusInternalServerError}
			resp.Error.Message = http.StatusText(http.StatusInternalServerError)
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}()
		c.Next()
	}
}
