package middleware

import (
	"errors"
	"fmt"
	"net"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/apperror"
	"stockdash.com/internal/metrics"
)

// Recovery converts a panic in any later handler into an error response.
func (h *ErrorHandler) Recovery() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("%v", rec)
			}

			if isBrokenConnection(err) {
				// The client is gone; nothing can be written.
				h.log.LogError("http.broken_connection", err, map[string]any{
					"path": ctx.Request.URL.Path,
				})
				ctx.Abort()
				return
			}

			panicErr := &apperror.Error{
				Op:      "http.panic",
				Message: err.Error(),
				Cause:   err,
				Context: map[string]any{"stack": string(debug.Stack())},
			}
			h.handle(ctx, panicErr, metrics.ErrorKindPanic)
		}()

		ctx.Next()
	}
}

func isBrokenConnection(err error) bool {
	if errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return errors.Is(opErr.Err, syscall.EPIPE) || errors.Is(opErr.Err, syscall.ECONNRESET)
	}
	return false
}
