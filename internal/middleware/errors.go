package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/api/response"
	"stockdash.com/internal/apperror"
	"stockdash.com/internal/logger"
	"stockdash.com/internal/metrics"
)

const GenericErrorMessage = "Internal server error"

type ErrorConfig struct {
	// Development exposes raw error messages to clients.
	Development bool
}

// ErrorHandler turns handler failures and unmatched routes into envelope
// responses. It is safe for concurrent use.
type ErrorHandler struct {
	cfg     ErrorConfig
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewErrorHandler(cfg ErrorConfig, log *logger.Logger, m *metrics.Metrics) *ErrorHandler {
	if log == nil {
		log = logger.Discard()
	}
	return &ErrorHandler{
		cfg:     cfg,
		log:     log,
		metrics: m,
	}
}

// Middleware hands the last error a handler attached with ctx.Error to HandleError.
func (h *ErrorHandler) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if last := ctx.Errors.Last(); last != nil {
			h.HandleError(ctx, last.Err)
		}
	}
}

// HandleError logs err once and responds 500 with the envelope.
func (h *ErrorHandler) HandleError(ctx *gin.Context, err error) {
	h.handle(ctx, err, metrics.ErrorKindInternal)
}

func (h *ErrorHandler) handle(ctx *gin.Context, err error, kind string) {
	if appErr, ok := err.(*apperror.Error); err == nil || (ok && appErr == nil) {
		err = errors.New("unknown error")
	}

	h.log.LogError(operationName(ctx, err), err, requestContext(ctx, err))
	h.metrics.IncError(kind)

	if ctx.Writer.Written() {
		ctx.Abort()
		return
	}

	ctx.AbortWithStatusJSON(http.StatusInternalServerError, response.Fail(h.clientMessage(err)))
}

func (h *ErrorHandler) clientMessage(err error) string {
	if !h.cfg.Development {
		return GenericErrorMessage
	}
	if msg := apperror.MessageOf(err); msg != "" {
		return msg
	}
	return GenericErrorMessage
}

// HandleNotFound is registered with router.NoRoute and so runs only when
// nothing else matched.
func (h *ErrorHandler) HandleNotFound(ctx *gin.Context) {
	h.metrics.IncError(metrics.ErrorKindNotFound)
	ctx.AbortWithStatusJSON(http.StatusNotFound, response.Fail(fmt.Sprintf("Route %s not found", ctx.Request.URL.Path)))
}

func operationName(ctx *gin.Context, err error) string {
	if op := apperror.OpOf(err); op != "" {
		return op
	}
	route := ctx.FullPath()
	if route == "" {
		route = ctx.Request.URL.Path
	}
	return ctx.Request.Method + " " + route
}

func requestContext(ctx *gin.Context, err error) map[string]any {
	fields := apperror.ContextOf(err)
	fields["method"] = ctx.Request.Method
	fields["path"] = ctx.Request.URL.Path
	if ip := ctx.ClientIP(); ip != "" {
		fields["client_ip"] = ip
	}
	return fields
}
