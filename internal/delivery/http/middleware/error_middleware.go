package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go-ats-backend/internal/delivery/http/response"
	"go-ats-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const internalErrorMessage = "Internal server error"

// ErrorHandler renders the last error attached with c.Error. Typed errors keep
// their status and code; anything else becomes a generic 500.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		fields := []zap.Field{
			zap.String("request_id", c.GetString(response.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		}

		appErr, ok := apperror.As(err)
		if !ok {
			logger.Error("unhandled error", append(fields, zap.Error(err))...)
			response.Error(c, http.StatusInternalServerError, apperror.KindInternal, internalErrorMessage, nil)
			return
		}

		switch appErr.Kind {
		case apperror.KindDatabase, apperror.KindInternal:
			if appErr.Err != nil {
				fields = append(fields, zap.NamedError("cause", appErr.Err))
			}
			if len(appErr.Stack) > 0 {
				fields = append(fields, zap.ByteString("stack", appErr.Stack))
			}
			logger.Error(appErr.Message, fields...)
		default:
			logger.Warn(appErr.Message, append(fields, zap.String("code", string(appErr.Kind)))...)
		}
		response.AppError(c, appErr)
	}
}

// Recovery turns panics into the INTERNAL_ERROR envelope.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString(response.RequestIDKey)),
					zap.String("path", c.Request.URL.Path),
					zap.String("panic", fmt.Sprint(rec)),
					zap.ByteString("stack", debug.Stack()),
				)
				response.Error(c, http.StatusInternalServerError, apperror.KindInternal, internalErrorMessage, nil)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFound answers unknown routes.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, apperror.KindNotFound,
			fmt.Sprintf("Route %s %s not found", c.Request.Method, c.Request.URL.Path), nil)
	}
}
