package response

import (
	"net/http"

	"scanorder/application/session"
	"scanorder/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotPersistedWarning returned with the new state when the store rejected the write
const NotPersistedWarning = "change saved on this device only; it may be lost on reload"

func HandleSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusOK,
		RequestID: getRequestID(c),
	})
}

func HandleCreated(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusCreated, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Code:      http.StatusCreated,
		RequestID: getRequestID(c),
	})
}

func HandleNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandleDegraded answers a write that was kept in memory but not persisted
func HandleDegraded(c *gin.Context, data interface{}, message string, err error) {
	requestID := getRequestID(c)
	logger.Warn("Request served without durable write",
		zap.String("request_id", requestID),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))

	c.JSON(http.StatusOK, &Response{
		Success:   true,
		Data:      data,
		Message:   message,
		Warning:   NotPersistedWarning,
		Code:      http.StatusOK,
		RequestID: requestID,
	})
}

// HandleResult picks success, degraded or error from the write result.
// status is used for the success case.
func HandleResult(c *gin.Context, err error, status int, data interface{}, message string) {
	switch {
	case err == nil && status == http.StatusCreated:
		HandleCreated(c, data, message)
	case err == nil:
		HandleSuccess(c, data, message)
	case session.IsDegraded(err):
		HandleDegraded(c, data, message, err)
	default:
		HandleAppError(c, err)
	}
}
