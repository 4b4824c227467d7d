package ctxutil

import (
	"context"

	"scanorder/api/response"
	"scanorder/infrastructure/persistence"

	"github.com/gin-gonic/gin"
)

// WithRequestID request context carrying the request id down to the store adapters
func WithRequestID(ctx *gin.Context) context.Context {
	requestID := response.GetRequestID(ctx)
	return persistence.ContextWithRequestID(ctx.Request.Context(), requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	return persistence.RequestIDFromContext(ctx)
}
