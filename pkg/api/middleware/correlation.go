package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/serverlessworks/meta-controller/pkg/constants"
)

const (
	// CorrelationIDKey is the Gin context key for the transaction id
	CorrelationIDKey = "correlation_id"
	// LoggerKey is the Gin context key for the correlation-aware logger
	LoggerKey = "logger"
)

// CorrelationIDMiddleware creates a middleware that handles transaction id
// tracking. It checks for an existing X-Correlation-ID header, generates a
// new UUID if not present, stores it in the Gin context, adds it to the
// response header, and creates a logger with the id for use in subsequent
// handlers. The id is used purely for log correlation.
func CorrelationIDMiddleware(baseLogger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(constants.CorrelationIDHeader)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		c.Set(CorrelationIDKey, correlationID)

		logger := baseLogger.With(zap.String("correlation_id", correlationID))
		c.Set(LoggerKey, logger)

		c.Header(constants.CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// GetLogger retrieves the correlation-aware logger from the Gin context
// If not found, returns the provided fallback logger
func GetLogger(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if logger, exists := c.Get(LoggerKey); exists {
		if l, ok := logger.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}

// GetCorrelationID retrieves the transaction id from the Gin context
// Returns empty string if not found
func GetCorrelationID(c *gin.Context) string {
	if correlationID, exists := c.Get(CorrelationIDKey); exists {
		if id, ok := correlationID.(string); ok {
			return id
		}
	}
	return ""
}
