// Package httpkit provides HTTP utilities including actor identification.
package httpkit

import (
	"context"
	"strings"

	"kam_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderUserID carries the acting user as resolved by the upstream gateway.
	HeaderUserID = "X-User-ID"
	// HeaderRequestID carries the request correlation ID.
	HeaderRequestID = "X-Request-ID"

	// ContextUserIDKey is the gin context key for the acting user ID.
	ContextUserIDKey = "userID"
)

// ActorFromHeader reads the acting user from X-User-ID. The header is optional;
// a malformed value is ignored rather than rejected.
func ActorFromHeader() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(HeaderUserID))
		if raw != "" {
			if userID, err := uuid.Parse(raw); err == nil {
				c.Set(ContextUserIDKey, userID)
				ctx := context.WithValue(c.Request.Context(), logger.UserIDKey, userID.String())
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}

// ActorID returns the acting user, or nil when no user was supplied.
func ActorID(c *gin.Context) *uuid.UUID {
	value, ok := c.Get(ContextUserIDKey)
	if !ok {
		return nil
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &userID
}

// RequestID assigns a correlation ID to every request, reusing an incoming one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(HeaderRequestID, requestID)
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
