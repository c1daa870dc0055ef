package middleware

import (
	"context"

	"github.com/buzzhq/buzz/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func RequestIDMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	ctx = context.WithValue(ctx, types.CtxRequestID, requestID)
	c.Request = c.Request.WithContext(ctx)

	c.Header(types.HeaderRequestID, requestID)

	c.Next()
}

// SessionMiddleware binds the caller's session and user to the request
// context. A missing session id is generated and echoed back so the client
// can keep its booking draft across requests. The user id is set by the
// upstream gateway; requests without one book as guests.
func SessionMiddleware(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID := c.GetHeader(types.HeaderSessionID)
	if sessionID == "" {
		sessionID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SESSION)
	}
	ctx = context.WithValue(ctx, types.CtxSessionID, sessionID)

	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = context.WithValue(ctx, types.CtxUserID, userID)
	}

	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderSessionID, sessionID)

	c.Next()
}
