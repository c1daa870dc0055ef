package testutil

import (
	"context"

	"github.com/buzzhq/buzz/internal/types"
)

const (
	DefaultUserID    = "user_test"
	DefaultSessionID = "sess_test"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxSessionID, DefaultSessionID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
