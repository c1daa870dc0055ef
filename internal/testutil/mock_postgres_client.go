package testutil

import (
	"context"

	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/postgres"
	"github.com/buzzhq/buzz/internal/types"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

type txMarker struct{}

// MockPostgresClient runs transactional functions without a database
type MockPostgresClient struct {
	logger *logger.Logger
}

func NewMockPostgresClient(logger *logger.Logger) postgres.IClient {
	return &MockPostgresClient{logger: logger}
}

// WithTx marks the context as transactional and runs fn. Stores are not
// rolled back on error.
func (c *MockPostgresClient) WithTx(ctx context.Context, fn func(context.Context) error) error {
	if ctx.Value(types.CtxDBTransaction) == nil {
		ctx = context.WithValue(ctx, types.CtxDBTransaction, txMarker{})
	}
	return fn(ctx)
}
