package router

import (
	"context"
	"errors"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
)

// shouldRetry reports whether a handler error is transient
func shouldRetry(logger *logger.Logger, err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	if ierr.IsValidation(err) ||
		ierr.IsNotFound(err) ||
		ierr.IsInvalidOperation(err) {
		logger.Debugw("non-retryable handler error", "error", err)
		return false
	}

	return true
}
