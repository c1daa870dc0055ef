package testutil

import (
	ierr "github.com/buzzhq/buzz/internal/errors"
)

var errPublish = ierr.NewError("publish failed").Mark(ierr.ErrSystem)
