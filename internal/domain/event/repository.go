package event

import (
	"context"
)

// Repository defines the interface for event data access
type Repository interface {
	Create(ctx context.Context, event *Event) error
	Get(ctx context.Context, id string) (*Event, error)
	GetByRoute(ctx context.Context, route string) (*Event, error)
}
