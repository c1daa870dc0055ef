package testutil

import (
	"context"

	"github.com/buzzhq/buzz/internal/domain/event"
	ierr "github.com/buzzhq/buzz/internal/errors"
)

// InMemoryEventStore implements event.Repository
type InMemoryEventStore struct {
	*InMemoryStore[*event.Event]
}

func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		InMemoryStore: NewInMemoryStore[*event.Event](),
	}
}

func copyEvent(e *event.Event) *event.Event {
	c := *e
	return &c
}

func (s *InMemoryEventStore) Create(ctx context.Context, e *event.Event) error {
	if e == nil {
		return ierr.NewError("event cannot be nil").Mark(ierr.ErrValidation)
	}
	if len(s.List(ctx, func(_ context.Context, existing *event.Event) bool {
		return existing.Route == e.Route
	}, nil)) > 0 {
		return ierr.NewErrorf("route %s already taken", e.Route).Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, e.ID, copyEvent(e))
}

func (s *InMemoryEventStore) Get(ctx context.Context, id string) (*event.Event, error) {
	e, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).WithHint("Event not found").Mark(ierr.ErrNotFound)
	}
	return copyEvent(e), nil
}

func (s *InMemoryEventStore) GetByRoute(ctx context.Context, route string) (*event.Event, error) {
	found := s.List(ctx, func(_ context.Context, e *event.Event) bool { return e.Route == route }, nil)
	if len(found) == 0 {
		return nil, ierr.NewErrorf("event %s not found", route).
			WithHint("Event not found").
			Mark(ierr.ErrNotFound)
	}
	return copyEvent(found[0]), nil
}
