package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/buzzhq/buzz/internal/domain/catalog"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/samber/lo"
)

// InMemoryCatalogStore implements catalog.Repository. Reads return copies so
// callers never share state with the store.
type InMemoryCatalogStore struct {
	ticketTypes  *InMemoryStore[*catalog.TicketType]
	addOns       *InMemoryStore[*catalog.AddOn]
	customFields *InMemoryStore[*catalog.CustomField]

	mu    sync.RWMutex
	seq   int
	order map[string]int
}

func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{
		ticketTypes:  NewInMemoryStore[*catalog.TicketType](),
		addOns:       NewInMemoryStore[*catalog.AddOn](),
		customFields: NewInMemoryStore[*catalog.CustomField](),
		order:        make(map[string]int),
	}
}

// track remembers insertion order so lists come back in creation order
func (s *InMemoryCatalogStore) track(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.order[id] = s.seq
}

func (s *InMemoryCatalogStore) byInsertion(a, b string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order[a] < s.order[b]
}

func (s *InMemoryCatalogStore) CreateTicketType(ctx context.Context, t *catalog.TicketType) error {
	c := *t
	if err := s.ticketTypes.Create(ctx, t.ID, &c); err != nil {
		return err
	}
	s.track(t.ID)
	return nil
}

func (s *InMemoryCatalogStore) CreateAddOn(ctx context.Context, a *catalog.AddOn) error {
	c := *a
	c.Options = slices.Clone(a.Options)
	if err := s.addOns.Create(ctx, a.ID, &c); err != nil {
		return err
	}
	s.track(a.ID)
	return nil
}

func (s *InMemoryCatalogStore) CreateCustomField(ctx context.Context, f *catalog.CustomField) error {
	c := *f
	c.Options = slices.Clone(f.Options)
	return s.customFields.Create(ctx, f.ID, &c)
}

func (s *InMemoryCatalogStore) ListTicketTypes(ctx context.Context, eventID string) ([]*catalog.TicketType, error) {
	items := s.ticketTypes.List(ctx,
		func(_ context.Context, t *catalog.TicketType) bool { return t.EventID == eventID },
		func(a, b *catalog.TicketType) bool { return s.byInsertion(a.ID, b.ID) },
	)
	return lo.Map(items, func(t *catalog.TicketType, _ int) *catalog.TicketType {
		c := *t
		return &c
	}), nil
}

func (s *InMemoryCatalogStore) ListAddOns(ctx context.Context, eventID string) ([]*catalog.AddOn, error) {
	items := s.addOns.List(ctx,
		func(_ context.Context, a *catalog.AddOn) bool { return a.EventID == eventID },
		func(a, b *catalog.AddOn) bool { return s.byInsertion(a.ID, b.ID) },
	)
	return lo.Map(items, func(a *catalog.AddOn, _ int) *catalog.AddOn {
		c := *a
		c.Options = slices.Clone(a.Options)
		return &c
	}), nil
}

func (s *InMemoryCatalogStore) ListCustomFields(ctx context.Context, eventID string) ([]*catalog.CustomField, error) {
	items := s.customFields.List(ctx,
		func(_ context.Context, f *catalog.CustomField) bool { return f.EventID == eventID },
		func(a, b *catalog.CustomField) bool {
			if a.SortOrder != b.SortOrder {
				return a.SortOrder < b.SortOrder
			}
			return a.Name < b.Name
		},
	)
	return lo.Map(items, func(f *catalog.CustomField, _ int) *catalog.CustomField {
		c := *f
		c.Options = slices.Clone(f.Options)
		return &c
	}), nil
}

func (s *InMemoryCatalogStore) IncrementSoldCount(ctx context.Context, ticketTypeID string, quantity, overCapacity int) error {
	return s.ticketTypes.Mutate(ctx, ticketTypeID, func(t *catalog.TicketType) error {
		if t.MaxAvailable > 0 && t.SoldCount+quantity > t.MaxAvailable+overCapacity {
			return ierr.NewError("ticket type sold out").
				WithHint("Not enough tickets left for this ticket type").
				Mark(ierr.ErrUnavailable)
		}
		t.SoldCount += quantity
		return nil
	})
}

// SoldCount returns the stored sold counter for assertions
func (s *InMemoryCatalogStore) SoldCount(ctx context.Context, ticketTypeID string) int {
	t, err := s.ticketTypes.Get(ctx, ticketTypeID)
	if err != nil {
		return 0
	}
	return t.SoldCount
}

func (s *InMemoryCatalogStore) Clear() {
	s.ticketTypes.Clear()
	s.addOns.Clear()
	s.customFields.Clear()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq = 0
	s.order = make(map[string]int)
}
