package service

import (
	"context"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/cache"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/sourcegraph/conc/pool"
)

// CatalogService serves catalog snapshots per event route. Snapshots are
// cached process wide and replaced, never mutated, on refresh.
type CatalogService interface {
	GetCatalog(ctx context.Context, route string) (*catalog.Catalog, error)
	GetCatalogResponse(ctx context.Context, route, locale string) (*dto.CatalogResponse, error)
	RefreshCatalog(ctx context.Context, route string) (*catalog.Catalog, error)
	InvalidateCatalog(ctx context.Context, route string)
}

type catalogService struct {
	ServiceParams
}

func NewCatalogService(params ServiceParams) CatalogService {
	return &catalogService{
		ServiceParams: params,
	}
}

func catalogKey(route string) string {
	return cache.GenerateKey(cache.PrefixCatalog, route)
}

func (s *catalogService) GetCatalog(ctx context.Context, route string) (*catalog.Catalog, error) {
	if v, ok := s.Cache.Get(ctx, catalogKey(route)); ok {
		if c, ok := v.(*catalog.Catalog); ok {
			return c, nil
		}
	}
	return s.RefreshCatalog(ctx, route)
}

func (s *catalogService) GetCatalogResponse(ctx context.Context, route, locale string) (*dto.CatalogResponse, error) {
	c, err := s.GetCatalog(ctx, route)
	if err != nil {
		return nil, err
	}
	return dto.NewCatalogResponse(c, s.Formatter, s.Calculator.Now(), s.locale(locale)), nil
}

// RefreshCatalog loads the event and its catalog from the repositories and
// replaces the cached snapshot
func (s *catalogService) RefreshCatalog(ctx context.Context, route string) (*catalog.Catalog, error) {
	ev, err := s.EventRepo.GetByRoute(ctx, route)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, ev)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, catalogKey(route), c, s.Config.Cache.CatalogTTL)
	s.Logger.Debugw("catalog loaded",
		"event_route", route,
		"ticket_types", len(c.TicketTypes),
		"add_ons", len(c.AddOns),
		"custom_fields", len(c.CustomFields),
	)
	return c, nil
}

func (s *catalogService) InvalidateCatalog(ctx context.Context, route string) {
	s.Cache.Delete(ctx, catalogKey(route))
}

// load reads the three catalog tables concurrently
func (s *catalogService) load(ctx context.Context, ev *event.Event) (*catalog.Catalog, error) {
	var (
		ticketTypes []*catalog.TicketType
		addOns      []*catalog.AddOn
		fields      []*catalog.CustomField
	)

	p := pool.New().WithErrors().WithContext(ctx).WithFirstError().WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		var err error
		ticketTypes, err = s.CatalogRepo.ListTicketTypes(ctx, ev.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		addOns, err = s.CatalogRepo.ListAddOns(ctx, ev.ID)
		return err
	})
	p.Go(func(ctx context.Context) error {
		var err error
		fields, err = s.CatalogRepo.ListCustomFields(ctx, ev.ID)
		return err
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return catalog.NewCatalog(ev, ticketTypes, addOns, fields, s.Calculator.Now()), nil
}
