package service

import (
	"context"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/validator"
)

// EventService is the admin surface for setting up a bookable event
type EventService interface {
	CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.CatalogResponse, error)
}

type eventService struct {
	ServiceParams
	catalog CatalogService
}

func NewEventService(params ServiceParams, catalogService CatalogService) EventService {
	return &eventService{
		ServiceParams: params,
		catalog:       catalogService,
	}
}

// CreateEvent stores the event with its ticket types, add-ons and custom
// fields in one transaction and returns the fresh catalog
func (s *eventService) CreateEvent(ctx context.Context, req dto.CreateEventRequest) (*dto.CatalogResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ev := req.ToEvent(ctx)
	ticketTypes := req.ToTicketTypes(ctx, ev)
	addOns := req.ToAddOns(ctx, ev)
	fields := req.ToCustomFields(ev)

	err := s.DB.WithTx(ctx, func(ctx context.Context) error {
		if err := s.EventRepo.Create(ctx, ev); err != nil {
			return err
		}
		for _, t := range ticketTypes {
			if err := s.CatalogRepo.CreateTicketType(ctx, t); err != nil {
				return err
			}
		}
		for _, a := range addOns {
			if err := s.CatalogRepo.CreateAddOn(ctx, a); err != nil {
				return err
			}
		}
		for _, f := range fields {
			if err := s.CatalogRepo.CreateCustomField(ctx, f); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("event created",
		"event_id", ev.ID,
		"event_route", ev.Route,
		"ticket_types", len(ticketTypes),
		"add_ons", len(addOns),
		"custom_fields", len(fields),
	)

	c, err := s.catalog.RefreshCatalog(ctx, ev.Route)
	if err != nil {
		return nil, err
	}
	return dto.NewCatalogResponse(c, s.Formatter, s.Calculator.Now(), s.locale("")), nil
}
