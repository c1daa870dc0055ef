package service

import (
	"context"

	"github.com/buzzhq/buzz/internal/api/dto"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/draft"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/buzzhq/buzz/internal/validator"
	"github.com/samber/lo"
)

// DraftService keeps the booking a client is editing for one event route.
// Every action is applied to a copy of the stored draft, repriced, and only
// saved when pricing succeeds.
type DraftService interface {
	GetDraft(ctx context.Context, route, locale string) (*dto.DraftResponse, error)
	ApplyEvent(ctx context.Context, route string, req dto.DraftEventRequest) (*dto.DraftResponse, error)
	ClearDraft(ctx context.Context, route string) error
}

type draftService struct {
	ServiceParams
	catalog CatalogService
}

func NewDraftService(params ServiceParams, catalogService CatalogService) DraftService {
	return &draftService{
		ServiceParams: params,
		catalog:       catalogService,
	}
}

func draftKey(ctx context.Context, route string) (draft.Key, error) {
	key := draft.Key{SessionID: types.GetSessionID(ctx), EventRoute: route}
	return key, key.Validate()
}

// GetDraft returns the stored draft. A draft that no longer prices, for
// example because a ticket sold out, is returned with the reason in
// PricingError so the client can fix it.
func (s *draftService) GetDraft(ctx context.Context, route, locale string) (*dto.DraftResponse, error) {
	key, err := draftKey(ctx, route)
	if err != nil {
		return nil, err
	}

	c, err := s.catalog.GetCatalog(ctx, route)
	if err != nil {
		return nil, err
	}

	d, err := s.DraftStore.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	resp, err := s.respond(ctx, c, d, locale)
	if err != nil {
		s.Logger.Infow("stored draft no longer prices",
			"event_route", route,
			"error", err,
		)
		return &dto.DraftResponse{Draft: d, PricingError: ierr.DisplayMessage(err)}, nil
	}
	return resp, nil
}

func (s *draftService) ApplyEvent(ctx context.Context, route string, req dto.DraftEventRequest) (*dto.DraftResponse, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	key, err := draftKey(ctx, route)
	if err != nil {
		return nil, err
	}

	c, err := s.catalog.GetCatalog(ctx, route)
	if err != nil {
		return nil, err
	}
	if err := checkFieldName(c, req.Event); err != nil {
		return nil, err
	}

	d, err := s.DraftStore.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	next, err := draft.Apply(d, req.Event)
	if err != nil {
		return nil, err
	}

	// a draft that fails to price is never stored
	resp, err := s.respond(ctx, c, next, req.Locale)
	if err != nil {
		return nil, err
	}

	if err := s.DraftStore.Save(ctx, key, next); err != nil {
		return nil, err
	}

	s.Logger.Debugw("draft updated",
		"event_route", route,
		"type", req.Type,
		"attendees", len(next.Attendees),
	)
	return resp, nil
}

func (s *draftService) ClearDraft(ctx context.Context, route string) error {
	key, err := draftKey(ctx, route)
	if err != nil {
		return err
	}
	return s.DraftStore.Delete(ctx, key)
}

// respond prices d. Drafts without attendees carry no breakdown.
func (s *draftService) respond(ctx context.Context, c *catalog.Catalog, d draft.Draft, locale string) (*dto.DraftResponse, error) {
	resp := &dto.DraftResponse{Draft: d}
	if len(d.Attendees) == 0 {
		return resp, nil
	}

	b, _, err := s.price(ctx, c, d.Attendees, d.CouponCode)
	if err != nil {
		return nil, err
	}
	resp.Breakdown = dto.NewBreakdownResponse(b, s.Formatter, s.locale(locale))
	return resp, nil
}

// checkFieldName rejects custom field writes for fields the event does not ask for
func checkFieldName(c *catalog.Catalog, ev draft.Event) error {
	var target types.CustomFieldAppliesTo
	switch ev.Type {
	case types.DraftEventSetCustomField:
		target = types.CustomFieldAppliesToTicket
	case types.DraftEventSetBookingField:
		target = types.CustomFieldAppliesToBooking
	default:
		return nil
	}

	field, ok := lo.Find(c.FieldsFor(target), func(f *catalog.CustomField) bool { return f.Name == ev.Field })
	if !ok {
		return ierr.NewErrorf("unknown custom field %s", ev.Field).
			WithHint("This field is not part of the booking form").
			WithReportableDetails(map[string]any{
				"field":      ev.Field,
				"applies_to": target,
			}).
			Mark(ierr.ErrValidation)
	}

	if field.FieldType == types.CustomFieldTypeSelect && ev.Value != "" && !lo.Contains(field.Options, ev.Value) {
		return ierr.NewErrorf("invalid option for %s", ev.Field).
			WithHintf("Please choose one of the options for %s", field.Label).
			WithReportableDetails(map[string]any{
				"field":   ev.Field,
				"options": field.Options,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
