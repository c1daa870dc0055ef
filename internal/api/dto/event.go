package dto

import (
	"context"
	"strings"
	"time"

	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/event"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CreateEventRequest creates an event together with everything it sells
type CreateEventRequest struct {
	Route        string                     `json:"route" validate:"required"`
	Title        string                     `json:"title" validate:"required"`
	CategoryID   string                     `json:"category_id,omitempty"`
	Currency     string                     `json:"currency" validate:"required,currency"`
	Tax          TaxPolicyRequest           `json:"tax"`
	TicketTypes  []CreateTicketTypeRequest  `json:"ticket_types" validate:"required,min=1,dive"`
	AddOns       []CreateAddOnRequest       `json:"add_ons,omitempty" validate:"omitempty,dive"`
	CustomFields []CreateCustomFieldRequest `json:"custom_fields,omitempty" validate:"omitempty,dive"`
}

type TaxPolicyRequest struct {
	ApplyTax   bool            `json:"apply_tax"`
	Label      string          `json:"label,omitempty"`
	Percentage decimal.Decimal `json:"percentage" swaggertype:"string"`
	Inclusive  bool            `json:"inclusive"`
}

type CreateTicketTypeRequest struct {
	Title              string          `json:"title" validate:"required"`
	Price              decimal.Decimal `json:"price" swaggertype:"string" validate:"nonnegative_decimal"`
	MaxAvailable       int             `json:"max_available" validate:"gte=0"`
	AutoUnpublishAfter *time.Time      `json:"auto_unpublish_after,omitempty"`
	// Unpublished ticket types are stored but not sold
	Unpublished        bool            `json:"unpublished,omitempty"`
}

type CreateAddOnRequest struct {
	Title             string          `json:"title" validate:"required"`
	Price             decimal.Decimal `json:"price" swaggertype:"string" validate:"nonnegative_decimal"`
	UserSelectsOption bool            `json:"user_selects_option"`
	// Options is a newline separated list, as entered in the admin form
	Options           string          `json:"options,omitempty"`
}

type CreateCustomFieldRequest struct {
	Name         string                     `json:"name" validate:"required"`
	Label        string                     `json:"label" validate:"required"`
	FieldType    types.CustomFieldType      `json:"field_type" validate:"required"`
	AppliesTo    types.CustomFieldAppliesTo `json:"applies_to" validate:"required,oneof=Booking Ticket"`
	Mandatory    bool                       `json:"mandatory"`
	Placeholder  string                     `json:"placeholder,omitempty"`
	DefaultValue string                     `json:"default_value,omitempty"`
	Options      string                     `json:"options,omitempty"`
	SortOrder    int                        `json:"sort_order"`
}

func (r *CreateEventRequest) Validate() error {
	if strings.ContainsAny(r.Route, " /?#") {
		return ierr.NewError("invalid event route").
			WithHint("Route may not contain spaces or URL separators").
			WithReportableDetails(map[string]any{
				"route": r.Route,
			}).
			Mark(ierr.ErrValidation)
	}

	if r.Tax.ApplyTax && (r.Tax.Percentage.IsNegative() || r.Tax.Percentage.GreaterThan(decimal.NewFromInt(100))) {
		return ierr.NewError("invalid tax percentage").
			WithHint("Tax percentage must be between 0 and 100").
			WithReportableDetails(map[string]any{
				"percentage": r.Tax.Percentage.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	for _, a := range r.AddOns {
		if a.UserSelectsOption && len(types.ParseOptions(a.Options)) == 0 {
			return ierr.NewError("add-on options missing").
				WithHintf("Add-on %q lets users pick an option but lists none", a.Title).
				Mark(ierr.ErrValidation)
		}
	}

	names := lo.Map(r.CustomFields, func(f CreateCustomFieldRequest, _ int) string { return f.Name })
	if dup := lo.FindDuplicates(names); len(dup) > 0 {
		return ierr.NewError("duplicate custom field name").
			WithHint("Custom field names must be unique per event").
			WithReportableDetails(map[string]any{
				"names": dup,
			}).
			Mark(ierr.ErrValidation)
	}
	for _, f := range r.CustomFields {
		if f.FieldType.HasOptions() && len(types.ParseOptions(f.Options)) == 0 {
			return ierr.NewError("custom field options missing").
				WithHintf("Field %q needs at least one option", f.Label).
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// ToEvent builds the event row. Catalog items are built separately once the
// event id is known.
func (r *CreateEventRequest) ToEvent(ctx context.Context) *event.Event {
	return &event.Event{
		ID:         types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EVENT),
		Route:      strings.TrimSpace(r.Route),
		Title:      r.Title,
		CategoryID: r.CategoryID,
		Currency:   types.NormalizeCurrency(r.Currency),
		Tax: event.TaxPolicy{
			ApplyTax:   r.Tax.ApplyTax,
			Label:      lo.Ternary(r.Tax.Label == "", "Tax", r.Tax.Label),
			Percentage: r.Tax.Percentage,
			Inclusive:  r.Tax.Inclusive,
		},
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

func (r *CreateEventRequest) ToTicketTypes(ctx context.Context, ev *event.Event) []*catalog.TicketType {
	return lo.Map(r.TicketTypes, func(t CreateTicketTypeRequest, _ int) *catalog.TicketType {
		return &catalog.TicketType{
			ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TICKET_TYPE),
			EventID:            ev.ID,
			Title:              t.Title,
			Price:              t.Price,
			Currency:           ev.Currency,
			IsPublished:        !t.Unpublished,
			AutoUnpublishAfter: t.AutoUnpublishAfter,
			MaxAvailable:       t.MaxAvailable,
			BaseModel:          types.GetDefaultBaseModel(ctx),
		}
	})
}

func (r *CreateEventRequest) ToAddOns(ctx context.Context, ev *event.Event) []*catalog.AddOn {
	return lo.Map(r.AddOns, func(a CreateAddOnRequest, _ int) *catalog.AddOn {
		return &catalog.AddOn{
			ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ADD_ON),
			EventID:           ev.ID,
			Title:             a.Title,
			Price:             a.Price,
			Currency:          ev.Currency,
			Enabled:           true,
			UserSelectsOption: a.UserSelectsOption,
			Options:           types.ParseOptions(a.Options),
			BaseModel:         types.GetDefaultBaseModel(ctx),
		}
	})
}

func (r *CreateEventRequest) ToCustomFields(ev *event.Event) []*catalog.CustomField {
	return lo.Map(r.CustomFields, func(f CreateCustomFieldRequest, _ int) *catalog.CustomField {
		return &catalog.CustomField{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FIELD),
			EventID:      ev.ID,
			Name:         f.Name,
			Label:        f.Label,
			FieldType:    f.FieldType,
			AppliesTo:    f.AppliesTo,
			Mandatory:    f.Mandatory,
			Placeholder:  f.Placeholder,
			DefaultValue: f.DefaultValue,
			Options:      types.ParseOptions(f.Options),
			SortOrder:    f.SortOrder,
			Enabled:      true,
		}
	})
}

// EventResponse is the public view of an event
type EventResponse struct {
	ID         string          `json:"id"`
	Route      string          `json:"route"`
	Title      string          `json:"title"`
	CategoryID string          `json:"category_id,omitempty"`
	Currency   string          `json:"currency"`
	Tax        event.TaxPolicy `json:"tax"`
}

func NewEventResponse(ev *event.Event) *EventResponse {
	return &EventResponse{
		ID:         ev.ID,
		Route:      ev.Route,
		Title:      ev.Title,
		CategoryID: ev.CategoryID,
		Currency:   ev.Currency,
		Tax:        ev.Tax,
	}
}
