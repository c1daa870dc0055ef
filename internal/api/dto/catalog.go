package dto

import (
	"time"

	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/pricing"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// CatalogResponse is what a booking page renders before any attendee is added
type CatalogResponse struct {
	Event         *EventResponse         `json:"event"`
	TicketTypes   []*TicketTypeResponse  `json:"ticket_types"`
	AddOns        []*AddOnResponse       `json:"add_ons"`
	BookingFields []*CustomFieldResponse `json:"booking_fields"`
	TicketFields  []*CustomFieldResponse `json:"ticket_fields"`
	LoadedAt      time.Time              `json:"loaded_at"`
}

type TicketTypeResponse struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Price          decimal.Decimal `json:"price" swaggertype:"string"`
	FormattedPrice string          `json:"formatted_price"`
	OnSale         bool            `json:"on_sale"`
	Unlimited      bool            `json:"unlimited"`
	// Remaining is omitted for unlimited ticket types
	Remaining      *int            `json:"remaining,omitempty"`
}

type AddOnResponse struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price" swaggertype:"string"`
	FormattedPrice    string          `json:"formatted_price"`
	UserSelectsOption bool            `json:"user_selects_option"`
	Options           []string        `json:"options,omitempty"`
}

type CustomFieldResponse struct {
	Name        string                `json:"name"`
	Label       string                `json:"label"`
	FieldType   types.CustomFieldType `json:"field_type"`
	FormControl types.FormControl     `json:"form_control"`
	Mandatory   bool                  `json:"mandatory"`
	Placeholder string                `json:"placeholder,omitempty"`
	Default     string                `json:"default,omitempty"`
	Options     []string              `json:"options,omitempty"`
}

// NewCatalogResponse renders a snapshot for display. Ticket types that are
// not on sale at now are listed with on_sale false so clients can grey them out.
func NewCatalogResponse(c *catalog.Catalog, f *pricing.Formatter, now time.Time, locale string) *CatalogResponse {
	currency := c.Event.Currency

	return &CatalogResponse{
		Event: NewEventResponse(c.Event),
		TicketTypes: lo.Map(c.TicketTypes, func(t *catalog.TicketType, _ int) *TicketTypeResponse {
			remaining, unlimited := t.Remaining()
			resp := &TicketTypeResponse{
				ID:             t.ID,
				Title:          t.Title,
				Price:          t.Price,
				FormattedPrice: f.FormatOrFree(t.Price, currency, locale),
				OnSale:         t.IsOnSale(now),
				Unlimited:      unlimited,
			}
			if !unlimited {
				resp.Remaining = lo.ToPtr(remaining)
			}
			return resp
		}),
		AddOns: lo.FilterMap(c.AddOns, func(a *catalog.AddOn, _ int) (*AddOnResponse, bool) {
			return &AddOnResponse{
				ID:                a.ID,
				Title:             a.Title,
				Price:             a.Price,
				FormattedPrice:    f.FormatOrFree(a.Price, currency, locale),
				UserSelectsOption: a.UserSelectsOption,
				Options:           a.Options,
			}, a.Enabled
		}),
		BookingFields: newCustomFieldResponses(c.FieldsFor(types.CustomFieldAppliesToBooking)),
		TicketFields:  newCustomFieldResponses(c.FieldsFor(types.CustomFieldAppliesToTicket)),
		LoadedAt:      c.LoadedAt,
	}
}

func newCustomFieldResponses(fields []*catalog.CustomField) []*CustomFieldResponse {
	return lo.Map(fields, func(f *catalog.CustomField, _ int) *CustomFieldResponse {
		return &CustomFieldResponse{
			Name:        f.Name,
			Label:       f.Label,
			FieldType:   f.FieldType,
			FormControl: f.FieldType.FormControl(),
			Mandatory:   f.Mandatory,
			Placeholder: f.Placeholder,
			Default:     f.Default(),
			Options:     f.Options,
		}
	})
}
