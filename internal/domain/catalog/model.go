package catalog

import (
	"time"

	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// TicketType is a sellable ticket for an event
type TicketType struct {
	ID                 string          `json:"id" db:"id"`
	EventID            string          `json:"event_id" db:"event_id"`
	Title              string          `json:"title" db:"title"`
	Price              decimal.Decimal `json:"price" db:"price"`
	Currency           string          `json:"currency" db:"currency"`
	IsPublished        bool            `json:"is_published" db:"is_published"`
	AutoUnpublishAfter *time.Time      `json:"auto_unpublish_after,omitempty" db:"auto_unpublish_after"`
	// MaxAvailable of 0 means unlimited
	MaxAvailable       int             `json:"max_available" db:"max_available"`
	SoldCount          int             `json:"sold_count" db:"sold_count"`
	types.BaseModel
}

// Remaining returns the number of unsold seats. unlimited is true when the
// ticket type has no cap, in which case the count is meaningless.
func (t *TicketType) Remaining() (remaining int, unlimited bool) {
	if t.MaxAvailable == 0 {
		return 0, true
	}
	return max(0, t.MaxAvailable-t.SoldCount), false
}

// IsOnSale reports whether the ticket type is published and not past its
// auto-unpublish time at now
func (t *TicketType) IsOnSale(now time.Time) bool {
	if !t.IsPublished {
		return false
	}
	if t.AutoUnpublishAfter != nil && !now.Before(*t.AutoUnpublishAfter) {
		return false
	}
	return true
}

// AddOn is an optional extra an attendee can select, priced per add-on
type AddOn struct {
	ID                string          `json:"id" db:"id"`
	EventID           string          `json:"event_id" db:"event_id"`
	Title             string          `json:"title" db:"title"`
	Price             decimal.Decimal `json:"price" db:"price"`
	Currency          string          `json:"currency" db:"currency"`
	Enabled           bool            `json:"enabled" db:"enabled"`
	UserSelectsOption bool            `json:"user_selects_option" db:"user_selects_option"`
	Options           []string        `json:"options,omitempty" db:"-"`
	types.BaseModel
}

func (a *AddOn) HasOption(option string) bool {
	return lo.Contains(a.Options, option)
}

// CustomField is an extra question asked per booking or per ticket
type CustomField struct {
	ID           string                     `json:"id" db:"id"`
	EventID      string                     `json:"event_id" db:"event_id"`
	Name         string                     `json:"name" db:"name"`
	Label        string                     `json:"label" db:"label"`
	FieldType    types.CustomFieldType      `json:"field_type" db:"field_type"`
	AppliesTo    types.CustomFieldAppliesTo `json:"applies_to" db:"applies_to"`
	Mandatory    bool                       `json:"mandatory" db:"mandatory"`
	Placeholder  string                     `json:"placeholder,omitempty" db:"placeholder"`
	DefaultValue string                     `json:"default_value,omitempty" db:"default_value"`
	Options      []string                   `json:"options,omitempty" db:"-"`
	SortOrder    int                        `json:"sort_order" db:"sort_order"`
	Enabled      bool                       `json:"enabled" db:"enabled"`
}

// Default returns the configured default, or the first option of a select field
func (f *CustomField) Default() string {
	if f.DefaultValue != "" {
		return f.DefaultValue
	}
	if f.FieldType == types.CustomFieldTypeSelect && len(f.Options) > 0 {
		return f.Options[0]
	}
	return ""
}

// Catalog is a read-only snapshot of everything sellable for one event.
// Snapshots are shared across requests through the catalog cache and must not
// be mutated after construction.
type Catalog struct {
	Event        *event.Event   `json:"event"`
	TicketTypes  []*TicketType  `json:"ticket_types"`
	AddOns       []*AddOn       `json:"add_ons"`
	CustomFields []*CustomField `json:"custom_fields"`
	LoadedAt     time.Time      `json:"loaded_at"`

	ticketTypes map[string]*TicketType
	addOns      map[string]*AddOn
}

func NewCatalog(ev *event.Event, ticketTypes []*TicketType, addOns []*AddOn, fields []*CustomField, loadedAt time.Time) *Catalog {
	return &Catalog{
		Event:        ev,
		TicketTypes:  ticketTypes,
		AddOns:       addOns,
		CustomFields: fields,
		LoadedAt:     loadedAt,
		ticketTypes:  lo.KeyBy(ticketTypes, func(t *TicketType) string { return t.ID }),
		addOns:       lo.KeyBy(addOns, func(a *AddOn) string { return a.ID }),
	}
}

// TicketType looks up a ticket type belonging to this event
func (c *Catalog) TicketType(id string) (*TicketType, bool) {
	t, ok := c.ticketTypes[id]
	return t, ok
}

// AddOn looks up an add-on belonging to this event
func (c *Catalog) AddOn(id string) (*AddOn, bool) {
	a, ok := c.addOns[id]
	return a, ok
}

// FieldsFor returns enabled custom fields for the given target in display order
func (c *Catalog) FieldsFor(target types.CustomFieldAppliesTo) []*CustomField {
	return lo.Filter(c.CustomFields, func(f *CustomField, _ int) bool {
		return f.Enabled && f.AppliesTo == target
	})
}
