package pricing

import (
	"testing"
	"time"

	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func timePtr(t time.Time) *time.Time {
	return &t
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func testEvent() *event.Event {
	return &event.Event{
		ID:         "evt_summit",
		Route:      "tech-summit",
		Title:      "Tech Summit",
		CategoryID: "cat_conference",
		Currency:   "INR",
	}
}

func testCatalog() *catalog.Catalog {
	ev := testEvent()
	tickets := []*catalog.TicketType{
		{ID: "tkt_std", EventID: ev.ID, Title: "Standard", Price: dec("100"), Currency: "INR", IsPublished: true},
		{ID: "tkt_early", EventID: ev.ID, Title: "Early Bird", Price: dec("80"), Currency: "INR", IsPublished: true},
		{ID: "tkt_vip", EventID: ev.ID, Title: "VIP", Price: dec("500"), Currency: "INR", IsPublished: true, MaxAvailable: 10, SoldCount: 8},
		{ID: "tkt_full", EventID: ev.ID, Title: "Workshop", Price: dec("300"), Currency: "INR", IsPublished: true, MaxAvailable: 5, SoldCount: 5},
		{ID: "tkt_draft", EventID: ev.ID, Title: "Draft", Price: dec("100"), Currency: "INR", IsPublished: false},
		{ID: "tkt_closed", EventID: ev.ID, Title: "Closed", Price: dec("100"), Currency: "INR", IsPublished: true, AutoUnpublishAfter: timePtr(testNow.Add(-time.Hour))},
		{ID: "tkt_usd", EventID: ev.ID, Title: "Foreign", Price: dec("10"), Currency: "USD", IsPublished: true},
		{ID: "tkt_1000", EventID: ev.ID, Title: "Patron", Price: dec("1000"), Currency: "INR", IsPublished: true},
	}
	addOns := []*catalog.AddOn{
		{ID: "addon_tshirt", EventID: ev.ID, Title: "T-Shirt", Price: dec("50"), Currency: "INR", Enabled: true, UserSelectsOption: true, Options: []string{"S", "M", "L"}},
		{ID: "addon_lunch", EventID: ev.ID, Title: "Lunch", Price: dec("25"), Currency: "INR", Enabled: true},
		{ID: "addon_parking", EventID: ev.ID, Title: "Parking", Price: dec("200"), Currency: "INR", Enabled: true},
		{ID: "addon_off", EventID: ev.ID, Title: "Dinner", Price: dec("75"), Currency: "INR", Enabled: false},
	}
	return catalog.NewCatalog(ev, tickets, addOns, nil, testNow)
}

func attendee(id int, ticket string, addOns ...string) Attendee {
	a := Attendee{LocalID: id, FullName: "Guest", Email: "guest@example.com", TicketTypeID: ticket, AddOns: map[string]AddOnSelection{}}
	for _, addOn := range addOns {
		a.AddOns[addOn] = AddOnSelection{Selected: true}
	}
	return a
}

func discountCoupon(kind types.DiscountKind, value string) *coupon.Coupon {
	return &coupon.Coupon{
		ID:            "coupon_1",
		Code:          "SAVE",
		Type:          types.CouponTypeDiscount,
		DiscountKind:  kind,
		DiscountValue: dec(value),
		IsActive:      true,
	}
}

func freeTicketsCoupon(count int) *coupon.Coupon {
	return &coupon.Coupon{
		ID:              "coupon_free",
		Code:            "FREEPASS",
		Type:            types.CouponTypeFreeTickets,
		EventID:         "evt_summit",
		FreeTicketCount: count,
		IsActive:        true,
	}
}

func noTax() event.TaxPolicy {
	return event.TaxPolicy{}
}

func exclusiveTax(pct string) event.TaxPolicy {
	return event.TaxPolicy{ApplyTax: true, Label: "GST", Percentage: dec(pct)}
}

func inclusiveTax(pct string) event.TaxPolicy {
	return event.TaxPolicy{ApplyTax: true, Label: "GST", Percentage: dec(pct), Inclusive: true}
}

func fixedClock() time.Time {
	return testNow
}
