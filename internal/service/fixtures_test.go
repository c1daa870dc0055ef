package service

import (
	"context"
	"testing"

	"github.com/buzzhq/buzz/internal/domain/booking"
	"github.com/buzzhq/buzz/internal/domain/catalog"
	"github.com/buzzhq/buzz/internal/domain/coupon"
	"github.com/buzzhq/buzz/internal/domain/event"
	"github.com/buzzhq/buzz/internal/testutil"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoute = "tech-summit"

// summit is the event every service test books against: INR, 18% GST on
// top, a capped VIP ticket and two add-ons
type summit struct {
	event    *event.Event
	standard *catalog.TicketType
	vip      *catalog.TicketType
	tshirt   *catalog.AddOn
	lunch    *catalog.AddOn
	save10   *coupon.Coupon
	free1    *coupon.Coupon
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func seedSummit(t *testing.T, ctx context.Context, stores testutil.Stores) *summit {
	t.Helper()

	f := &summit{
		event: &event.Event{
			ID:         "evt_summit",
			Route:      testRoute,
			Title:      "Tech Summit",
			CategoryID: "cat_conference",
			Currency:   "INR",
			Tax:        event.TaxPolicy{ApplyTax: true, Label: "GST", Percentage: dec("18")},
			BaseModel:  types.GetDefaultBaseModel(ctx),
		},
	}
	require.NoError(t, stores.EventRepo.Create(ctx, f.event))

	f.standard = &catalog.TicketType{ID: "tkt_std", EventID: f.event.ID, Title: "Standard", Price: dec("500"), Currency: "INR", IsPublished: true, MaxAvailable: 10}
	f.vip = &catalog.TicketType{ID: "tkt_vip", EventID: f.event.ID, Title: "VIP", Price: dec("1500"), Currency: "INR", IsPublished: true, MaxAvailable: 2}
	for _, tt := range []*catalog.TicketType{f.standard, f.vip} {
		require.NoError(t, stores.CatalogRepo.CreateTicketType(ctx, tt))
	}

	f.tshirt = &catalog.AddOn{ID: "addon_tshirt", EventID: f.event.ID, Title: "T-Shirt", Price: dec("300"), Currency: "INR", Enabled: true, UserSelectsOption: true, Options: []string{"S", "M", "L"}}
	f.lunch = &catalog.AddOn{ID: "addon_lunch", EventID: f.event.ID, Title: "Lunch", Price: dec("200"), Currency: "INR", Enabled: true}
	for _, a := range []*catalog.AddOn{f.tshirt, f.lunch} {
		require.NoError(t, stores.CatalogRepo.CreateAddOn(ctx, a))
	}

	fields := []*catalog.CustomField{
		{ID: "cf_company", EventID: f.event.ID, Name: "company", Label: "Company", FieldType: types.CustomFieldTypeData, AppliesTo: types.CustomFieldAppliesToBooking, Mandatory: true, Enabled: true, SortOrder: 1},
		{ID: "cf_diet", EventID: f.event.ID, Name: "dietary", Label: "Dietary preference", FieldType: types.CustomFieldTypeSelect, AppliesTo: types.CustomFieldAppliesToTicket, Mandatory: true, Options: []string{"Veg", "Non-Veg"}, Enabled: true, SortOrder: 1},
		{ID: "cf_linkedin", EventID: f.event.ID, Name: "linkedin", Label: "LinkedIn", FieldType: types.CustomFieldTypeData, AppliesTo: types.CustomFieldAppliesToTicket, Enabled: true, SortOrder: 2},
	}
	for _, field := range fields {
		require.NoError(t, stores.CatalogRepo.CreateCustomField(ctx, field))
	}

	cap100 := dec("100")
	f.save10 = &coupon.Coupon{
		ID:                "coupon_save10",
		Code:              "SAVE10",
		Type:              types.CouponTypeDiscount,
		EventID:           f.event.ID,
		DiscountKind:      types.DiscountKindPercentage,
		DiscountValue:     dec("10"),
		MaxDiscountAmount: &cap100,
		MaxUsagePerUser:   1,
		IsActive:          true,
		BaseModel:         types.GetDefaultBaseModel(ctx),
	}
	f.free1 = &coupon.Coupon{
		ID:              "coupon_free1",
		Code:            "FREE1",
		Type:            types.CouponTypeFreeTickets,
		EventID:         f.event.ID,
		FreeTicketCount: 1,
		FreeAddOns:      []string{f.lunch.ID},
		IsActive:        true,
		BaseModel:       types.GetDefaultBaseModel(ctx),
	}
	for _, c := range []*coupon.Coupon{f.save10, f.free1} {
		require.NoError(t, stores.CouponRepo.Create(ctx, c))
	}

	return f
}

func newTestParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	stores := s.GetStores()
	return NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		s.GetCache(),
		nil,
		stores.EventRepo,
		stores.CatalogRepo,
		stores.CouponRepo,
		stores.BookingRepo,
		s.GetDraftStore(),
		s.GetPublisher(),
		s.GetCalculator(),
		s.GetFormatter(),
	)
}

// newStoredBooking is a confirmed one-ticket booking by userID that used c
func newStoredBooking(f *summit, userID string, c *coupon.Coupon) *booking.Booking {
	return &booking.Booking{
		ID:          types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BOOKING),
		EventID:     f.event.ID,
		UserID:      userID,
		CouponID:    c.ID,
		CouponCode:  c.Code,
		Currency:    "INR",
		Status:      types.BookingStatusConfirmed,
		NetAmount:   f.standard.Price,
		TotalAmount: f.standard.Price,
		Attendees: []*booking.Attendee{{
			ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ATTENDEE),
			FullName:     "Asha Rao",
			Email:        "asha@example.com",
			TicketTypeID: f.standard.ID,
			UnitPrice:    f.standard.Price,
			Amount:       f.standard.Price,
		}},
	}
}
