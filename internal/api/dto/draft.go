package dto

import (
	"github.com/buzzhq/buzz/internal/draft"
)

// DraftEventRequest is a single action on the session's booking draft
type DraftEventRequest struct {
	draft.Event
	Locale string `json:"locale,omitempty"`
}

// DraftResponse carries the stored draft and its repriced breakdown.
// Breakdown is nil while the draft has no attendees or when the stored draft
// no longer prices, in which case PricingError says why.
type DraftResponse struct {
	Draft        draft.Draft        `json:"draft"`
	Breakdown    *BreakdownResponse `json:"breakdown,omitempty"`
	PricingError string             `json:"pricing_error,omitempty"`
}
