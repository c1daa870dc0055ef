package pricing

import (
	"testing"

	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_ResolvePrice(t *testing.T) {
	r := NewResolver(testCatalog(), testNow)

	tests := []struct {
		id      string
		want    string
		errKind func(error) bool
	}{
		{id: "tkt_std", want: "100"},
		{id: "tkt_vip", want: "500"},
		{id: "tkt_missing", errKind: ierr.IsNotFound},
		{id: "tkt_draft", errKind: ierr.IsUnavailable},
		{id: "tkt_closed", errKind: ierr.IsUnavailable},
		{id: "tkt_full", errKind: ierr.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			price, err := r.ResolvePrice(tt.id)
			if tt.errKind != nil {
				require.Error(t, err)
				assert.True(t, tt.errKind(err))
				return
			}
			require.NoError(t, err)
			assertDecimal(t, tt.want, price)
		})
	}
}

func TestResolver_ResolveAddOnPrice(t *testing.T) {
	r := NewResolver(testCatalog(), testNow)

	price, err := r.ResolveAddOnPrice("addon_lunch")
	require.NoError(t, err)
	assertDecimal(t, "25", price)

	_, err = r.ResolveAddOnPrice("addon_off")
	assert.True(t, ierr.IsUnavailable(err))

	_, err = r.ResolveAddOnPrice("addon_ghost")
	assert.True(t, ierr.IsNotFound(err))
}

func TestResolver_AutoUnpublishBoundary(t *testing.T) {
	cat := testCatalog()
	closed, ok := cat.TicketType("tkt_closed")
	require.True(t, ok)

	before := NewResolver(cat, closed.AutoUnpublishAfter.Add(-1))
	_, err := before.ResolvePrice("tkt_closed")
	assert.NoError(t, err)

	at := NewResolver(cat, *closed.AutoUnpublishAfter)
	_, err = at.ResolvePrice("tkt_closed")
	assert.True(t, ierr.IsUnavailable(err))
}
