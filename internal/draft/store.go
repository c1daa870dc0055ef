package draft

import (
	"context"

	ierr "github.com/buzzhq/buzz/internal/errors"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Key scopes a draft to one client session and one event route
type Key struct {
	SessionID  string
	EventRoute string
}

// String renders the storage key. Drafts for different routes never collide.
func (k Key) String() string {
	return "event-booking-" + k.EventRoute + ":" + k.SessionID
}

func (k Key) Validate() error {
	if k.SessionID == "" || k.EventRoute == "" {
		return ierr.NewError("draft key requires session and route").
			WithHint("A session id is required to keep a booking draft").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Store persists drafts. Load returns an empty draft when none is stored.
type Store interface {
	Load(ctx context.Context, key Key) (Draft, error)
	Save(ctx context.Context, key Key, d Draft) error
	Delete(ctx context.Context, key Key) error
}

// encode and decode are shared by every store so a draft round-trips the same
// way regardless of backend
func encode(d Draft) ([]byte, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to encode booking draft").
			Mark(ierr.ErrSystem)
	}
	return b, nil
}

func decode(key Key, raw []byte) (Draft, error) {
	d := New(key.EventRoute)
	if err := json.Unmarshal(raw, &d); err != nil {
		return New(key.EventRoute), ierr.WithError(err).
			WithHint("Stored booking draft is unreadable").
			Mark(ierr.ErrSystem)
	}
	d.EventRoute = key.EventRoute
	return d.clone(), nil
}
