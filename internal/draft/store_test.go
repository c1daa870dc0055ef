package draft

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/buzzhq/buzz/internal/cache"
	"github.com/buzzhq/buzz/internal/config"
	ierr "github.com/buzzhq/buzz/internal/errors"
	"github.com/buzzhq/buzz/internal/logger"
	"github.com/buzzhq/buzz/internal/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	k := Key{SessionID: "sess_1", EventRoute: "tech-summit"}
	assert.Equal(t, "event-booking-tech-summit:sess_1", k.String())
	assert.NoError(t, k.Validate())
	assert.True(t, ierr.IsValidation(Key{EventRoute: "tech-summit"}.Validate()))
}

func TestMemoryStore(t *testing.T) {
	cfg := config.GetDefaultConfig()
	// drafts must persist even with read caching off
	cfg.Cache.Enabled = false
	testStore(t, NewMemoryStore(cache.NewInMemoryCache(cfg), time.Hour))
}

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "buzz", time.Hour, logger.NewNoopLogger()), mr
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t)
	testStore(t, store)
}

func TestRedisStore_KeyAndTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	key := Key{SessionID: "sess_1", EventRoute: "tech-summit"}

	d, err := ApplyAll(New("tech-summit"), addAttendee("tkt_std", "Asha"))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, key, d))

	redisKey := "buzz:event-booking-tech-summit:sess_1"
	assert.True(t, mr.Exists(redisKey))
	assert.Equal(t, time.Hour, mr.TTL(redisKey))

	mr.FastForward(2 * time.Hour)
	expired, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, expired.IsEmpty())
}

func TestRedisStore_UnreadableDraftIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	key := Key{SessionID: "sess_1", EventRoute: "tech-summit"}

	require.NoError(t, mr.Set("buzz:event-booking-tech-summit:sess_1", "{not json"))

	d, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, d.IsEmpty())
	assert.Equal(t, "tech-summit", d.EventRoute)
}

func TestRedisStore_Unavailable(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t)
	key := Key{SessionID: "sess_1", EventRoute: "tech-summit"}
	mr.Close()

	_, err := store.Load(ctx, key)
	assert.True(t, ierr.IsDatabase(err))
	assert.True(t, ierr.IsDatabase(store.Save(ctx, key, New("tech-summit"))))
	assert.True(t, ierr.IsDatabase(store.Delete(ctx, key)))
}

func TestRedisStore_RejectsIncompleteKey(t *testing.T) {
	store, _ := newRedisStore(t)
	_, err := store.Load(context.Background(), Key{EventRoute: "tech-summit"})
	assert.True(t, ierr.IsValidation(err))
}

// testStore checks the behaviour every Store backend shares
func testStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	key := Key{SessionID: "sess_1", EventRoute: "tech-summit"}
	other := Key{SessionID: "sess_1", EventRoute: "design-week"}

	empty, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())
	assert.Equal(t, "tech-summit", empty.EventRoute)

	d, err := ApplyAll(New("tech-summit"),
		addAttendee("tkt_std", "Asha"),
		Event{Type: types.DraftEventToggleAddOn, AttendeeID: 1, AddOnID: "addon_lunch", Selected: true},
	)
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, key, d))

	loaded, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, d, loaded)

	// scoped by route
	untouched, err := store.Load(ctx, other)
	require.NoError(t, err)
	assert.True(t, untouched.IsEmpty())

	require.NoError(t, store.Delete(ctx, key))
	cleared, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, cleared.IsEmpty())
}
