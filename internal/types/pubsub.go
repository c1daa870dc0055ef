package types

// PubSubType defines the type of pubsub implementation
type PubSubType string

const (
	// MemoryPubSub uses the in-process watermill gochannel
	MemoryPubSub PubSubType = "memory"
)

// DraftStoreType selects where booking drafts are persisted
type DraftStoreType string

const (
	DraftStoreMemory DraftStoreType = "memory"
	DraftStoreRedis  DraftStoreType = "redis"
)

const (
	TopicBookingCreated = "booking.created"
)
