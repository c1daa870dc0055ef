package types

// Status tracks the lifecycle of a persisted row.
// Changes here must be mirrored in the migration schema.
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
