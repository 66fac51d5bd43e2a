package types

// Status is the storage lifecycle of a row, independent of any business state
type Status string

const (
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusDeleted   Status = "deleted"
)
