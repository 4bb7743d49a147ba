package domain

type EventType string

const (
	EventItemCreated EventType = "item.created"
	EventItemUpdated EventType = "item.updated"
	EventItemDeleted EventType = "item.deleted"
)

// ItemEvent describes a committed mutation of the store.
type ItemEvent struct {
	Type       EventType `json:"type"`
	Item       Item      `json:"item"`
	OccurredAt uint64    `json:"occurred_at"`
}
