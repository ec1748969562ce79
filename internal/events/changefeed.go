package events

import "time"

// ChangeFeedTopic carries row level change notifications used for cache invalidation.
const ChangeFeedTopic = "ops.changefeed.v1"

const (
	OpInsert = "insert"
	OpUpdate = "update"
	OpDelete = "delete"
)

const (
	TableTasks          = "tasks"
	TableTaskMessages   = "task_messages"
	TableProjects       = "projects"
	TableSystemSettings = "system_settings"
	TableInventoryItems = "inventory_items"
)

// EventProjectChanged replaces the generic event type for project rows.
const EventProjectChanged = "project.changed"

type ChangeEvent struct {
	EventType  string    `json:"event_type"`
	Table      string    `json:"table"`
	Op         string    `json:"op"`
	RecordID   string    `json:"record_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	ActorID    string    `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func NewChangeEvent(table, op, recordID, parentID, actorID string) ChangeEvent {
	return ChangeEvent{
		EventType:  table + "." + op,
		Table:      table,
		Op:         op,
		RecordID:   recordID,
		ParentID:   parentID,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
}
