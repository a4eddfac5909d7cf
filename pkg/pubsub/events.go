package pubsub

import "time"

// EventType names what changed.
type EventType string

const (
	// ProfileCreated follows a create or import.
	ProfileCreated EventType = "profile.created"

	// ProfileUpdated follows a rename or launch-argument change.
	ProfileUpdated EventType = "profile.updated"

	// ProfileDeleted follows a delete.
	ProfileDeleted EventType = "profile.deleted"

	// ProfileActivated follows a successful link swap.
	ProfileActivated EventType = "profile.activated"

	// GamePathChanged follows a new installation path being persisted.
	GamePathChanged EventType = "game_path.changed"

	// Detached follows the redirected directory being materialized.
	Detached EventType = "detached"
)

// Event is a notification delivered to subscribers.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}
