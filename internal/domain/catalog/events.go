package catalog

// Topic is the event bus topic carrying catalog mutation events.
const Topic = "catalog.events"

// Event types pushed to connected clients.
const (
	EventCreated = "entity-created"
	EventUpdated = "entity-updated"
	EventDeleted = "entity-deleted"
)

// Event is one mutation notification. Data holds the resulting record for
// creates and updates, or a record containing only the identifier for
// deletions.
type Event struct {
	Type string `json:"event"`
	Data any    `json:"data"`
}

func CreatedEvent(p Product) Event {
	return Event{Type: EventCreated, Data: p}
}

func UpdatedEvent(p Product) Event {
	return Event{Type: EventUpdated, Data: p}
}

func DeletedEvent(id int64) Event {
	return Event{Type: EventDeleted, Data: Record{"_id": id}}
}
