package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeSessionCreated   Type = "session.created"
	TypeSessionDestroyed Type = "session.destroyed"
	TypeLoginRejected    Type = "login.rejected"
	TypeUserCreated      Type = "user.created"
	TypeUserUpdated      Type = "user.updated"
	TypeUserDeleted      Type = "user.deleted"
	TypeAccessRefused    Type = "access.refused"
	TypeStoreFailed      Type = "store.failed"
)

type Event struct {
	ID        string      `json:"id"`
	Type      Type        `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp string      `json:"timestamp"`
	ActorID   string      `json:"actor_id,omitempty"` // username of the session that triggered it
}

func New(typ Type, actor string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		ActorID:   actor,
	}
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
