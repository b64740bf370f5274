package models

import (
	"time"
)

type ContextKey string

const (
	// ActorIDKey carries the authenticated user's id through request contexts
	ActorIDKey ContextKey = "actor_id"
)

// EntityType identifies which kind of CRM record owns a comment or note.
type EntityType string

const (
	EntityLead   EntityType = "lead"
	EntityClient EntityType = "client"
)

func (t EntityType) Valid() bool {
	return t == EntityLead || t == EntityClient
}

// Log is the row shape for the async DB log sink.
type Log struct {
	Message      string    `bson:"message" json:"message"`
	Caller       string    `bson:"caller,omitempty" json:"caller,omitempty"`
	EntityType   string    `bson:"entity_type,omitempty" json:"entity_type,omitempty"`
	EntityID     string    `bson:"entity_id,omitempty" json:"entity_id,omitempty"`
	LogLevelId   int       `bson:"log_level_id" json:"log_level_id"`
	CreatedOnUtc time.Time `bson:"created_on_utc" json:"created_on_utc"`
}
