package crm

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead is a prospect record. Its activity log lives in the lead_activities
// collection, one row per CRM event.
type Lead struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Status         LeadStatus         `bson:"status" json:"status"`
	LastActivityAt *time.Time         `bson:"last_activity_at,omitempty" json:"last_activity_at,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}

// Client is a converted, active customer. InternalNotes is a plain text
// column that carries the serialized comment blob; OriginalLeadID links back
// to the lead this client was converted from and drives comment
// synchronization.
type Client struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Phone          string             `bson:"phone,omitempty" json:"phone,omitempty"`
	InternalNotes  string             `bson:"internal_notes,omitempty" json:"-"`
	OriginalLeadID string             `bson:"original_lead_id,omitempty" json:"original_lead_id,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updated_at"`
}
