package submission

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusReview     Status = "review"
	StatusApproved   Status = "approved"
	StatusDelivered  Status = "delivered"
)

var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusReview},
	StatusReview:     {StatusProcessing, StatusApproved},
	StatusApproved:   {StatusDelivered},
}

type ImageKind string

const (
	ImageOriginal  ImageKind = "original"
	ImageProcessed ImageKind = "processed"
)

// Image is an upload registration; the file itself lives in external storage
// and is referenced by URL only. Deletions are soft so the audit trail of a
// job survives.
type Image struct {
	ID         string     `bson:"id" json:"id"`
	Kind       ImageKind  `bson:"kind" json:"kind"`
	FileName   string     `bson:"file_name" json:"file_name"`
	URL        string     `bson:"url" json:"url"`
	UploadedBy string     `bson:"uploaded_by,omitempty" json:"uploaded_by,omitempty"`
	UploadedAt time.Time  `bson:"uploaded_at" json:"uploaded_at"`
	Deleted    bool       `bson:"deleted,omitempty" json:"deleted,omitempty"`
	DeletedAt  *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// Tier controls who sees a thread entry: admin-internal, client-visible, or
// editor notes.
type Tier string

const (
	TierAdmin  Tier = "admin"
	TierClient Tier = "client"
	TierEditor Tier = "editor"
)

func (t Tier) Valid() bool {
	return t == TierAdmin || t == TierClient || t == TierEditor
}

type ThreadEntry struct {
	ID        string    `bson:"id" json:"id"`
	Tier      Tier      `bson:"tier" json:"tier"`
	Author    string    `bson:"author,omitempty" json:"author,omitempty"`
	Text      string    `bson:"text" json:"text"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Submission is one photo processing job: originals in, processed images out,
// with a status workflow and a tiered discussion thread.
type Submission struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  string             `bson:"client_id" json:"client_id"`
	Title     string             `bson:"title" json:"title"`
	Reference string             `bson:"reference" json:"reference"`
	Status    Status             `bson:"status" json:"status"`
	Images    []Image            `bson:"images,omitempty" json:"images,omitempty"`
	Thread    []ThreadEntry      `bson:"thread,omitempty" json:"thread,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
