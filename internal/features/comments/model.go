package comments

import (
	"encoding/json"
	"strings"
	"time"

	common_models "go-studio-crm/internal/common/models"
)

// CommentPrefix marks which lead activity rows are comments. Everything else
// in the activity log is ordinary CRM history and is never surfaced here.
const CommentPrefix = "תגובה: "

// Source records where a comment came from.
type Source string

const (
	SourceLead   Source = "lead"   // synchronized from a lead's activity log
	SourceClient Source = "client" // authored directly against the client
	SourceManual Source = "manual" // optimistic placeholder pending confirmation
)

// Comment is the uniform model regardless of storage backend. Lead-sourced
// comments keep the id of the underlying activity row so the synchronizer can
// dedup by id; client-authored comments get a freshly generated uuid.
type Comment struct {
	ID         string                   `json:"id" bson:"id"`
	Text       string                   `json:"text" bson:"text"`
	Timestamp  time.Time                `json:"timestamp" bson:"timestamp"`
	Source     Source                   `json:"source" bson:"source"`
	EntityID   string                   `json:"entityId" bson:"entity_id"`
	EntityType common_models.EntityType `json:"entityType" bson:"entity_type"`
	Pending    bool                     `json:"pending,omitempty" bson:"-"`
}

// Note is the single free-text field per entity. Updates overwrite the whole
// field; there is no history.
type Note struct {
	EntityID    string                   `json:"entityId" bson:"entity_id"`
	EntityType  common_models.EntityType `json:"entityType" bson:"entity_type"`
	Content     string                   `json:"content" bson:"content"`
	LastUpdated time.Time                `json:"lastUpdated" bson:"last_updated"`
}

// LeadActivity is one row of a lead's activity log. Description is a pointer
// because legacy rows can hold null descriptions; those never match the
// comment prefix.
type LeadActivity struct {
	ID          string    `bson:"_id"`
	LeadID      string    `bson:"lead_id"`
	Description *string   `bson:"activity_description"`
	Timestamp   time.Time `bson:"activity_timestamp"`
}

// LeadComments filters an activity log down to comment rows and maps them to
// the uniform model, preserving relative order.
func LeadComments(leadID string, activities []LeadActivity) []Comment {
	out := []Comment{}
	for _, a := range activities {
		if a.Description == nil || !strings.HasPrefix(*a.Description, CommentPrefix) {
			continue
		}
		out = append(out, Comment{
			ID:         a.ID,
			Text:       strings.TrimPrefix(*a.Description, CommentPrefix),
			Timestamp:  a.Timestamp,
			Source:     SourceLead,
			EntityID:   leadID,
			EntityType: common_models.EntityLead,
		})
	}
	return out
}

// NotesBlob is the structured form of a client's internal_notes column. The
// column is free text: when it parses as JSON we get this shape, when it does
// not the raw text is preserved under OriginalNotes instead of being
// destroyed on the next write. Unknown keys written by other tools round-trip
// through Extra.
type NotesBlob struct {
	ClientComments    []Comment
	LastCommentUpdate string
	LastSync          string
	OriginalNotes     string
	Extra             map[string]json.RawMessage
}

// rawComment tolerates incomplete legacy entries: every field is optional and
// timestamps are kept as strings until parsed.
type rawComment struct {
	ID         string `json:"id,omitempty"`
	Text       string `json:"text"`
	Timestamp  string `json:"timestamp,omitempty"`
	Source     string `json:"source,omitempty"`
	EntityID   string `json:"entityId,omitempty"`
	EntityType string `json:"entityType,omitempty"`
}

// DecodeNotesBlob triages the column contents once at the boundary: empty,
// legacy free text, or structured JSON. It returns ok=false only for the
// legacy-text case so callers can log the condition.
func DecodeNotesBlob(raw string) (*NotesBlob, bool) {
	blob := &NotesBlob{}
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return blob, true
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(trimmed), &fields); err != nil {
		blob.OriginalNotes = raw
		return blob, false
	}

	for key, val := range fields {
		switch key {
		case "clientComments":
			var raws []rawComment
			if err := json.Unmarshal(val, &raws); err != nil {
				continue
			}
			for _, rc := range raws {
				blob.ClientComments = append(blob.ClientComments, rc.toComment())
			}
		case "lastCommentUpdate":
			json.Unmarshal(val, &blob.LastCommentUpdate)
		case "lastSync":
			json.Unmarshal(val, &blob.LastSync)
		case "originalNotes":
			json.Unmarshal(val, &blob.OriginalNotes)
		default:
			if blob.Extra == nil {
				blob.Extra = map[string]json.RawMessage{}
			}
			blob.Extra[key] = val
		}
	}
	return blob, true
}

func (rc rawComment) toComment() Comment {
	c := Comment{
		ID:         rc.ID,
		Text:       rc.Text,
		Source:     Source(rc.Source),
		EntityID:   rc.EntityID,
		EntityType: common_models.EntityType(rc.EntityType),
	}
	if ts, err := time.Parse(time.RFC3339Nano, rc.Timestamp); err == nil {
		c.Timestamp = ts
	}
	return c
}

// Encode serializes the blob back into the text column representation.
func (b *NotesBlob) Encode() (string, error) {
	fields := map[string]json.RawMessage{}
	for key, val := range b.Extra {
		fields[key] = val
	}

	raws := make([]rawComment, 0, len(b.ClientComments))
	for _, c := range b.ClientComments {
		raws = append(raws, rawComment{
			ID:         c.ID,
			Text:       c.Text,
			Timestamp:  c.Timestamp.UTC().Format(time.RFC3339Nano),
			Source:     string(c.Source),
			EntityID:   c.EntityID,
			EntityType: string(c.EntityType),
		})
	}
	encoded, err := json.Marshal(raws)
	if err != nil {
		return "", err
	}
	fields["clientComments"] = encoded

	if b.LastCommentUpdate != "" {
		fields["lastCommentUpdate"], _ = json.Marshal(b.LastCommentUpdate)
	}
	if b.LastSync != "" {
		fields["lastSync"], _ = json.Marshal(b.LastSync)
	}
	if b.OriginalNotes != "" {
		fields["originalNotes"], _ = json.Marshal(b.OriginalNotes)
	}

	out, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
