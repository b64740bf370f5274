package comments

import (
	"context"
	"time"

	common_models "go-studio-crm/internal/common/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Accessor produces the canonical newest-first comment list for an entity,
// whichever backend holds it: the filtered activity log for leads, the JSON
// blob inside internal_notes for clients. Read-side failures (permission
// denial, malformed legacy data) degrade to empty data and are logged, never
// propagated — a CRM permission boundary must not break the caller.
type Accessor struct {
	store Store
	cache *Cache
	sync  *Synchronizer
	log   *zap.Logger
	now   func() time.Time
	newID func() string
}

func NewAccessor(store Store, cache *Cache, sync *Synchronizer, log *zap.Logger) *Accessor {
	return &Accessor{
		store: store,
		cache: cache,
		sync:  sync,
		log:   log,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Comments dispatches on entity kind.
func (a *Accessor) Comments(ctx context.Context, t common_models.EntityType, entityID string) []Comment {
	if t == common_models.EntityClient {
		return a.ClientComments(ctx, entityID)
	}
	return a.LeadComments(ctx, entityID)
}

// LeadComments reads the lead path: activity log rows ordered newest first,
// filtered to the comment prefix.
func (a *Accessor) LeadComments(ctx context.Context, leadID string) []Comment {
	if cached, ok := a.cache.FreshComments(common_models.EntityLead, leadID); ok {
		return cached
	}

	activities, err := a.store.ListLeadActivities(ctx, leadID)
	if err != nil {
		a.log.Warn("lead activity fetch failed, returning no comments",
			zap.String("entityType", "lead"),
			zap.String("entityId", leadID),
			zap.Error(err))
		return []Comment{}
	}

	comments := LeadComments(leadID, activities)
	a.cache.SetComments(common_models.EntityLead, leadID, comments)
	return comments
}

// ClientComments reads the client path: decode the blob, then synchronize
// from the original lead when the client was converted from one.
func (a *Accessor) ClientComments(ctx context.Context, clientID string) []Comment {
	if cached, ok := a.cache.FreshComments(common_models.EntityClient, clientID); ok {
		return cached
	}

	notes, err := a.store.GetClientNotes(ctx, clientID)
	if err != nil {
		a.log.Warn("client notes fetch failed, returning no comments",
			zap.String("entityType", "client"),
			zap.String("entityId", clientID),
			zap.Error(err))
		return []Comment{}
	}

	blob, structured := DecodeNotesBlob(notes.InternalNotes)
	if !structured {
		a.log.Warn("internal notes column holds non-JSON text, treating as no comments",
			zap.String("entityType", "client"),
			zap.String("entityId", clientID))
	}

	comments := normalizeComments(blob.ClientComments, clientID, a.now, a.newID)

	if notes.OriginalLeadID != "" {
		out := a.sync.Sync(ctx, clientID, notes.OriginalLeadID, blob, comments)
		comments = out.Comments
	}

	a.cache.SetComments(common_models.EntityClient, clientID, comments)
	return comments
}

// normalizeComments defaults the fields legacy blob entries may be missing.
func normalizeComments(in []Comment, clientID string, now func() time.Time, newID func() string) []Comment {
	out := make([]Comment, 0, len(in))
	for _, c := range in {
		if c.ID == "" {
			c.ID = newID()
		}
		if c.Timestamp.IsZero() {
			c.Timestamp = now()
		}
		if c.Source == "" {
			c.Source = SourceClient
		}
		if c.EntityID == "" {
			c.EntityID = clientID
		}
		if c.EntityType == "" {
			c.EntityType = common_models.EntityClient
		}
		out = append(out, c)
	}
	return out
}
