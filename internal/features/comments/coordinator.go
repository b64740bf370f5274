package comments

import (
	"context"
	"fmt"
	"time"

	common_models "go-studio-crm/internal/common/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coordinator wraps comment writes so callers see the change instantly: a
// placeholder goes into the cache before any network call, the authoritative
// write runs after, and failure restores the exact pre-write snapshot. The
// error is re-raised after rollback and notification so a caller can tell
// "nothing happened, state is clean" from "silently lost".
type Coordinator struct {
	store    Store
	cache    *Cache
	writer   *RetryWriter
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
}

func NewCoordinator(store Store, cache *Cache, writer *RetryWriter, notifier Notifier, log *zap.Logger) *Coordinator {
	return &Coordinator{
		store:    store,
		cache:    cache,
		writer:   writer,
		notifier: notifier,
		log:      log,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// AddComment performs the optimistic add. The placeholder is replaced by its
// pending id, not by refetching the list, so concurrent optimistic entries
// are never visibly discarded.
func (c *Coordinator) AddComment(ctx context.Context, t common_models.EntityType, entityID, text string) (*Comment, error) {
	snapshot, hadEntry := c.cache.SnapshotComments(t, entityID)

	placeholder := Comment{
		ID:         "pending-" + c.newID(),
		Text:       text,
		Timestamp:  c.now().UTC(),
		Source:     SourceManual,
		EntityID:   entityID,
		EntityType: t,
		Pending:    true,
	}
	c.cache.InsertCommentHead(t, entityID, placeholder)

	confirmed, err := c.write(ctx, t, entityID, text)
	if err != nil {
		c.cache.RestoreComments(t, entityID, snapshot, hadEntry)
		c.notifier.Failure(ctx, "Failed to add comment")
		return nil, fmt.Errorf("adding comment: %w", err)
	}

	if !c.cache.ReplacePending(t, entityID, placeholder.ID, *confirmed) {
		// Entry disappeared underneath us (invalidation); head insert keeps
		// the confirmed comment visible until the next refetch.
		c.cache.InsertCommentHead(t, entityID, *confirmed)
	}
	c.notifier.Success(ctx, "Comment added")
	return confirmed, nil
}

func (c *Coordinator) write(ctx context.Context, t common_models.EntityType, entityID, text string) (*Comment, error) {
	if t == common_models.EntityClient {
		comment := Comment{
			ID:         c.newID(),
			Text:       text,
			Timestamp:  c.now().UTC(),
			Source:     SourceClient,
			EntityID:   entityID,
			EntityType: common_models.EntityClient,
		}
		if err := c.writer.Write(ctx, entityID, comment); err != nil {
			return nil, err
		}
		return &comment, nil
	}

	// Lead comments go to an append-only log: prefer the store's own append
	// and fall back to a plain insert, no retry loop needed.
	description := CommentPrefix + text
	activity, err := c.store.AppendLeadActivity(ctx, entityID, description)
	if err != nil {
		c.log.Warn("lead activity append failed, falling back to direct insert",
			zap.String("entityType", "lead"),
			zap.String("entityId", entityID),
			zap.Error(err))
		activity, err = c.store.InsertLeadActivity(ctx, entityID, description, c.now().UTC())
		if err != nil {
			return nil, err
		}
	}

	return &Comment{
		ID:         activity.ID,
		Text:       text,
		Timestamp:  activity.Timestamp,
		Source:     SourceLead,
		EntityID:   entityID,
		EntityType: common_models.EntityLead,
	}, nil
}
