package comments

import (
	"context"
	"time"

	common_models "go-studio-crm/internal/common/models"

	"go.uber.org/zap"
)

// SyncOutcome separates the logical read result (always available
// immediately) from the persistence of that result (a background write with
// its own completion signal). Persisted yields the write error, or nil, and
// is closed; when no write was needed it is just closed.
type SyncOutcome struct {
	Comments  []Comment
	Missing   int
	Persisted <-chan error
}

// Synchronizer backfills lead comments into a converted client's comment
// list: one-directional, idempotent, eventually consistent. It runs on every
// client read that carries an original lead id; a failed persist is simply
// retried by the next read, since the diff is re-derived from scratch each
// time.
type Synchronizer struct {
	store          Store
	log            *zap.Logger
	now            func() time.Time
	persistTimeout time.Duration
}

func NewSynchronizer(store Store, log *zap.Logger) *Synchronizer {
	return &Synchronizer{
		store:          store,
		log:            log,
		now:            time.Now,
		persistTimeout: 10 * time.Second,
	}
}

// Sync diffs the lead's comment log against the lead-sourced comments already
// present in current, by id and never by text: two comments with identical
// text but different ids are distinct. Missing lead comments are prepended
// (re-tagged to the client entity, keeping their original id and lead source)
// and the merged list is persisted fire-and-forget into the client blob.
// The merged list is returned immediately without waiting for the persist.
func (s *Synchronizer) Sync(ctx context.Context, clientID, leadID string, blob *NotesBlob, current []Comment) SyncOutcome {
	done := make(chan error, 1)

	activities, err := s.store.ListLeadActivities(ctx, leadID)
	if err != nil {
		// Lead access denied or unavailable: the client read must still
		// succeed, so skip synchronization for this read.
		s.log.Warn("lead activity fetch failed, skipping comment sync",
			zap.String("entityType", "client"),
			zap.String("entityId", clientID),
			zap.String("leadId", leadID),
			zap.Error(err))
		close(done)
		return SyncOutcome{Comments: current, Persisted: done}
	}

	leadComments := LeadComments(leadID, activities)

	seen := map[string]struct{}{}
	for _, c := range current {
		if c.Source == SourceLead {
			seen[c.ID] = struct{}{}
		}
	}

	var missing []Comment
	for _, lc := range leadComments {
		if _, ok := seen[lc.ID]; ok {
			continue
		}
		lc.EntityID = clientID
		lc.EntityType = common_models.EntityClient
		missing = append(missing, lc)
	}

	if len(missing) == 0 {
		close(done)
		return SyncOutcome{Comments: current, Persisted: done}
	}

	merged := make([]Comment, 0, len(missing)+len(current))
	merged = append(merged, missing...)
	merged = append(merged, current...)

	go s.persist(clientID, blob, merged, done)

	return SyncOutcome{Comments: merged, Missing: len(missing), Persisted: done}
}

func (s *Synchronizer) persist(clientID string, blob *NotesBlob, merged []Comment, done chan<- error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
	defer cancel()

	updated := *blob
	updated.ClientComments = merged
	updated.LastSync = s.now().UTC().Format(time.RFC3339Nano)

	encoded, err := updated.Encode()
	if err == nil {
		err = s.store.UpdateClientNotes(ctx, clientID, encoded)
	}
	if err != nil {
		s.log.Warn("comment sync persist failed, next read retries",
			zap.String("entityType", "client"),
			zap.String("entityId", clientID),
			zap.Error(err))
	}
	done <- err
	close(done)
}
