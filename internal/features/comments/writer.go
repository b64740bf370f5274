package comments

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const maxWriteAttempts = 3

// RetryWriter performs the client-comment write path. The blob column has no
// atomic append, so every write is a read-modify-write of the whole value;
// each attempt re-reads the current column fresh to shrink the window, and
// failed writes back off exponentially. This mitigates lost updates but does
// not eliminate them: the store only tells us "the write failed", so two
// writers racing inside the same retry window can still silently drop one
// comment. Fixing that needs a normalized comment table, not more retries.
type RetryWriter struct {
	store Store
	log   *zap.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

func NewRetryWriter(store Store, log *zap.Logger) *RetryWriter {
	return &RetryWriter{
		store: store,
		log:   log,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Write prepends the comment to the client blob, retrying up to
// maxWriteAttempts with 2^attempt * 100ms backoff between attempts. The last
// error is propagated when the budget is exhausted.
func (w *RetryWriter) Write(ctx context.Context, clientID string, comment Comment) error {
	var lastErr error
	for attempt := 1; attempt <= maxWriteAttempts; attempt++ {
		lastErr = w.attempt(ctx, clientID, comment)
		if lastErr == nil {
			return nil
		}
		if attempt < maxWriteAttempts {
			backoff := time.Duration(1<<attempt) * 100 * time.Millisecond
			w.log.Warn("client comment write failed, retrying",
				zap.String("entityType", "client"),
				zap.String("entityId", clientID),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			w.sleep(backoff)
		}
	}
	return fmt.Errorf("writing client comment after %d attempts: %w", maxWriteAttempts, lastErr)
}

func (w *RetryWriter) attempt(ctx context.Context, clientID string, comment Comment) error {
	// Fresh read every attempt, never from an earlier snapshot.
	notes, err := w.store.GetClientNotes(ctx, clientID)
	if err != nil {
		return err
	}

	blob, structured := DecodeNotesBlob(notes.InternalNotes)
	if !structured {
		w.log.Warn("wrapping legacy notes text before first structured write",
			zap.String("entityType", "client"),
			zap.String("entityId", clientID))
	}

	blob.ClientComments = append([]Comment{comment}, blob.ClientComments...)
	blob.LastCommentUpdate = w.now().UTC().Format(time.RFC3339Nano)

	encoded, err := blob.Encode()
	if err != nil {
		return err
	}
	return w.store.UpdateClientNotes(ctx, clientID, encoded)
}
